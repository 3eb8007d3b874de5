package utils

import (
	"encoding/json"
	"net/http"
)

// Envelope is the single response shape every endpoint uses. Success bodies
// are {"status":"success","data":...}; client errors are
// {"status":"fail","message":...} and server errors {"status":"error",...}.
type Envelope map[string]interface{}

func WriteJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func RespondSuccess(w http.ResponseWriter, code int, data interface{}) {
	WriteJSON(w, code, Envelope{"status": "success", "data": data})
}

// RespondSuccessExtra merges additional top-level fields (token, results,
// total, page, limit) into the success envelope.
func RespondSuccessExtra(w http.ResponseWriter, code int, data interface{}, extra Envelope) {
	body := Envelope{"status": "success", "data": data}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, code, body)
}

func RespondError(w http.ResponseWriter, err error) {
	if appErr, ok := AsAppError(err); ok {
		status := "fail"
		if appErr.Code >= http.StatusInternalServerError {
			status = "error"
		}
		WriteJSON(w, appErr.Code, Envelope{"status": status, "message": appErr.Message})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, Envelope{"status": "error", "message": "Internal server error"})
}
