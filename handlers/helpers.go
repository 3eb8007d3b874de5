package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderpranjal09/cystas-devsoft-Ems/middleware"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return utils.NewValidationError("Invalid request body")
	}
	return nil
}

func idFromRequest(r *http.Request, key string) (primitive.ObjectID, error) {
	raw := mux.Vars(r)[key]
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError("Invalid ID format: " + raw)
	}
	return id, nil
}

func principal(r *http.Request) (models.Principal, error) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return models.Principal{}, utils.NewAuthError("You are not logged in")
	}
	return p, nil
}

func queryInt(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
