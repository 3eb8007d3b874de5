package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDFromRequest(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/"+id.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})

	got, err := idFromRequest(req, "id")
	if err != nil {
		t.Fatalf("idFromRequest: %v", err)
	}
	if got != id {
		t.Errorf("got %v, want %v", got, id)
	}
}

func TestIDFromRequestInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})

	if _, err := idFromRequest(req, "id"); err == nil {
		t.Error("expected error for non-hex id, got nil")
	}
}

func TestDecodeBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Mila"}`))
	if err := decodeBody(req, &dst); err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	if dst.Name != "Mila" {
		t.Errorf("got %q, want Mila", dst.Name)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	if err := decodeBody(req, &dst); err == nil {
		t.Error("expected error for malformed JSON, got nil")
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		url  string
		key  string
		want int64
	}{
		{"/?page=3", "page", 3},
		{"/?page=abc", "page", 1},
		{"/?page=-2", "page", 1},
		{"/", "page", 1},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if got := queryInt(req, tc.key, 1); got != tc.want {
			t.Errorf("queryInt(%q) = %d, want %d", tc.url, got, tc.want)
		}
	}
}
