package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func failStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	status, _ := body["status"].(string)
	return status
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	auth := NewAuthMiddleware(nil)
	handler := auth.JWTAuth(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
	if failStatus(t, rec) != "fail" {
		t.Errorf("expected fail envelope, got %s", rec.Body.String())
	}
}

func TestJWTAuthRejectsMalformedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	auth := NewAuthMiddleware(nil)
	handler := auth.JWTAuth(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	adminOnly := RequireRole(models.RoleAdmin)(okHandler())

	tests := []struct {
		name     string
		role     models.Role
		wantCode int
	}{
		{"admin passes", models.RoleAdmin, http.StatusOK},
		{"client blocked", models.RoleClient, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := models.Principal{ID: primitive.NewObjectID(), Role: tc.role}
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req = req.WithContext(WithPrincipal(req.Context(), p))

			rec := httptest.NewRecorder()
			adminOnly.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("got status %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	adminOnly := RequireRole(models.RoleAdmin)(okHandler())

	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}

func TestPrincipalFrom(t *testing.T) {
	p := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleClient}
	ctx := WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil).Context(), p)

	got, ok := PrincipalFrom(ctx)
	if !ok {
		t.Fatal("principal not found in context")
	}
	if got.ID != p.ID || got.Role != p.Role {
		t.Errorf("got %+v, want %+v", got, p)
	}
}
