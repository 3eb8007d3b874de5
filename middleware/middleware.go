package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware resolves the bearer token into a principal on every
// request. The user is reloaded from the database so a deleted account's
// token stops working immediately.
type AuthMiddleware struct {
	Users *mongo.Collection
}

func NewAuthMiddleware(users *mongo.Collection) *AuthMiddleware {
	return &AuthMiddleware{Users: users}
}

func (a *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondError(w, utils.NewAuthError("You are not logged in. Please log in to get access."))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			logging.Logger.Warnf("Event ID: AUTH_BEARER_PREFIX_MISSING, Description: Bearer prefix missing for %s %s", r.Method, r.URL.Path)
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			utils.RespondError(w, utils.NewAuthError("Invalid or expired token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondError(w, utils.NewAuthError("Invalid or expired token"))
			return
		}

		var user models.User
		if err := a.Users.FindOne(r.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondError(w, utils.NewAuthError("The user belonging to this token no longer exists"))
			return
		}

		principal := models.Principal{ID: user.ID, Role: user.Role}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a subrouter to the given roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				utils.RespondError(w, utils.NewAuthError("You are not logged in. Please log in to get access."))
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.RespondError(w, utils.NewForbiddenError("You do not have permission to perform this action"))
		})
	}
}

func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(models.Principal)
	return principal, ok
}

// WithPrincipal is used by tests to seed an authenticated context.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
