package api

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/rodr499/kardo/internal/server/storage"
	"github.com/rodr499/kardo/pkg/utils"
)

type contextKey string

const userClaimsKey contextKey = "userClaims"

// AuthMiddleware validates the Supabase access token locally against the
// project JWT secret; no auth round trip happens per request.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondErrorJSON(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondErrorJSON(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		token := parts[1]
		jwtSecret := os.Getenv("SUPABASE_JWT_SECRET")

		claims, err := utils.ValidateJWT(token, jwtSecret)
		if err != nil {
			respondErrorJSON(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserClaims(r *http.Request) *utils.Claims {
	claims, ok := r.Context().Value(userClaimsKey).(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}

// AdminMiddleware allows only profiles marked super_admin through. It runs
// after AuthMiddleware.
func AdminMiddleware(profiles *storage.ProfileRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserClaims(r)
			if claims == nil {
				respondErrorJSON(w, http.StatusUnauthorized, "missing authorization claims")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			profile, err := profiles.GetByID(r.Context(), userID)
			if err != nil {
				respondErrorJSON(w, http.StatusInternalServerError, "failed to check admin access")
				return
			}
			if profile == nil || !profile.IsSuperAdmin() {
				respondErrorJSON(w, http.StatusForbidden, "admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
