package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const (
	IdentityContextKey contextKey = "identity"
)

// BearerToken extracts the bearer token from a request, or ErrTokenMissing.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrTokenMissing
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrTokenMissing
	}

	return parts[1], nil
}

// ErrorMessage maps an authentication failure to the message surfaced to
// clients. Each cause gets its own message so the client can decide whether
// to redirect to login; credentials failures stay deliberately vague.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "Token is missing"
	case errors.Is(err, ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, ErrTokenMalformed):
		return "Token is invalid"
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrTokenRevoked):
		return "Token is invalid or expired"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	}
	return "Unauthorized"
}

// RequireToken creates a middleware that authenticates the bearer token and
// injects the verified identity into the request context
func RequireToken(authn *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				unauthorized(w, err)
				return
			}

			identity, err := authn.Authenticate(token)
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the verified identity from the context
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": ErrorMessage(err)})
}
