package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jotdown-io/jotdown/internal/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}

	if creds.Email == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}

	token, user, err := api.authn.Issue(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Same message whether the email is unknown or the password is
			// wrong; login must not reveal which emails exist.
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to create session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    auth.Identity{UserID: user.ID, Email: user.Email},
	})
}

func (api *Api) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": auth.ErrorMessage(auth.ErrTokenMissing)})
		return
	}

	if err := api.authn.Revoke(identity.UserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out successfully"})
}

// HomeHandler validates the caller's token itself rather than going through
// the middleware so unauthenticated clients get the redirect hint.
func (api *Api) HomeHandler(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r)
	if err != nil {
		api.homeUnauthorized(w, "No token provided")
		return
	}

	identity, err := api.authn.Authenticate(token)
	if err != nil {
		api.homeUnauthorized(w, auth.ErrorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Welcome to the home page",
		"authenticated": true,
		"user":          identity,
	})
}

func (api *Api) homeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
		"success":       false,
		"message":       message,
		"redirect":      "login",
		"authenticated": false,
	})
}
