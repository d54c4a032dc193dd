package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jotdown-io/jotdown/internal/auth"
	"github.com/jotdown-io/jotdown/internal/notes"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// identity is always present here; the notes routes sit behind RequireToken.
func mustIdentity(r *http.Request) *auth.Identity {
	identity, _ := auth.IdentityFromContext(r.Context())
	return identity
}

func noteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
}

func (api *Api) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r)

	list, err := api.notes.ListByUser(identity.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "notes": list})
}

func (api *Api) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r)

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title and content are required"})
		return
	}

	note, err := api.notes.Create(identity.UserID, req.Title, req.Content)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Note created successfully",
		"note":    note,
	})
}

func (api *Api) GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r)

	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
		return
	}

	note, err := api.notes.GetByID(identity.UserID, id)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "note": note})
}

func (api *Api) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r)

	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title and content are required"})
		return
	}

	note, err := api.notes.Update(identity.UserID, id, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Note updated successfully",
		"note":    note,
	})
}

func (api *Api) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r)

	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
		return
	}

	if err := api.notes.Delete(identity.UserID, id); err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Note not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Note deleted successfully"})
}
