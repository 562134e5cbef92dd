package transport

import (
	"net/http"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

func (rt *Router) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := rt.store.ListNotes(r.Context(), r.URL.Query().Get("caseId"))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(notes))
}

type notePayload struct {
	CaseID  string `json:"caseId"`
	Content string `json:"content"`
}

func (rt *Router) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var p notePayload
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if p.CaseID == "" {
		writeMessage(w, http.StatusBadRequest, "caseId is required")
		return
	}
	if p.Content == "" {
		writeMessage(w, http.StatusBadRequest, "Note content is required.")
		return
	}

	now := rt.nowTime()
	n := &api.Note{
		ID:        api.NewID(),
		CaseID:    p.CaseID,
		Content:   p.Content,
		CreatedBy: storage.GetOwner(r.Context()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := rt.store.CreateNote(r.Context(), n); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	rt.recordActivity(r.Context(), n.CaseID, api.ActivityNoteAdded, "New note added.")

	writeJSON(w, http.StatusCreated, n)
}

func (rt *Router) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "Note not found")
		return
	}
	writeMessage(w, http.StatusOK, "Note deleted")
}
