package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

// DraftHandler drives the engine's create/edit session over HTTP.
//
// SESSION FLOW:
//
//	POST   /api/draft            → start a new-note session (empty buffer)
//	POST   /api/draft/edit/{id}  → start an edit session on an existing note
//	PATCH  /api/draft            → change title and/or content
//	POST   /api/draft/tags       → stage a tag
//	DELETE /api/draft/tags/{tag} → unstage a tag
//	POST   /api/draft/commit     → save; 200 with the note, 204 if it was blank
//	DELETE /api/draft            → cancel
//	GET    /api/draft            → current buffer and whether a session is open
//
// There is exactly one draft per engine. Changing the buffer while no session
// is open is a 400.
type DraftHandler struct {
	shared *SharedEngine
	logger *slog.Logger
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(shared *SharedEngine, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{shared: shared, logger: logger}
}

// DraftResponse describes the edit session.
type DraftResponse struct {
	Draft   model.Draft `json:"draft"`
	Editing bool        `json:"editing"`
}

// DraftPatchRequest is the body of PATCH /api/draft. Omitted fields are left alone.
type DraftPatchRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// TagRequest is the body of POST /api/draft/tags.
type TagRequest struct {
	Tag string `json:"tag"`
}

func errNoSession() error {
	return apperror.ValidationFailed("draft", "no create or edit session is open")
}

func draftState(e *service.Engine) DraftResponse {
	return DraftResponse{Draft: e.Draft(), Editing: e.Editing()}
}

// HandleGet returns the buffer.
//
// HTTP: GET /api/draft
func (h *DraftHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	var resp DraftResponse
	h.shared.Run(func(e *service.Engine) {
		resp = draftState(e)
	})
	writeJSON(w, http.StatusOK, resp)
}

// HandleBeginCreate opens a session for a new note, discarding any open one.
//
// HTTP: POST /api/draft
func (h *DraftHandler) HandleBeginCreate(w http.ResponseWriter, r *http.Request) {
	var resp DraftResponse
	h.shared.Run(func(e *service.Engine) {
		e.BeginCreate()
		resp = draftState(e)
	})
	writeJSON(w, http.StatusOK, resp)
}

// HandleBeginEdit opens a session on an existing note.
//
// HTTP: POST /api/draft/edit/{id}
func (h *DraftHandler) HandleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var resp DraftResponse
	err := h.shared.Do(func(e *service.Engine) error {
		if err := e.BeginEditID(id); err != nil {
			return err
		}
		resp = draftState(e)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandlePatch updates title and/or content.
//
// HTTP: PATCH /api/draft
// REQUEST BODY: {"title": "Groceries"} or {"content": "..."} or both
func (h *DraftHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req DraftPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var resp DraftResponse
	err := h.shared.Do(func(e *service.Engine) error {
		if !e.Editing() {
			return errNoSession()
		}
		if req.Title != nil {
			e.SetDraftTitle(*req.Title)
		}
		if req.Content != nil {
			e.SetDraftContent(*req.Content)
		}
		resp = draftState(e)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleAddTag stages a tag. Blank and duplicate tags are ignored.
//
// HTTP: POST /api/draft/tags
// REQUEST BODY: {"tag": "home"}
func (h *DraftHandler) HandleAddTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var resp DraftResponse
	err := h.shared.Do(func(e *service.Engine) error {
		if !e.Editing() {
			return errNoSession()
		}
		e.AddTag(req.Tag)
		resp = draftState(e)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRemoveTag unstages a tag.
//
// HTTP: DELETE /api/draft/tags/{tag}
//
// chi matches on r.URL.RawPath when the path needed escaping ("a%2Fb"), and
// then hands the parameter over still encoded.
func (h *DraftHandler) HandleRemoveTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(tag)
		if err != nil {
			writeError(w, apperror.ValidationFailed("tag", "malformed tag in path"))
			return
		}
		tag = unescaped
	}

	var resp DraftResponse
	err := h.shared.Do(func(e *service.Engine) error {
		if !e.Editing() {
			return errNoSession()
		}
		e.RemoveTag(tag)
		resp = draftState(e)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCommit saves the draft and closes the session.
//
// HTTP: POST /api/draft/commit
//
// The session closes even when nothing is saved (blank draft → 204) and when
// the edited note was deleted in the meantime (→ 404).
func (h *DraftHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	var note *model.Note
	err := h.shared.Do(func(e *service.Engine) (err error) {
		note, err = e.Commit(r.Context())
		return err
	})
	if err != nil {
		h.logger.Warn("draft commit failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if note == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// HandleCancel drops the draft.
//
// HTTP: DELETE /api/draft
func (h *DraftHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.shared.Run(func(e *service.Engine) {
		e.Cancel()
	})
	w.WriteHeader(http.StatusNoContent)
}
