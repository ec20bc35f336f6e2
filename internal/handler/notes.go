package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

// NoteHandler serves the note collection and the search view.
//
// ROUTES:
//
//	GET    /api/notes?q=         → current view (sets the search query when q is present)
//	POST   /api/notes            → create; 201, or 204 when title and content are blank
//	GET    /api/notes/{id}       → one note
//	PUT    /api/notes/{id}       → update; 200, 204 when blank, 404 when missing
//	DELETE /api/notes/{id}       → delete; always 204
//	POST   /api/notes/{id}/pin   → toggle pin; always 204
//	PUT    /api/search           → set the search query, return the view
type NoteHandler struct {
	shared *SharedEngine
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(shared *SharedEngine, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{shared: shared, logger: logger}
}

// NoteRequest is the body of POST /api/notes and PUT /api/notes/{id}.
type NoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// SearchRequest is the body of PUT /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// HandleList returns the current view.
//
// HTTP: GET /api/notes?q=milk
//
// `q` changes the engine's search query (it sticks for later requests, the
// same as PUT /api/search). `?q=` with an empty value clears it; leaving q
// out keeps whatever query was set before.
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var view []model.Note
	h.shared.Run(func(e *service.Engine) {
		if query := r.URL.Query(); query.Has("q") {
			e.SetSearchQuery(query.Get("q"))
		}
		view = e.CurrentView()
	})
	writeJSON(w, http.StatusOK, view)
}

// HandleSearch sets the search query.
//
// HTTP: PUT /api/search
// REQUEST BODY: {"query": "milk"}
func (h *NoteHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var view []model.Note
	h.shared.Run(func(e *service.Engine) {
		e.SetSearchQuery(req.Query)
		view = e.CurrentView()
	})
	writeJSON(w, http.StatusOK, view)
}

// HandleCreate adds a note.
//
// HTTP: POST /api/notes
// REQUEST BODY: {"title": "Groceries", "content": "Milk, eggs", "tags": ["home"]}
//
// A note with nothing in it is not an error, it is simply not created:
// the response is 204 No Content.
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var note *model.Note
	err := h.shared.Do(func(e *service.Engine) (err error) {
		note, err = e.Create(r.Context(), req.Title, req.Content, req.Tags)
		return err
	})
	if err != nil {
		h.logger.Error("failed to create note", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if note == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// HandleGetByID returns one note.
//
// HTTP: GET /api/notes/{id}
func (h *NoteHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var note *model.Note
	err := h.shared.Do(func(e *service.Engine) (err error) {
		note, err = e.Get(id)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// HandleUpdate replaces a note's title, content and tags.
//
// HTTP: PUT /api/notes/{id}
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var note *model.Note
	err := h.shared.Do(func(e *service.Engine) (err error) {
		note, err = e.Update(r.Context(), id, req.Title, req.Content, req.Tags)
		return err
	})
	if err != nil {
		h.logger.Warn("failed to update note", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if note == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// HandleDelete removes a note. Deleting an unknown id still answers 204.
//
// HTTP: DELETE /api/notes/{id}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.shared.Do(func(e *service.Engine) error {
		return e.Delete(r.Context(), id)
	})
	if err != nil {
		h.logger.Error("failed to delete note", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleTogglePin flips a note's pin.
//
// HTTP: POST /api/notes/{id}/pin
func (h *NoteHandler) HandleTogglePin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.shared.Do(func(e *service.Engine) error {
		return e.TogglePin(r.Context(), id)
	})
	if err != nil {
		h.logger.Error("failed to toggle pin", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
