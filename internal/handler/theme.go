package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

// ThemeHandler serves the dark/light preference and the combined state snapshot.
type ThemeHandler struct {
	shared *SharedEngine
	logger *slog.Logger
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(shared *SharedEngine, logger *slog.Logger) *ThemeHandler {
	return &ThemeHandler{shared: shared, logger: logger}
}

// ThemeResponse is {"dark": true, "name": "dark"}.
type ThemeResponse struct {
	Dark bool   `json:"dark"`
	Name string `json:"name"`
}

// ThemeRequest is the body of PUT /api/theme. Dark is a pointer so an empty
// body is rejected rather than read as "light".
type ThemeRequest struct {
	Dark *bool `json:"dark"`
}

// StateResponse is everything a client needs to render the app in one request.
type StateResponse struct {
	Notes   []model.Note `json:"notes"`
	Query   string       `json:"query"`
	Draft   model.Draft  `json:"draft"`
	Editing bool         `json:"editing"`
	Dark    bool         `json:"dark"`
}

func themeResponse(t model.Theme) ThemeResponse {
	return ThemeResponse{Dark: t.Dark, Name: t.Name()}
}

// HandleGet returns the preference.
//
// HTTP: GET /api/theme
func (h *ThemeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	var theme model.Theme
	h.shared.Run(func(e *service.Engine) {
		theme = e.Theme()
	})
	writeJSON(w, http.StatusOK, themeResponse(theme))
}

// HandleSet stores the preference.
//
// HTTP: PUT /api/theme
// REQUEST BODY: {"dark": true}
func (h *ThemeHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Dark == nil {
		writeError(w, apperror.ValidationFailed("dark", "dark is required"))
		return
	}

	var theme model.Theme
	err := h.shared.Do(func(e *service.Engine) error {
		if err := e.SetThemePreference(r.Context(), *req.Dark); err != nil {
			return err
		}
		theme = e.Theme()
		return nil
	})
	if err != nil {
		h.logger.Error("failed to set theme", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, themeResponse(theme))
}

// HandleState returns the view, the search query, the draft and the theme together.
//
// HTTP: GET /api/state
func (h *ThemeHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	var resp StateResponse
	h.shared.Run(func(e *service.Engine) {
		resp = StateResponse{
			Notes:   e.CurrentView(),
			Query:   e.SearchQuery(),
			Draft:   e.Draft(),
			Editing: e.Editing(),
			Dark:    e.Theme().Dark,
		}
	})
	writeJSON(w, http.StatusOK, resp)
}
