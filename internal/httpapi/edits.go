package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tokopos/internal/service"
)

func (a *API) editRoutes(r chi.Router) {
	r.Post("/", a.handleBeginEdit)
	r.Get("/", a.handleGetEdit)
	r.Delete("/", a.handleCancelEdit)
	r.Patch("/items/{itemID}", a.handleEditQuantity)
	r.Delete("/items/{itemID}", a.handleEditRemove)
	r.Post("/save", a.handleSaveEdit)
}

func (a *API) editSession(w http.ResponseWriter, r *http.Request) (*service.EditSession, bool) {
	session, err := a.service.EditSession(chi.URLParam(r, "saleID"))
	if err != nil {
		a.fail(w, r, err)
		return nil, false
	}
	return session, true
}

func (a *API) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	session, err := a.service.BeginEdit(r.Context(), chi.URLParam(r, "saleID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"edit": session.View()})
}

func (a *API) handleGetEdit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.editSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"edit": session.View()})
}

func (a *API) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.editSession(w, r)
	if !ok {
		return
	}
	session.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

type editQuantityRequest struct {
	Delta int `json:"delta"`
}

func (a *API) handleEditQuantity(w http.ResponseWriter, r *http.Request) {
	var req editQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	session, ok := a.editSession(w, r)
	if !ok {
		return
	}
	if err := session.ChangeQuantity(chi.URLParam(r, "itemID"), req.Delta); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"edit": session.View()})
}

func (a *API) handleEditRemove(w http.ResponseWriter, r *http.Request) {
	session, ok := a.editSession(w, r)
	if !ok {
		return
	}
	if err := session.RemoveItem(chi.URLParam(r, "itemID")); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"edit": session.View()})
}

func (a *API) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.editSession(w, r)
	if !ok {
		return
	}
	result, err := session.Save(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
