package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-intake/pkg/answer"
)

type startRequest struct {
	Locale string `json:"locale"`
}

type answerRequest struct {
	Value *json.RawMessage `json:"value"`
}

type localeRequest struct {
	Locale string `json:"locale"`
}

func (h *Handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Catalog().Languages())
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.service.Start(r.Context(), req.Locale)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := readJSON(w, r, &req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "request body must carry a value")
		return
	}
	var raw any
	if err := json.Unmarshal(*req.Value, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid value")
		return
	}
	value, err := answer.FromAny(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "value must be a string or a boolean")
		return
	}

	view, err := h.service.Answer(r.Context(), chi.URLParam(r, "id"), value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleLocale(w http.ResponseWriter, r *http.Request) {
	var req localeRequest
	if err := readJSON(w, r, &req); err != nil || req.Locale == "" {
		writeError(w, http.StatusBadRequest, "request body must carry a locale")
		return
	}
	view, err := h.service.SelectLocale(r.Context(), chi.URLParam(r, "id"), req.Locale)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}
