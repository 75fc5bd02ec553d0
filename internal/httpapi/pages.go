package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-intake/pkg/answer"
	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/locale"
	"github.com/goliatone/go-intake/pkg/question"
	"github.com/goliatone/go-intake/pkg/wizard"
)

func pagePath(id string) string {
	return "/s/" + id
}

func (h *Handler) handleNewPage(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("lang")
	if code != "" && !h.service.Catalog().Has(code) {
		code = ""
	}
	view, err := h.service.Start(r.Context(), code)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	http.Redirect(w, r, pagePath(view.ID), http.StatusSeeOther)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := h.service.View(r.Context(), id)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	h.renderPage(w, r, http.StatusOK, view)
}

func (h *Handler) handlePagePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	current, err := h.service.View(r.Context(), id)
	if err != nil {
		h.failPage(w, r, err)
		return
	}

	switch {
	case r.PostForm.Get("back") != "":
		_, err = h.service.Back(r.Context(), id)
	case r.PostForm.Get("action") == "locale":
		_, err = h.service.SelectLocale(r.Context(), id, r.PostForm.Get("locale"))
	default:
		_, err = h.service.Answer(r.Context(), id, formValue(current, r.PostForm.Get("value")))
	}

	switch {
	case err == nil:
	case errors.Is(err, flow.ErrInvalidAnswer):
		current.Error = h.service.Catalog().T(current.Locale, locale.KeyInvalidAnswer)
		h.renderPage(w, r, http.StatusUnprocessableEntity, current)
		return
	case statusFor(err) == http.StatusConflict, errors.Is(err, flow.ErrUnknownLocale):
		// Stale form: show whatever the session holds now.
	default:
		h.failPage(w, r, err)
		return
	}
	http.Redirect(w, r, pagePath(id), http.StatusSeeOther)
}

// formValue converts a posted field into an answer for the view's question.
func formValue(view wizard.View, raw string) answer.Value {
	if view.Question != nil && view.Question.Type == question.TypeCheckbox {
		if b, err := strconv.ParseBool(raw); err == nil {
			return answer.Bool(b)
		}
	}
	return answer.Text(raw)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, view wizard.View) {
	var buf bytes.Buffer
	if err := h.pages.Render(&buf, view, pagePath(view.ID)); err != nil {
		h.logger.ErrorContext(r.Context(), "render page", "session_id", view.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) failPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "page failed", "path", r.URL.Path, "error", err)
	}
	if status == http.StatusNotFound {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Error(w, http.StatusText(status), status)
}
