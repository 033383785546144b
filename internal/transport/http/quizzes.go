package http

import (
	"net/http"
)

func (h *Handler) quizIndex(w http.ResponseWriter, r *http.Request) {
	left, center, err := h.quizzes.Index(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"left": left, "center": center})
}

func (h *Handler) quizNew(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"view": "quizzes/new"})
}

// quizCreate handles both create and, via the _method override field the
// edit form posts, update.
func (h *Handler) quizCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	fields, err := parseOrderedForm(r)
	if err != nil {
		h.renderError(w, err)
		return
	}
	if fields.Value("_method") == "PUT" {
		if err := h.quizzes.Update(r.Context(), fields); err != nil {
			h.renderError(w, err)
			return
		}
		http.Redirect(w, r, "/quizzes", http.StatusSeeOther)
		return
	}
	if _, err := h.quizzes.Create(r.Context(), fields); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/quizzes", http.StatusSeeOther)
}

func (h *Handler) quizShow(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizzes.Show(r.Context(), r.PathValue("quizId"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quiz": view})
}

func (h *Handler) quizEdit(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	view, err := h.quizzes.Show(r.Context(), r.PathValue("quizId"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": "quizzes/edit", "quiz": view})
}

func (h *Handler) quizDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	if err := h.quizzes.Destroy(r.Context(), r.PathValue("quizId")); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/quizzes", http.StatusSeeOther)
}

func (h *Handler) quizGrade(w http.ResponseWriter, r *http.Request) {
	fields, err := parseOrderedForm(r)
	if err != nil {
		h.renderError(w, err)
		return
	}
	outcome, err := h.quizzes.GradeSubmission(r.Context(), r.PathValue("quizId"), fields)
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
