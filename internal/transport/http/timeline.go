package http

import (
	"log"
	"net/http"
	"strconv"

	"fishwrapper-service/internal/domain"
)

func (h *Handler) timelineIndex(w http.ResponseWriter, r *http.Request) {
	story, err := h.timeline.StorySoFar(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"story": story})
}

func (h *Handler) timelineCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := parseOrderedForm(r)
	if err != nil {
		h.renderError(w, err)
		return
	}
	if _, err := h.timeline.Submit(r.Context(), fields.Value("content")); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/infinite_timeline", http.StatusSeeOther)
}

func (h *Handler) timelineEdit(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	entries, week, err := h.timeline.SelectableEntries(r.Context(), r.URL.Query().Get("week"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"story": entries, "week": week})
}

func (h *Handler) timelineSelect(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	fields, err := parseOrderedForm(r)
	if err != nil {
		h.renderError(w, err)
		return
	}
	chosenID, err := strconv.ParseInt(fields.Value("story"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "story must be an entry id"})
		return
	}
	if err := h.timeline.Select(r.Context(), fields.Value("week"), chosenID); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/infinite_timeline", http.StatusSeeOther)
}

func (h *Handler) timelineWeek(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	week, err := h.timeline.CurrentWeek(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"week": week})
}

func (h *Handler) timelineSetWeek(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	fields, err := parseOrderedForm(r)
	if err != nil {
		h.renderError(w, err)
		return
	}
	week, err := strconv.Atoi(fields.Value("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be a number"})
		return
	}
	if err := h.timeline.AdvanceWeek(r.Context(), week); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/infinite_timeline", http.StatusSeeOther)
}

func (h *Handler) timelineClean(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditor(w, r) {
		return
	}
	removed, err := h.timeline.Cleanup(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	log.Printf("timeline cleanup removed %d unselected entries", removed)
	http.Redirect(w, r, "/infinite_timeline", http.StatusSeeOther)
}

type storyMessage struct {
	Type  string                 `json:"type"`
	Story []domain.TimelineEntry `json:"story"`
}

// timelineLive streams the story to a websocket client: the current
// snapshot on connect, then a fresh one after every selection change.
func (h *Handler) timelineLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	story, err := h.timeline.StorySoFar(r.Context())
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"type": "error", "message": err.Error()})
		return
	}
	updates, cancel := h.feed.Subscribe()
	defer cancel()

	if err := conn.WriteJSON(storyMessage{Type: "story", Story: story}); err != nil {
		return
	}

	// reader goroutine only watches for the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(storyMessage{Type: "story", Story: update}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
