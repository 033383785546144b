package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"fishwrapper-service/internal/app"
	"fishwrapper-service/internal/domain"
)

// Handler wires the route table to the use-case services.
type Handler struct {
	quizzes    *app.QuizService
	timeline   *app.TimelineScheduler
	auth       *app.AuthService
	feed       *app.StoryFeed
	cookieName string
	sessionTTL time.Duration
	baseURL    string
	upgrader   websocket.Upgrader
}

type Options struct {
	CookieName string
	SessionTTL time.Duration
	BaseURL    string
}

func NewHandler(quizzes *app.QuizService, timeline *app.TimelineScheduler, auth *app.AuthService, feed *app.StoryFeed, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "id_token"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://thefishwrapper.news"
	}
	return &Handler{
		quizzes:    quizzes,
		timeline:   timeline,
		auth:       auth,
		feed:       feed,
		cookieName: opts.CookieName,
		sessionTTL: opts.SessionTTL,
		baseURL:    opts.BaseURL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the site's route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /quizzes", h.quizIndex)
	mux.HandleFunc("GET /quizzes/new", h.quizNew)
	mux.HandleFunc("POST /quizzes", h.quizCreate)
	mux.HandleFunc("GET /quizzes/{quizId}", h.quizShow)
	mux.HandleFunc("GET /quizzes/{quizId}/edit", h.quizEdit)
	mux.HandleFunc("GET /quizzes/{quizId}/delete", h.quizDelete)
	mux.HandleFunc("POST /quizzes/{quizId}", h.quizGrade)

	mux.HandleFunc("GET /infinite_timeline", h.timelineIndex)
	mux.HandleFunc("POST /infinite_timeline", h.timelineCreate)
	mux.HandleFunc("GET /infinite_timeline/edit", h.timelineEdit)
	mux.HandleFunc("POST /infinite_timeline/edit", h.timelineSelect)
	mux.HandleFunc("GET /infinite_timeline/week", h.timelineWeek)
	mux.HandleFunc("POST /infinite_timeline/week", h.timelineSetWeek)
	mux.HandleFunc("GET /infinite_timeline/clean", h.timelineClean)
	mux.HandleFunc("GET /infinite_timeline/live", h.timelineLive)

	mux.HandleFunc("GET /login", h.loginForm)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /logout", h.logout)

	mux.HandleFunc("GET /sitemap.xml", h.sitemap)

	return mux
}

// requireEditor validates the session cookie. Unauthenticated requests are
// redirected to the login page, not failed.
func (h *Handler) requireEditor(w http.ResponseWriter, r *http.Request) bool {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if _, ok := h.auth.Authenticate(r.Context(), cookie.Value); ok {
			return true
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrCounterNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrContentRequired):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
