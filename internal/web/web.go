// Package web serves the server-rendered pages and the public JSON API.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/catalog"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/goodreads"
	"bookcatalog/internal/review"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "session"

// RatingsGateway is the external per-ISBN aggregate lookup.
type RatingsGateway interface {
	ReviewCounts(ctx context.Context, isbn string) (*goodreads.BookRatings, error)
}

type Handler struct {
	catalog    *catalog.Service
	auth       *auth.Service
	reviews    *review.Service
	ratings    RatingsGateway
	tmpl       *template.Template
	sessionTTL time.Duration
}

func NewHandler(catalogSvc *catalog.Service, authSvc *auth.Service, reviewSvc *review.Service, ratings RatingsGateway, sessionTTL time.Duration) *Handler {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"datetimeformat": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
	}).ParseFS(templateFS, "templates/*.html"))

	return &Handler{
		catalog:    catalogSvc,
		auth:       authSvc,
		reviews:    reviewSvc,
		ratings:    ratings,
		tmpl:       tmpl,
		sessionTTL: sessionTTL,
	}
}

// Routes registers every page and API route on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.Handle("/", h.withUser(http.HandlerFunc(h.Home)))
	mux.Handle("/register", h.withUser(http.HandlerFunc(h.Register)))
	mux.Handle("/login", h.withUser(http.HandlerFunc(h.Login)))
	mux.Handle("/logout", h.withUser(http.HandlerFunc(h.Logout)))
	mux.Handle("/search", h.withUser(http.HandlerFunc(h.Search)))
	mux.Handle("/search/", h.withUser(http.HandlerFunc(h.SearchResults)))
	mux.Handle("/book/", h.withUser(http.HandlerFunc(h.bookRoutes)))
	mux.HandleFunc("/api/", h.APIBookByISBN)
}

// withUser resolves the session cookie to an identity and threads it
// through the request context. Anonymous requests pass through untouched.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil && cookie.Value != "" {
			if u, err := h.auth.UserFromToken(r.Context(), cookie.Value); err == nil {
				r = r.WithContext(httpx.ContextWithUser(r.Context(), u.ID, u.Username))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) render(w http.ResponseWriter, statusCode int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render template=%s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, statusCode int, message string) {
	h.render(w, statusCode, "error.html", errorView{Message: message})
}

type errorView struct {
	CurrentUser string
	Message     string
}
