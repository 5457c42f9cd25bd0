package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/httpx"
)

type registerView struct {
	CurrentUser     string
	Username        string
	AlertUsername   string
	AlertPassword   string
	AlertPassRepeat string
	Registered      string // set to the username once registration succeeded
}

type loginView struct {
	CurrentUser string
	Username    string
	Error       bool
}

type homeView struct {
	CurrentUser string
}

// Home handles GET /. The root pattern catches everything unmatched, so
// anything but "/" is a 404.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, http.StatusOK, "index.html", homeView{CurrentUser: httpx.UsernameFrom(r)})
}

// Register handles GET/POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "register.html", registerView{})
	case http.MethodPost:
		h.registerSubmit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) registerSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	passRepeat := r.PostFormValue("passRepeat")

	u, err := h.auth.Register(r.Context(), username, password, passRepeat)
	if err != nil {
		view := registerView{Username: username}
		var fieldErr *auth.FieldError
		if errors.As(err, &fieldErr) {
			switch fieldErr.Field {
			case "username":
				view.AlertUsername = fieldErr.Message
			case "password":
				view.AlertPassword = fieldErr.Message
			case "passRepeat":
				view.AlertPassRepeat = fieldErr.Message
			}
		} else {
			log.Printf("register username=%q failed: %v", username, err)
			view.AlertUsername = "There was a problem. Please try again later."
		}
		h.render(w, http.StatusOK, "register.html", view)
		return
	}

	h.render(w, http.StatusOK, "register.html", registerView{Registered: u.Username})
}

// Login handles GET/POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "login.html", loginView{})
	case http.MethodPost:
		h.loginSubmit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, _, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Printf("login username=%q failed: %v", username, err)
		}
		h.render(w, http.StatusOK, "login.html", loginView{Username: username, Error: true})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout: drops the server-side session and clears
// the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("logout failed: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
