package web

import (
	"crypto/subtle"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"polybook/internal/book"
)

func (h *Handler) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "polybook_admin_token", Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			http.Error(w, "/admin disabled (no admin token)", http.StatusForbidden)
			return
		}
		if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
			if tokensEqual(token, h.adminToken) {
				h.setAdminCookie(w)
				next(w, r)
				return
			}
			http.Error(w, "invalid admin token", http.StatusUnauthorized)
			return
		}
		cookie, err := r.Cookie("polybook_admin_token")
		if err != nil || cookie.Value == "" {
			http.Error(w, "missing admin token (add ?token=...) to the URL", http.StatusUnauthorized)
			return
		}
		if !tokensEqual(cookie.Value, h.adminToken) {
			http.Error(w, "invalid admin token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (h *Handler) setAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "polybook_admin_token",
		Value:    h.adminToken,
		Path:     "/",
		HttpOnly: true,
	})
}

func (h *Handler) handleAdminRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

func (h *Handler) handleAdminBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	books, err := h.store.ListBooks(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = h.tpl.ExecuteTemplate(w, "admin_books.html", map[string]any{
		"Page":     "admin",
		"IsAdmin":  true,
		"Books":    books,
		"Settings": settings,
		"BooksDir": h.booksDir,
	})
}

// handleAdminBookAdd registers an existing .bin file under a name. The
// book is opened once to validate the format and count its records.
func (h *Handler) handleAdminBookAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.Form.Get("name"))
	path := strings.TrimSpace(r.Form.Get("path"))
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(h.booksDir, path)
	}
	if name == "" || path == "" {
		http.Error(w, "name and path are required", http.StatusBadRequest)
		return
	}

	bk, err := book.Load(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records := bk.Len()
	_ = bk.Close()

	if _, err := h.store.AddBook(r.Context(), name, path, records); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

func (h *Handler) handleAdminBookDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}
	if _, err := h.store.DeleteBook(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

func (h *Handler) handleAdminSettingsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if v, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("default_book_id")), 10, 64); err == nil {
		settings.DefaultBookID = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("explorer_max_moves"))); err == nil && v > 0 {
		settings.ExplorerMaxMoves = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("lookup_log_limit"))); err == nil && v > 0 {
		settings.LookupLogLimit = v
	}

	if err := h.store.UpdateSettings(r.Context(), settings); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}
