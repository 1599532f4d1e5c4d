package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"polybook/internal/bookcache"
	"polybook/internal/db"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

type Handler struct {
	store *db.Store
	books *bookcache.Cache

	adminToken string
	booksDir   string

	tpl *template.Template
}

func NewHandler(store *db.Store, books *bookcache.Cache, adminToken string, booksDir string) *Handler {
	tpl := template.Must(template.New("base").ParseFS(templatesFS, "templates/*.html"))
	return &Handler{
		store:      store,
		books:      books,
		adminToken: adminToken,
		booksDir:   booksDir,
		tpl:        tpl,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /book", h.handleBookExplorer)
	mux.HandleFunc("GET /lookups", h.handleLookups)

	mux.HandleFunc("GET /api/books", h.handleAPIBooks)
	mux.HandleFunc("GET /api/lookup", h.handleAPILookup)

	mux.HandleFunc("GET /admin", h.requireAdmin(h.handleAdminRoot))
	mux.HandleFunc("GET /admin/books", h.requireAdmin(h.handleAdminBooks))
	mux.HandleFunc("POST /admin/books/add", h.requireAdmin(h.handleAdminBookAdd))
	mux.HandleFunc("POST /admin/books/delete", h.requireAdmin(h.handleAdminBookDelete))
	mux.HandleFunc("POST /admin/settings", h.requireAdmin(h.handleAdminSettingsSave))
	mux.HandleFunc("POST /admin/logout", h.requireAdmin(h.handleAdminLogout))
}
