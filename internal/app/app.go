package app

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"polybook/internal/bookcache"
	"polybook/internal/config"
	"polybook/internal/db"
	"polybook/internal/web"
)

type App struct {
	store *db.Store
	books *bookcache.Cache
	mux   *http.ServeMux

	adminToken string

	closeOnce sync.Once
}

func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.BooksDir, 0o755); err != nil {
		return nil, fmt.Errorf("create books dir: %w", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	adminToken, err := loadOrInitAdminToken(cfg.DataDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	books := bookcache.New()
	h := web.NewHandler(store, books, adminToken, cfg.BooksDir)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &App{
		store:      store,
		books:      books,
		mux:        mux,
		adminToken: adminToken,
	}, nil
}

func (a *App) Router() http.Handler {
	return a.mux
}

func (a *App) AdminToken() string {
	return a.adminToken
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.books.Close()
		_ = a.store.Close()
	})
}
