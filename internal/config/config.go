package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	ListenAddr string
	DataDir    string
	DBPath     string
	BooksDir   string
}

func FromEnv() Config {
	listenAddr := getenv("POLYBOOK_LISTEN_ADDR", ":8080")
	dataDir := getenv("POLYBOOK_DATA_DIR", "./data")
	dbPath := getenv("POLYBOOK_DB_PATH", filepath.Join(dataDir, "polybook.sqlite"))
	booksDir := getenv("POLYBOOK_BOOKS_DIR", filepath.Join(dataDir, "books"))

	return Config{
		ListenAddr: listenAddr,
		DataDir:    dataDir,
		DBPath:     dbPath,
		BooksDir:   booksDir,
	}
}

func getenv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
