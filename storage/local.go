package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore écrit sur le disque local et sert les fichiers sous /uploads.
// Suffisant en développement et pour une instance unique.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, publicBaseURL string) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(publicBaseURL, "/") + "/uploads",
	}
}

func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// Dir expose le répertoire racine pour le montage statique Fiber.
func (s *LocalStore) Dir() string {
	return s.baseDir
}
