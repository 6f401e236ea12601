package utils

import (
	"path/filepath"
	"strings"
)

// IsAllowedImageMime filtre les types acceptés pour une photo de pièce.
func IsAllowedImageMime(m string) bool {
	if m == "" {
		return false
	}
	m = strings.ToLower(m)
	return strings.HasPrefix(m, "image/jpeg") ||
		strings.HasPrefix(m, "image/png") ||
		strings.HasPrefix(m, "image/webp")
}

// SanitizeFilename nettoie un nom de fichier pour éviter les caractères problématiques.
func SanitizeFilename(name string) string {
	if name == "" {
		return "photo"
	}
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name
}

// ExtForMime : extension de fichier pour un type mime supporté.
func ExtForMime(m string) string {
	switch {
	case strings.HasPrefix(m, "image/png"):
		return "png"
	case strings.HasPrefix(m, "image/webp"):
		return "webp"
	default:
		return "jpg"
	}
}
