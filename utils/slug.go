package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSlug : identifiant lisible et unique dérivé du nom du compte.
// Seuls les lettres, chiffres et tirets survivent, sans tirets répétés.
func GenerateSlug(seed string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(seed)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	if base == "" {
		base = "org"
	}
	return base + "-" + uuid.NewString()[:8]
}
