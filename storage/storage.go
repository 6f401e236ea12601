package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage : dépose un contenu et renvoie une URL consultable.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// BuildKey produit une clé "<categorie>/<horodatage>-<discriminant>.<ext>"
// pour éviter les collisions entre uploads.
func BuildKey(category, ext string) string {
	return fmt.Sprintf("%s/%s-%s.%s",
		category,
		time.Now().UTC().Format("20060102-150405"),
		uuid.NewString()[:8],
		ext,
	)
}
