package staging

import (
	"context"

	"github.com/google/uuid"
)

// MockGenerator : implémentation déterministe pour le développement et les
// tests. Sélectionnée explicitement à la composition, jamais par détection
// d'environnement.
type MockGenerator struct {
	// Err force l'échec de toutes les générations quand non nil.
	Err error
}

func (m *MockGenerator) GenerateStaging(_ context.Context, req GenerationRequest) (*GenerationResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &GenerationResult{
		ID:       uuid.NewString(),
		Status:   "succeeded",
		ImageURL: "https://cdn.stagify.local/mock/" + req.Style + "-" + uuid.NewString()[:8] + ".jpg",
	}, nil
}
