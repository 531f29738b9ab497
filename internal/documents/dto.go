package documents

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// DocumentSummary is the public shape returned by document endpoints. URL is
// the path under which the static file server exposes the rendered PDF.
type DocumentSummary struct {
	ID          uuid.UUID          `json:"id"`
	Kind        enums.DocumentKind `json:"kind"`
	ReferenceID uuid.UUID          `json:"reference_id"`
	Path        string             `json:"-"`
	URL         string             `json:"url"`
	SizeBytes   int64              `json:"size_bytes"`
	CreatedAt   time.Time          `json:"created_at"`
}

// FromModel converts a persisted document file into its public shape.
func FromModel(file *models.DocumentFile) DocumentSummary {
	return DocumentSummary{
		ID:          file.ID,
		Kind:        file.Kind,
		ReferenceID: file.ReferenceID,
		Path:        file.Path,
		URL:         "/" + filepath.ToSlash(file.Path),
		SizeBytes:   file.SizeBytes,
		CreatedAt:   file.CreatedAt,
	}
}
