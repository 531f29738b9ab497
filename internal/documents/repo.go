package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Repository persists rendered document records.
type Repository interface {
	Create(ctx context.Context, file *models.DocumentFile) (*models.DocumentFile, error)
	FindLatest(ctx context.Context, kind enums.DocumentKind, referenceID uuid.UUID) (*models.DocumentFile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, file *models.DocumentFile) (*models.DocumentFile, error) {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// FindLatest returns the most recent render for the reference, or nil when
// the document has never been rendered.
func (r *repository) FindLatest(ctx context.Context, kind enums.DocumentKind, referenceID uuid.UUID) (*models.DocumentFile, error) {
	var file models.DocumentFile
	err := r.db.WithContext(ctx).
		Where("kind = ? AND reference_id = ?", kind, referenceID).
		Order("created_at DESC").
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}
