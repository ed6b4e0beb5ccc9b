package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

var ErrNotFound = errors.New("not found")

type Filter struct {
	District       string // id or name, case-insensitive
	MinSuitability int
	Limit          int
	Offset         int
}

type Counts struct {
	Districts   int `json:"districts"`
	Crops       int `json:"crops"`
	Suitability int `json:"suitability"`
	Steps       int `json:"steps"`
}

// CatalogWriter upserts rows mirrored from a catalog provider. Each call
// reports whether the row was inserted or changed.
type CatalogWriter interface {
	UpsertDistrict(ctx context.Context, d *models.District) (bool, error)
	UpsertCrop(ctx context.Context, c *models.Crop) (bool, error)
	UpsertSuitability(ctx context.Context, s *models.Suitability) (bool, error)
	UpsertCultivationStep(ctx context.Context, s *models.CultivationStep) (bool, error)
}

type CatalogReader interface {
	ListDistricts(ctx context.Context) ([]models.District, error)
	GetDistrict(ctx context.Context, nameOrID string) (*models.District, error)
	ListBaselines(ctx context.Context, opts Filter) ([]models.CropBaseline, error)
	GetBaseline(ctx context.Context, district, crop string) (*models.CropBaseline, error)
	ListCultivationSteps(ctx context.Context, cropID string) ([]models.CultivationStep, error)
	Counts(ctx context.Context) (Counts, error)
}

type CatalogRepository interface {
	CatalogWriter
	CatalogReader
}
