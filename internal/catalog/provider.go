// Package catalog fetches the district and crop reference tables from
// wherever they are hosted.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

const (
	SourceBuiltin  = "builtin"
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

type Provider interface {
	Name() string
	Districts(ctx context.Context) ([]models.District, error)
	Crops(ctx context.Context) ([]models.Crop, error)
	Suitability(ctx context.Context) ([]models.Suitability, error)
	CultivationSteps(ctx context.Context) ([]models.CultivationStep, error)
}

// Snapshot is one complete read of a provider's tables.
type Snapshot struct {
	Source      string
	Districts   []models.District
	Crops       []models.Crop
	Suitability []models.Suitability
	Steps       []models.CultivationStep
}

// Fetch reads all four tables concurrently. The first failure cancels the
// remaining reads.
func Fetch(ctx context.Context, p Provider) (*Snapshot, error) {
	s := &Snapshot{Source: p.Name()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		s.Districts, err = p.Districts(ctx)
		return wrap("districts", err)
	})
	g.Go(func() (err error) {
		s.Crops, err = p.Crops(ctx)
		return wrap("crops", err)
	})
	g.Go(func() (err error) {
		s.Suitability, err = p.Suitability(ctx)
		return wrap("suitability", err)
	})
	g.Go(func() (err error) {
		s.Steps, err = p.CultivationSteps(ctx)
		return wrap("cultivation steps", err)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching %s catalog: %w", p.Name(), err)
	}
	return s, nil
}

func wrap(table string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	return nil
}
