package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

// Postgres reads the catalog tables straight from the platform database.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("error parsing pgx connection string: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error making new pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging postgres: %w", err)
	}
	return &Postgres{db: pool}, nil
}

func (*Postgres) Name() string { return SourcePostgres }

func (p *Postgres) Close() {
	p.db.Close()
}

const (
	districtsQuery = `SELECT id::text AS id, name, state, climate_zone, soil_type,
		avg_rainfall::float8 AS avg_rainfall, created_at
		FROM districts ORDER BY name`
	cropsQuery = `SELECT id::text AS id, name, category, growth_duration_days::bigint AS growth_duration_days,
		water_requirement, temperature_range, created_at
		FROM crops ORDER BY name`
	suitabilityQuery = `SELECT id::text AS id, district_id::text AS district_id, crop_id::text AS crop_id,
		suitability_score::bigint AS suitability_score, estimated_yield, market_price, expected_revenue,
		harvest_months, soil_requirements, water_needs, temperature, created_at
		FROM district_crop_suitability ORDER BY suitability_score DESC NULLS LAST`
	stepsQuery = `SELECT id::text AS id, crop_id::text AS crop_id, step_number, stage_name, description,
		duration_days::bigint AS duration_days, tips
		FROM crop_cultivation_steps ORDER BY crop_id, step_number`
)

func (p *Postgres) Districts(ctx context.Context) ([]models.District, error) {
	rows, err := query[districtRow](ctx, p, districtsQuery, pgx.NamedArgs{})
	return mapRows(rows, districtRow.model), err
}

func (p *Postgres) Crops(ctx context.Context) ([]models.Crop, error) {
	rows, err := query[cropRow](ctx, p, cropsQuery, pgx.NamedArgs{})
	return mapRows(rows, cropRow.model), err
}

func (p *Postgres) Suitability(ctx context.Context) ([]models.Suitability, error) {
	rows, err := query[suitabilityRow](ctx, p, suitabilityQuery, pgx.NamedArgs{})
	return mapRows(rows, suitabilityRow.model), err
}

func (p *Postgres) CultivationSteps(ctx context.Context) ([]models.CultivationStep, error) {
	rows, err := query[stepRow](ctx, p, stepsQuery, pgx.NamedArgs{})
	return mapRows(rows, stepRow.model), err
}

func query[T any](ctx context.Context, p *Postgres, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := p.db.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query: %w", err)
	}
	defer rows.Close()

	res, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("error collecting rows: %w", err)
	}
	return res, nil
}
