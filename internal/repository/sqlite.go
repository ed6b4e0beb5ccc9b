package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// one writer; also keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS districts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state TEXT NOT NULL DEFAULT '',
			climate_zone TEXT NOT NULL DEFAULT '',
			soil_type TEXT NOT NULL DEFAULT '',
			avg_rainfall REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS crops (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			growth_duration_days INTEGER NOT NULL DEFAULT 0,
			water_requirement TEXT NOT NULL DEFAULT '',
			temperature_range TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS district_crop_suitability (
			id TEXT PRIMARY KEY,
			district_id TEXT NOT NULL,
			crop_id TEXT NOT NULL,
			suitability_score INTEGER NOT NULL,
			estimated_yield TEXT NOT NULL DEFAULT '',
			market_price TEXT NOT NULL DEFAULT '',
			expected_revenue TEXT NOT NULL DEFAULT '',
			harvest_months TEXT NOT NULL DEFAULT '',
			soil_requirements TEXT NOT NULL DEFAULT '',
			water_needs TEXT NOT NULL DEFAULT '',
			temperature TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS crop_cultivation_steps (
			id TEXT PRIMARY KEY,
			crop_id TEXT NOT NULL,
			step_number INTEGER NOT NULL,
			stage_name TEXT NOT NULL,
			description TEXT NOT NULL,
			duration_days INTEGER NOT NULL DEFAULT 0,
			tips TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_districts_name ON districts(name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_crops_name ON crops(name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_suitability_district ON district_crop_suitability(district_id);
		CREATE INDEX IF NOT EXISTS idx_steps_crop ON crop_cultivation_steps(crop_id, step_number);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// The upserts only touch a row when a column actually differs, so
// RowsAffected tells inserts and real updates apart from no-ops.

func (s *SQLiteDB) UpsertDistrict(ctx context.Context, d *models.District) (bool, error) {
	return s.upsert(ctx, `
		INSERT INTO districts (id, name, state, climate_zone, soil_type, avg_rainfall, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, state = excluded.state, climate_zone = excluded.climate_zone,
			soil_type = excluded.soil_type, avg_rainfall = excluded.avg_rainfall
		WHERE name IS NOT excluded.name OR state IS NOT excluded.state
			OR climate_zone IS NOT excluded.climate_zone OR soil_type IS NOT excluded.soil_type
			OR avg_rainfall IS NOT excluded.avg_rainfall`,
		d.ID, d.Name, d.State, d.ClimateZone, d.SoilType, d.AvgRainfall, createdAt(d.CreatedAt))
}

func (s *SQLiteDB) UpsertCrop(ctx context.Context, c *models.Crop) (bool, error) {
	return s.upsert(ctx, `
		INSERT INTO crops (id, name, category, growth_duration_days, water_requirement, temperature_range, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, category = excluded.category,
			growth_duration_days = excluded.growth_duration_days,
			water_requirement = excluded.water_requirement, temperature_range = excluded.temperature_range
		WHERE name IS NOT excluded.name OR category IS NOT excluded.category
			OR growth_duration_days IS NOT excluded.growth_duration_days
			OR water_requirement IS NOT excluded.water_requirement
			OR temperature_range IS NOT excluded.temperature_range`,
		c.ID, c.Name, c.Category, c.GrowthDurationDays, c.WaterRequirement, c.TemperatureRange, createdAt(c.CreatedAt))
}

func (s *SQLiteDB) UpsertSuitability(ctx context.Context, r *models.Suitability) (bool, error) {
	return s.upsert(ctx, `
		INSERT INTO district_crop_suitability (id, district_id, crop_id, suitability_score, estimated_yield,
			market_price, expected_revenue, harvest_months, soil_requirements, water_needs, temperature, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			district_id = excluded.district_id, crop_id = excluded.crop_id,
			suitability_score = excluded.suitability_score, estimated_yield = excluded.estimated_yield,
			market_price = excluded.market_price, expected_revenue = excluded.expected_revenue,
			harvest_months = excluded.harvest_months, soil_requirements = excluded.soil_requirements,
			water_needs = excluded.water_needs, temperature = excluded.temperature
		WHERE district_id IS NOT excluded.district_id OR crop_id IS NOT excluded.crop_id
			OR suitability_score IS NOT excluded.suitability_score
			OR estimated_yield IS NOT excluded.estimated_yield OR market_price IS NOT excluded.market_price
			OR expected_revenue IS NOT excluded.expected_revenue OR harvest_months IS NOT excluded.harvest_months
			OR soil_requirements IS NOT excluded.soil_requirements OR water_needs IS NOT excluded.water_needs
			OR temperature IS NOT excluded.temperature`,
		r.ID, r.DistrictID, r.CropID, r.Score, r.EstimatedYield, r.MarketPrice, r.ExpectedRevenue,
		r.HarvestMonths, r.SoilRequirements, r.WaterNeeds, r.Temperature, createdAt(r.CreatedAt))
}

func (s *SQLiteDB) UpsertCultivationStep(ctx context.Context, st *models.CultivationStep) (bool, error) {
	return s.upsert(ctx, `
		INSERT INTO crop_cultivation_steps (id, crop_id, step_number, stage_name, description, duration_days, tips)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			crop_id = excluded.crop_id, step_number = excluded.step_number, stage_name = excluded.stage_name,
			description = excluded.description, duration_days = excluded.duration_days, tips = excluded.tips
		WHERE crop_id IS NOT excluded.crop_id OR step_number IS NOT excluded.step_number
			OR stage_name IS NOT excluded.stage_name OR description IS NOT excluded.description
			OR duration_days IS NOT excluded.duration_days OR tips IS NOT excluded.tips`,
		st.ID, st.CropID, st.StepNumber, st.StageName, st.Description, st.DurationDays, st.Tips)
}

func (s *SQLiteDB) upsert(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error upserting: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n > 0, nil
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func (s *SQLiteDB) ListDistricts(ctx context.Context) ([]models.District, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, state, climate_zone, soil_type, avg_rainfall, created_at
		FROM districts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying districts: %w", err)
	}
	defer rows.Close()

	var districts []models.District
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.Name, &d.State, &d.ClimateZone, &d.SoilType, &d.AvgRainfall, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning district: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

func (s *SQLiteDB) GetDistrict(ctx context.Context, nameOrID string) (*models.District, error) {
	var d models.District
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, state, climate_zone, soil_type, avg_rainfall, created_at
		FROM districts
		WHERE id = ?1 COLLATE NOCASE OR name = ?1 COLLATE NOCASE
		LIMIT 1`, nameOrID).
		Scan(&d.ID, &d.Name, &d.State, &d.ClimateZone, &d.SoilType, &d.AvgRainfall, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("district %q: %w", nameOrID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying district: %w", err)
	}
	return &d, nil
}

const baselineSelect = `
	SELECT s.district_id, s.crop_id, c.name, c.category, s.suitability_score, s.estimated_yield,
		s.harvest_months, s.market_price, s.expected_revenue, s.soil_requirements, s.water_needs, s.temperature
	FROM district_crop_suitability s
	JOIN crops c ON c.id = s.crop_id
	JOIN districts d ON d.id = s.district_id`

func scanBaseline(sc interface{ Scan(...any) error }) (models.CropBaseline, error) {
	var b models.CropBaseline
	err := sc.Scan(&b.DistrictID, &b.CropID, &b.Name, &b.Category, &b.Suitability, &b.EstimatedYield,
		&b.HarvestDate, &b.MarketPrice, &b.ExpectedRevenue, &b.SoilRequirements, &b.WaterNeeds, &b.Temperature)
	return b, err
}

// ListBaselines returns a district's crops, most suitable first.
func (s *SQLiteDB) ListBaselines(ctx context.Context, opts Filter) ([]models.CropBaseline, error) {
	query := baselineSelect + ` WHERE 1=1`
	var args []any

	if opts.District != "" {
		query += ` AND (d.id = ? COLLATE NOCASE OR d.name = ? COLLATE NOCASE)`
		args = append(args, opts.District, opts.District)
	}
	if opts.MinSuitability > 0 {
		query += ` AND s.suitability_score >= ?`
		args = append(args, opts.MinSuitability)
	}

	query += ` ORDER BY s.suitability_score DESC, c.name`

	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying baselines: %w", err)
	}
	defer rows.Close()

	var baselines []models.CropBaseline
	for rows.Next() {
		b, err := scanBaseline(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning baseline: %w", err)
		}
		baselines = append(baselines, b)
	}
	return baselines, rows.Err()
}

func (s *SQLiteDB) GetBaseline(ctx context.Context, district, crop string) (*models.CropBaseline, error) {
	row := s.db.QueryRowContext(ctx, baselineSelect+`
		WHERE (d.id = ?1 COLLATE NOCASE OR d.name = ?1 COLLATE NOCASE)
			AND (c.id = ?2 COLLATE NOCASE OR c.name = ?2 COLLATE NOCASE)
		LIMIT 1`, district, crop)

	b, err := scanBaseline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crop %q in district %q: %w", crop, district, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying baseline: %w", err)
	}
	return &b, nil
}

func (s *SQLiteDB) ListCultivationSteps(ctx context.Context, cropID string) ([]models.CultivationStep, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, crop_id, step_number, stage_name, description, duration_days, tips
		FROM crop_cultivation_steps WHERE crop_id = ? ORDER BY step_number`, cropID)
	if err != nil {
		return nil, fmt.Errorf("error querying cultivation steps: %w", err)
	}
	defer rows.Close()

	var steps []models.CultivationStep
	for rows.Next() {
		var st models.CultivationStep
		if err := rows.Scan(&st.ID, &st.CropID, &st.StepNumber, &st.StageName, &st.Description, &st.DurationDays, &st.Tips); err != nil {
			return nil, fmt.Errorf("error scanning cultivation step: %w", err)
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

func (s *SQLiteDB) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM districts),
			(SELECT COUNT(*) FROM crops),
			(SELECT COUNT(*) FROM district_crop_suitability),
			(SELECT COUNT(*) FROM crop_cultivation_steps)`).
		Scan(&c.Districts, &c.Crops, &c.Suitability, &c.Steps)
	if err != nil {
		return Counts{}, fmt.Errorf("error counting catalog rows: %w", err)
	}
	return c, nil
}
