package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/genau-project/speisecheck/internal/db"
	"github.com/genau-project/speisecheck/internal/model"
)

// PostgresStore implements FoodStore using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS foods (
	id          BIGSERIAL PRIMARY KEY,
	name_de     TEXT NOT NULL,
	energy_kcal DOUBLE PRECISION,
	water_g     DOUBLE PRECISION,
	protein_g   DOUBLE PRECISION,
	fat_g       DOUBLE PRECISION,
	carbs_g     DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_foods_name_de ON foods (LOWER(name_de));

CREATE TABLE IF NOT EXISTS schema_info (
	version INTEGER NOT NULL
);
`

// Migrate creates the foods table and records the schema version.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM schema_info`); err != nil {
		return eris.Wrap(err, "postgres: reset schema_info")
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO schema_info (version) VALUES ($1)`, SchemaVersion)
	return eris.Wrap(err, "postgres: record schema version")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SearchByName(ctx context.Context, query string, limit int) ([]model.Food, error) {
	if limit <= 0 {
		limit = 10
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.pool.Query(ctx,
		`SELECT id, name_de, energy_kcal, water_g, protein_g, fat_g, carbs_g
		 FROM foods WHERE LOWER(name_de) LIKE $1 ORDER BY name_de LIMIT $2`,
		like, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search foods")
	}
	defer rows.Close()

	var foods []model.Food
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.NameDE,
			&f.Per100g.EnergyKcal, &f.Per100g.WaterG,
			&f.Per100g.ProteinG, &f.Per100g.FatG, &f.Per100g.CarbsG,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan food")
		}
		foods = append(foods, f)
	}
	return foods, eris.Wrap(rows.Err(), "postgres: iterate foods")
}

func (s *PostgresStore) GetFood(ctx context.Context, id int64) (*model.Food, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name_de, energy_kcal, water_g, protein_g, fat_g, carbs_g FROM foods WHERE id = $1`,
		id,
	)

	var f model.Food
	err := row.Scan(&f.ID, &f.NameDE,
		&f.Per100g.EnergyKcal, &f.Per100g.WaterG,
		&f.Per100g.ProteinG, &f.Per100g.FatG, &f.Per100g.CarbsG,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get food")
	}
	return &f, nil
}

func (s *PostgresStore) SearchByTokens(ctx context.Context, tokens []string, limit int) ([]model.FoodCandidate, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	where := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)+1)
	for i, tok := range tokens {
		where = append(where, "LOWER(name_de) LIKE $"+strconv.Itoa(i+1))
		args = append(args, "%"+tok+"%")
	}
	args = append(args, limit)

	rows, err := s.pool.Query(ctx,
		`SELECT id, name_de FROM foods WHERE `+strings.Join(where, " OR ")+
			` ORDER BY name_de LIMIT $`+strconv.Itoa(len(tokens)+1),
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search by tokens")
	}
	defer rows.Close()

	var candidates []model.FoodCandidate
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan candidate")
		}
		candidates = append(candidates, model.FoodCandidate{
			ID:   strconv.FormatInt(id, 10),
			Name: name,
		})
	}
	return candidates, eris.Wrap(rows.Err(), "postgres: iterate candidates")
}

var foodImportColumns = []string{"name_de", "energy_kcal", "water_g", "protein_g", "fat_g", "carbs_g"}

func (s *PostgresStore) ReplaceAll(ctx context.Context, foods []model.Food) (int, error) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM foods`); err != nil {
		return 0, eris.Wrap(err, "postgres: reset foods")
	}

	rows := make([][]any, 0, len(foods))
	for _, f := range foods {
		rows = append(rows, []any{
			f.NameDE, f.Per100g.EnergyKcal, f.Per100g.WaterG,
			f.Per100g.ProteinG, f.Per100g.FatG, f.Per100g.CarbsG,
		})
	}

	n, err := db.CopyFrom(ctx, s.pool, "foods", foodImportColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import foods")
	}
	return int(n), nil
}
