package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/genau-project/speisecheck/internal/model"
)

// SQLiteStore implements FoodStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS foods (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name_de     TEXT NOT NULL,
	energy_kcal REAL,
	water_g     REAL,
	protein_g   REAL,
	fat_g       REAL,
	carbs_g     REAL
);

CREATE INDEX IF NOT EXISTS idx_foods_name_de ON foods(name_de);
`

// Migrate creates the foods table and stamps the schema version.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion))
	return eris.Wrap(err, "sqlite: set schema version")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const foodColumns = "id, name_de, energy_kcal, water_g, protein_g, fat_g, carbs_g"

func (s *SQLiteStore) SearchByName(ctx context.Context, query string, limit int) ([]model.Food, error) {
	if limit <= 0 {
		limit = 10
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE LOWER(name_de) LIKE ? ORDER BY name_de LIMIT ?`,
		like, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search foods")
	}
	defer rows.Close()

	return scanFoods(rows)
}

func (s *SQLiteStore) GetFood(ctx context.Context, id int64) (*model.Food, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id,
	)

	f, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get food")
	}
	return f, nil
}

func (s *SQLiteStore) SearchByTokens(ctx context.Context, tokens []string, limit int) ([]model.FoodCandidate, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	where := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)+1)
	for _, tok := range tokens {
		where = append(where, "LOWER(name_de) LIKE ?")
		args = append(args, "%"+tok+"%")
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name_de FROM foods WHERE `+strings.Join(where, " OR ")+` ORDER BY name_de LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search by tokens")
	}
	defer rows.Close()

	var candidates []model.FoodCandidate
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan candidate")
		}
		candidates = append(candidates, model.FoodCandidate{
			ID:   strconv.FormatInt(id, 10),
			Name: name,
		})
	}
	return candidates, eris.Wrap(rows.Err(), "sqlite: iterate candidates")
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, foods []model.Food) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin import")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM foods`); err != nil {
		return 0, eris.Wrap(err, "sqlite: reset foods")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO foods (name_de, energy_kcal, water_g, protein_g, fat_g, carbs_g) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	inserted := 0
	for _, f := range foods {
		if _, err := stmt.ExecContext(ctx,
			f.NameDE, f.Per100g.EnergyKcal, f.Per100g.WaterG,
			f.Per100g.ProteinG, f.Per100g.FatG, f.Per100g.CarbsG,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert food %q", f.NameDE)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import")
	}
	return inserted, nil
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanFood(row scannable) (*model.Food, error) {
	var f model.Food
	err := row.Scan(&f.ID, &f.NameDE,
		&f.Per100g.EnergyKcal, &f.Per100g.WaterG,
		&f.Per100g.ProteinG, &f.Per100g.FatG, &f.Per100g.CarbsG,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFoods(rows *sql.Rows) ([]model.Food, error) {
	var foods []model.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan food")
		}
		foods = append(foods, *f)
	}
	return foods, eris.Wrap(rows.Err(), "sqlite: iterate foods")
}
