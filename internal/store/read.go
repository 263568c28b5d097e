package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beltworks/camber/internal/payload"
	"github.com/beltworks/camber/internal/recipe"
)

// ErrNotFound is returned when a recipe id does not exist in the corpus.
var ErrNotFound = errors.New("recipe not found")

const recipeColumns = `id, name, tier, status, is_fixture,
	inputs, expected_outputs, legacy_outputs, baseline_outputs, previous_outputs`

// GetRecipe loads one recipe by id.
func (s *Store) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)

	rec, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return rec, nil
}

// ListRecipes returns the corpus ordered by name then id. With fixturesOnly
// set, only promoted fixtures are returned.
func (s *Store) ListRecipes(ctx context.Context, fixturesOnly bool) ([]*recipe.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes`
	if fixturesOnly {
		query += ` WHERE is_fixture = 1`
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []*recipe.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("list recipes: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*recipe.Recipe, error) {
	var (
		rec                                  recipe.Recipe
		inputs                               string
		expected, legacy, baseline, previous sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Tier, &rec.Status, &rec.IsFixture,
		&inputs, &expected, &legacy, &baseline, &previous)
	if err != nil {
		return nil, err
	}

	if rec.Inputs, err = payload.ObjectFromJSON([]byte(inputs)); err != nil {
		return nil, fmt.Errorf("decode inputs for %s: %w", rec.ID, err)
	}
	if rec.Expected, err = decodeSnapshot(expected); err != nil {
		return nil, fmt.Errorf("decode expected_outputs for %s: %w", rec.ID, err)
	}
	if rec.Legacy, err = decodeSnapshot(legacy); err != nil {
		return nil, fmt.Errorf("decode legacy_outputs for %s: %w", rec.ID, err)
	}
	if rec.Baseline, err = decodeSnapshot(baseline); err != nil {
		return nil, fmt.Errorf("decode baseline_outputs for %s: %w", rec.ID, err)
	}
	if rec.Previous, err = decodeSnapshot(previous); err != nil {
		return nil, fmt.Errorf("decode previous_outputs for %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func decodeSnapshot(body sql.NullString) (payload.Object, error) {
	if !body.Valid {
		return nil, nil
	}
	return payload.ObjectFromJSON([]byte(body.String))
}
