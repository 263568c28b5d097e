package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/beltworks/camber/internal/payload"
	"github.com/beltworks/camber/internal/recipe"
)

// SaveRecipe inserts or replaces a recipe. The recipe body must already be
// sanitized; the store serializes it canonically and records its hash so
// identical configurations dedup by content. A recipe with an empty ID gets
// a fresh UUID, returned on the stored copy.
func (s *Store) SaveRecipe(ctx context.Context, rec *recipe.Recipe) (*recipe.Recipe, error) {
	if rec.Inputs == nil {
		return nil, fmt.Errorf("recipe %q has no inputs", rec.Name)
	}

	stored := *rec
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, name, tier, status, is_fixture, inputs, input_hash,
		                     expected_outputs, legacy_outputs, baseline_outputs, previous_outputs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name             = excluded.name,
			tier             = excluded.tier,
			status           = excluded.status,
			is_fixture       = excluded.is_fixture,
			inputs           = excluded.inputs,
			input_hash       = excluded.input_hash,
			expected_outputs = excluded.expected_outputs,
			legacy_outputs   = excluded.legacy_outputs,
			baseline_outputs = excluded.baseline_outputs,
			previous_outputs = excluded.previous_outputs,
			updated_at       = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		stored.ID, stored.Name, stored.Tier, stored.Status, stored.IsFixture,
		payload.CanonicalizePayload(stored.Inputs),
		payload.HashCanonical(stored.Inputs),
		nullableBody(stored.Expected),
		nullableBody(stored.Legacy),
		nullableBody(stored.Baseline),
		nullableBody(stored.Previous),
	)
	if err != nil {
		return nil, fmt.Errorf("save recipe %s: %w", stored.ID, err)
	}
	return &stored, nil
}

// PromoteFixture marks a recipe as part of the curated regression corpus.
// Idempotent: promoting an existing fixture is a no-op.
func (s *Store) PromoteFixture(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET is_fixture = 1,
		        updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		 WHERE id = ? AND is_fixture = 0`, id)
	if err != nil {
		return fmt.Errorf("promote fixture %s: %w", id, err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("promote fixture %s: %w", id, err)
	}
	// Zero rows means already a fixture or unknown id; distinguish them.
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("promote fixture %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("promote fixture %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveBaseline pins the given outputs as the recipe's baseline snapshot.
func (s *Store) SaveBaseline(ctx context.Context, id string, outputs payload.Object) error {
	return s.updateSnapshot(ctx, id, "baseline_outputs", outputs)
}

// SavePrevious records the outputs of the latest run as the rolling
// prior-run snapshot, which the "previous" comparison mode reads.
func (s *Store) SavePrevious(ctx context.Context, id string, outputs payload.Object) error {
	return s.updateSnapshot(ctx, id, "previous_outputs", outputs)
}

func (s *Store) updateSnapshot(ctx context.Context, id, column string, outputs payload.Object) error {
	// column is one of our own literals, never user input.
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE recipes SET %s = ?, updated_at = strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now') WHERE id = ?`, column),
		nullableBody(outputs), id)
	if err != nil {
		return fmt.Errorf("update %s for %s: %w", column, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s for %s: %w", column, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s for %s: %w", column, id, ErrNotFound)
	}
	return nil
}

func nullableBody(obj payload.Object) sql.NullString {
	if obj == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: payload.CanonicalizePayload(obj), Valid: true}
}
