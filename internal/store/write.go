package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/bioindex/internal/catalog"
)

// Meta keys.
const (
	metaImportedAt = "imported_at"
	metaSource     = "source"
)

// SaveDataset replaces the stored dataset with ds in a single transaction.
// Records are stored in input order; synthetic technologies are never
// stored because they are derived at build time.
//
// source is a free-form description of where the dataset came from (for
// example the input file paths) and is reported by DatasetInfo.
func (s *Store) SaveDataset(ctx context.Context, ds catalog.Dataset, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dataset: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, stmt := range []string{"DELETE FROM nodes", "DELETE FROM technologies"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("save dataset: clear: %w", err)
		}
	}

	if err := insertTechnologies(ctx, tx, ds.Technologies); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	if err := insertNodes(ctx, tx, ds.Nodes); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	meta := map[string]string{
		metaImportedAt: s.now().UTC().Format(time.RFC3339Nano),
		metaSource:     source,
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return fmt.Errorf("save dataset: write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dataset: commit: %w", err)
	}
	return nil
}

func insertTechnologies(ctx context.Context, tx *sql.Tx, techs []catalog.Technology) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO technologies (seq, id, name, description, category, abbreviation)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare technologies: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, t := range techs {
		if t.Synthetic {
			continue
		}
		seq++
		if _, err := stmt.ExecContext(ctx, seq, t.ID, t.Name, t.Description, t.Category.Name, t.Abbreviation); err != nil {
			return fmt.Errorf("insert technology %q: %w", t.ID, err)
		}
	}
	return nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, nodes []catalog.Node) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (seq, id, name, description, country_name, country_iso, technologies)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare nodes: %w", err)
	}
	defer stmt.Close()

	for i, n := range nodes {
		refs, err := marshalReferences(n.Technologies)
		if err != nil {
			return fmt.Errorf("insert node %q: %w", n.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i+1, n.ID, n.Name, n.Description, n.Country.Name, n.Country.ISOA2, refs); err != nil {
			return fmt.Errorf("insert node %q: %w", n.ID, err)
		}
	}
	return nil
}
