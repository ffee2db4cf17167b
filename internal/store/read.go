package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/bioindex/internal/catalog"
)

// ErrEmpty is returned by LoadDataset when nothing has been imported yet.
var ErrEmpty = errors.New("store has no imported dataset")

// Info summarizes the stored dataset.
type Info struct {
	Nodes        int       `json:"nodes"`
	Technologies int       `json:"technologies"`
	ImportedAt   time.Time `json:"imported_at"`
	Source       string    `json:"source,omitempty"`
}

// Imported reports whether SaveDataset has ever completed.
func (i Info) Imported() bool {
	return !i.ImportedAt.IsZero()
}

// LoadDataset returns the stored dataset in its original order.
// Returns ErrEmpty if no dataset was ever saved.
func (s *Store) LoadDataset(ctx context.Context) (catalog.Dataset, error) {
	info, err := s.DatasetInfo(ctx)
	if err != nil {
		return catalog.Dataset{}, err
	}
	if !info.Imported() {
		return catalog.Dataset{}, ErrEmpty
	}

	techs, err := s.readTechnologies(ctx)
	if err != nil {
		return catalog.Dataset{}, err
	}
	nodes, err := s.readNodes(ctx)
	if err != nil {
		return catalog.Dataset{}, err
	}
	return catalog.Dataset{Nodes: nodes, Technologies: techs}, nil
}

// DatasetInfo returns record counts and import metadata. A store that was
// never written returns a zero Info.
func (s *Store) DatasetInfo(ctx context.Context) (Info, error) {
	var info Info

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&info.Nodes); err != nil {
		return Info{}, fmt.Errorf("count nodes: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM technologies").Scan(&info.Technologies); err != nil {
		return Info{}, fmt.Errorf("count technologies: %w", err)
	}

	importedAt, err := s.readMeta(ctx, metaImportedAt)
	if err != nil {
		return Info{}, err
	}
	if importedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return Info{}, fmt.Errorf("parse %s: %w", metaImportedAt, err)
		}
		info.ImportedAt = ts
	}

	if info.Source, err = s.readMeta(ctx, metaSource); err != nil {
		return Info{}, err
	}
	return info, nil
}

// readMeta returns "" for a missing key.
func (s *Store) readMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) readTechnologies(ctx context.Context) ([]catalog.Technology, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category, abbreviation
		FROM technologies
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query technologies: %w", err)
	}
	defer rows.Close()

	techs := []catalog.Technology{}
	for rows.Next() {
		var t catalog.Technology
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category.Name, &t.Abbreviation); err != nil {
			return nil, fmt.Errorf("scan technology: %w", err)
		}
		techs = append(techs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate technologies: %w", err)
	}
	return techs, nil
}

func (s *Store) readNodes(ctx context.Context) ([]catalog.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, country_name, country_iso, technologies
		FROM nodes
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []catalog.Node{}
	for rows.Next() {
		var (
			n    catalog.Node
			refs string
		)
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.Country.Name, &n.Country.ISOA2, &refs); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if n.Technologies, err = unmarshalReferences(refs); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}
