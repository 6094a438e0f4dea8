package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shadow-language/shadowc/internal/decl"
)

// GetDeclarations returns the set stored under hash.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) GetDeclarations(ctx context.Context, hash string) (*decl.Set, error) {
	var canonical string
	err := s.db.QueryRowContext(ctx, `
		SELECT canonical FROM declaration_sets WHERE hash = ?
	`, hash).Scan(&canonical)
	if err != nil {
		return nil, fmt.Errorf("get declarations %s: %w", hash, err)
	}

	var set decl.Set
	if err := json.Unmarshal([]byte(canonical), &set); err != nil {
		return nil, fmt.Errorf("get declarations %s: decode: %w", hash, err)
	}
	return &set, nil
}

// LookupUnit finds the most recent cached unit with the given name built
// against the given declarations.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) LookupUnit(ctx context.Context, name, declHash string) (Unit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.build_id, u.name, u.decl_hash, u.dump_hash, u.dump
		FROM units u
		JOIN builds b ON u.build_id = b.id
		WHERE u.name = ? AND u.decl_hash = ?
		ORDER BY b.seq DESC
		LIMIT 1
	`, name, declHash)

	u, err := scanUnit(row)
	if err != nil {
		return Unit{}, fmt.Errorf("lookup unit %s: %w", name, err)
	}
	return u, nil
}

// ListUnits returns every unit of a build ordered by name.
// Returns an empty slice (not nil) if the build has no units.
func (s *Store) ListUnits(ctx context.Context, buildID string) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT build_id, name, decl_hash, dump_hash, dump
		FROM units
		WHERE build_id = ?
		ORDER BY name COLLATE BINARY ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	units := []Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return units, nil
}

// ListBuilds returns every build, latest first.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, config_hash FROM builds ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.Seq, &b.ConfigHash); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUnit(row scanner) (Unit, error) {
	var u Unit
	if err := row.Scan(&u.BuildID, &u.Name, &u.DeclHash, &u.DumpHash, &u.Dump); err != nil {
		return Unit{}, err
	}
	return u, nil
}
