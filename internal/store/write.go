package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shadow-language/shadowc/internal/canon"
	"github.com/shadow-language/shadowc/internal/decl"
)

// Build is one compiler run.
type Build struct {
	ID         string
	Seq        int64
	ConfigHash string
}

// Unit is the cached dump of one compilation unit.
type Unit struct {
	BuildID  string
	Name     string
	DeclHash string
	DumpHash string
	Dump     string
}

// BeginBuild records a new build and returns it. Its sequence number is one
// past the latest build's.
func (s *Store) BeginBuild(ctx context.Context, configHash string) (Build, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Build{}, fmt.Errorf("begin build: generate id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Build{}, fmt.Errorf("begin build: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	b := Build{ID: id.String(), ConfigHash: configHash}
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&b.Seq); err != nil {
		return Build{}, fmt.Errorf("begin build: next seq: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO builds (id, seq, config_hash)
		VALUES (?, ?, ?)
	`, b.ID, b.Seq, b.ConfigHash); err != nil {
		return Build{}, fmt.Errorf("begin build: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Build{}, fmt.Errorf("begin build: commit: %w", err)
	}

	s.logger.Debug("build started", "build", b.ID, "seq", b.Seq)
	return b, nil
}

// PutDeclarations stores set under the hash of its canonical JSON and
// returns the hash. Storing an equal set again is a no-op reported by
// inserted=false.
func (s *Store) PutDeclarations(ctx context.Context, set *decl.Set) (hash string, inserted bool, err error) {
	data, err := canon.Marshal(set.Canonical())
	if err != nil {
		return "", false, fmt.Errorf("put declarations: %w", err)
	}
	hash = canon.HashWithDomain(canon.DomainDecls, data)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO declaration_sets (hash, canonical, class_count)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, string(data), len(set.Classes))
	if err != nil {
		return "", false, fmt.Errorf("put declarations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("put declarations: rows affected: %w", err)
	}
	return hash, n > 0, nil
}

// PutUnit stores a unit's dump for a build. DumpHash is computed from Dump.
// A second write for the same build and name is silently ignored.
//
// Note: the build and the declaration set must exist (foreign keys).
func (s *Store) PutUnit(ctx context.Context, u Unit) (Unit, error) {
	u.DumpHash = canon.HashText(canon.DomainTAC, u.Dump)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO units (build_id, name, decl_hash, dump_hash, dump)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(build_id, name) DO NOTHING
	`, u.BuildID, u.Name, u.DeclHash, u.DumpHash, u.Dump)
	if err != nil {
		return Unit{}, fmt.Errorf("put unit %s: %w", u.Name, err)
	}
	return u, nil
}
