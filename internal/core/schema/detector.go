// Package schema resolves which physical tables and optional columns exist in
// the underlying store. The data model evolved across deployments, so several
// historical names must be supported without a migration; probe order encodes
// that precedence (newer schema name first) and must be preserved.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fintrackhq/fintrack_app/internal/apperrors"
)

// ErrMissingRelation signals that a probed table or view does not exist.
var ErrMissingRelation = errors.New("relation does not exist")

// ErrMissingColumn signals that a probed column does not exist.
var ErrMissingColumn = errors.New("column does not exist")

// Prober runs zero-row existence queries against the store. Missing tables and
// columns are reported by wrapping ErrMissingRelation/ErrMissingColumn; any
// other error (connectivity, permissions) is returned as-is.
type Prober interface {
	ProbeTable(ctx context.Context, table string) error
	ProbeColumn(ctx context.Context, table, column string) error
}

// Detector probes candidate names through a Prober and memoizes the outcome
// for the lifetime of the process. Probe failures unrelated to a missing
// relation/column propagate immediately and are not cached.
type Detector struct {
	prober Prober

	mu      sync.Mutex
	tables  map[string]string
	columns map[string]*string // nil value = probed, no candidate exists
}

// NewDetector builds a detector around the given prober.
func NewDetector(p Prober) *Detector {
	return &Detector{
		prober:  p,
		tables:  make(map[string]string),
		columns: make(map[string]*string),
	}
}

// ResolveTable returns the first candidate table that exists, probing in
// order. If none exist it fails with ErrSchemaUnsupported.
func (d *Detector) ResolveTable(ctx context.Context, candidates ...string) (string, error) {
	key := strings.Join(candidates, ",")

	d.mu.Lock()
	if name, ok := d.tables[key]; ok {
		d.mu.Unlock()
		return name, nil
	}
	d.mu.Unlock()

	for _, table := range candidates {
		err := d.prober.ProbeTable(ctx, table)
		if err == nil {
			d.mu.Lock()
			d.tables[key] = table
			d.mu.Unlock()
			return table, nil
		}
		if !errors.Is(err, ErrMissingRelation) {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: none of the tables %s exist", apperrors.ErrSchemaUnsupported, key)
}

// ResolveColumn returns the first candidate column of table that exists. A
// fully absent column is not an error: the second return is false and callers
// treat the feature as unsupported.
func (d *Detector) ResolveColumn(ctx context.Context, table string, candidates ...string) (string, bool, error) {
	key := table + "." + strings.Join(candidates, ",")

	d.mu.Lock()
	if cached, ok := d.columns[key]; ok {
		d.mu.Unlock()
		if cached == nil {
			return "", false, nil
		}
		return *cached, true, nil
	}
	d.mu.Unlock()

	for _, column := range candidates {
		err := d.prober.ProbeColumn(ctx, table, column)
		if err == nil {
			name := column
			d.mu.Lock()
			d.columns[key] = &name
			d.mu.Unlock()
			return column, true, nil
		}
		if !errors.Is(err, ErrMissingColumn) {
			return "", false, err
		}
	}

	d.mu.Lock()
	d.columns[key] = nil
	d.mu.Unlock()
	return "", false, nil
}
