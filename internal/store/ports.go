// Package store defines the ports any persistence adapter must
// implement to hold budget documents for the shells.
package store

import (
	"context"

	"bilancio/internal/core"
)

// Ports for outbound adapters.
type (
	// DocumentStore persists and retrieves whole document snapshots.
	DocumentStore interface {
		// Load returns the last persisted document, or ok=false when
		// nothing has been persisted yet.
		Load(ctx context.Context) (doc core.BudgetDoc, ok bool, err error)

		// Save persists a snapshot of the document. The adapter stamps
		// meta.saved_at; the caller's in-memory copy is not mutated.
		Save(ctx context.Context, doc core.BudgetDoc) error
	}

	// Exporter produces a shareable artifact for a document. The
	// artifact's textual content always derives from the document
	// codec or the CSV renderer, never from adapter-private state.
	Exporter interface {
		Export(ctx context.Context, doc core.BudgetDoc) (path string, err error)
	}
)
