package settings

import (
	"context"
	"encoding/json"

	"vkseva-content/internal/domain"
)

// Repository stores one JSON document per settings section.
type Repository interface {
	// Get returns the stored document and its section version, or
	// domain.ErrNotFound.
	Get(ctx context.Context, key domain.SectionKey) (json.RawMessage, int, error)
	// Merge upserts the document, shallow-merging its top-level keys into any
	// stored document.
	Merge(ctx context.Context, key domain.SectionKey, doc json.RawMessage, version int) error
}
