package out

import (
	"context"

	"studytrace/internal/modules/segmentation/domain"
)

// EventSource loads the event table restricted to a window. Events of one
// student come back in chronological order.
type EventSource interface {
	LoadEvents(ctx context.Context, window domain.Window) ([]domain.Event, error)
}

type TaxonomySource interface {
	LoadTaxonomy(ctx context.Context) (domain.Taxonomy, error)
}

// EventSink persists a snapshot of loaded events, replacing earlier contents.
type EventSink interface {
	ReplaceEvents(ctx context.Context, events []domain.Event) (int, error)
}
