package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ListFunc fetches a single page. A nil nextToken requests the first page; a nil
// or empty returned token means there are no more pages.
type ListFunc[T any] func(ctx context.Context, nextToken *string) ([]T, *string, error)

// ListAll drains list into a single slice, preserving page order. Items are not
// deduplicated. The first error aborts the listing and discards what was read.
func ListAll[T any](ctx context.Context, list ListFunc[T]) ([]T, error) {
	var (
		items     []T
		nextToken *string
		pages     int
	)
	for {
		page, next, err := list(ctx, nextToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list page %v: %w", pages+1, err)
		}
		pages++
		items = append(items, page...)
		if next == nil || *next == "" {
			break
		}
		nextToken = next
	}

	zerolog.Ctx(ctx).Debug().
		Int("pages", pages).
		Int("items", len(items)).
		Msg("drained listing")

	return items, nil
}

// Load builds the inventory by draining both listings from source.
func Load(ctx context.Context, source Source) (*Inventory, error) {
	topics, err := ListAll(ctx, source.ListTopics)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	subscriptions, err := ListAll(ctx, source.ListSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return &Inventory{
		Topics:        topics,
		Subscriptions: subscriptions,
	}, nil
}
