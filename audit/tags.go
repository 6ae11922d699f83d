package audit

import (
	"context"
	"fmt"
)

type TagFetchFunc func(ctx context.Context, topicARN string) ([]Tag, error)

// TagResolver memoizes topic tags for the lifetime of one run. It is not safe for
// concurrent use.
type TagResolver struct {
	fetch   TagFetchFunc
	cache   map[string][]Tag
	fetches int
}

func NewTagResolver(fetch TagFetchFunc) *TagResolver {
	return &TagResolver{
		fetch: fetch,
		cache: map[string][]Tag{},
	}
}

// Resolve returns the tags for topicARN, fetching them on first use only. Failed
// fetches are not cached.
func (r *TagResolver) Resolve(ctx context.Context, topicARN string) ([]Tag, error) {
	if tags, ok := r.cache[topicARN]; ok {
		return tags, nil
	}
	r.fetches++
	tags, err := r.fetch(ctx, topicARN)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags for topic %v: %w", topicARN, err)
	}
	r.cache[topicARN] = tags
	return tags, nil
}

// Fetches is the number of remote fetches issued so far.
func (r *TagResolver) Fetches() int {
	return r.fetches
}

// TagValue returns the value of the first tag with the given key, or nil.
func TagValue(tags []Tag, key string) *string {
	for _, tag := range tags {
		if tag.Key == key {
			v := tag.Value
			return &v
		}
	}
	return nil
}
