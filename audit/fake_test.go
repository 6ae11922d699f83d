package audit

import (
	"context"
	"fmt"
	"strconv"
)

// fakeSource serves topics and subscriptions in fixed-size pages and counts tag
// fetches per topic.
type fakeSource struct {
	topics        []Topic
	subscriptions []Subscription
	tags          map[string][]Tag
	pageSize      int

	listErr   error
	tagErr    error
	tagCalls  map[string]int
	pageCalls int
}

func newFakeSource(topics []Topic, subscriptions []Subscription) *fakeSource {
	return &fakeSource{
		topics:        topics,
		subscriptions: subscriptions,
		tags:          map[string][]Tag{},
		pageSize:      2,
		tagCalls:      map[string]int{},
	}
}

func page[T any](items []T, size int, token *string) ([]T, *string, error) {
	start := 0
	if token != nil {
		n, err := strconv.Atoi(*token)
		if err != nil {
			return nil, nil, fmt.Errorf("bad token %q", *token)
		}
		start = n
	}
	end := start + size
	if end >= len(items) {
		return items[start:], nil, nil
	}
	next := strconv.Itoa(end)
	return items[start:end], &next, nil
}

func (f *fakeSource) ListTopics(_ context.Context, token *string) ([]Topic, *string, error) {
	f.pageCalls++
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return page(f.topics, f.pageSize, token)
}

func (f *fakeSource) ListSubscriptions(_ context.Context, token *string) ([]Subscription, *string, error) {
	f.pageCalls++
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return page(f.subscriptions, f.pageSize, token)
}

func (f *fakeSource) FetchTags(_ context.Context, topicARN string) ([]Tag, error) {
	f.tagCalls[topicARN]++
	if f.tagErr != nil {
		return nil, f.tagErr
	}
	return f.tags[topicARN], nil
}

func topics(arns ...string) []Topic {
	var ts []Topic
	for _, arn := range arns {
		ts = append(ts, Topic{ARN: arn})
	}
	return ts
}

func sub(topicARN, endpoint string) Subscription {
	return Subscription{TopicARN: topicARN, Endpoint: endpoint}
}

func strptr(s string) *string {
	return &s
}
