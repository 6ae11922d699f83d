// Package audit classifies an SNS inventory to surface orphaned topics, fanned-out
// subscribers and topics, and subscriptions grouped by endpoint type.
//
// The package has no AWS dependency; callers supply a Source that pages through
// topics and subscriptions and fetches topic tags.
package audit

import "context"

const (
	TerraformManagedTag = "TerraformManaged"
	ProductTag          = "Product"
)

type Topic struct {
	ARN string `json:"topicArn"`
}

type Subscription struct {
	ARN      string `json:"subscriptionArn,omitempty"`
	TopicARN string `json:"topicArn"`
	Endpoint string `json:"endpoint"`
	Protocol string `json:"protocol,omitempty"`
}

type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Inventory holds the two base relations for a single run. Classifiers treat it as
// read-only.
type Inventory struct {
	Topics        []Topic
	Subscriptions []Subscription
}

// Source is the remote side of an audit: one page of topics or subscriptions per
// call, plus a tag lookup per topic.
type Source interface {
	ListTopics(ctx context.Context, nextToken *string) ([]Topic, *string, error)
	ListSubscriptions(ctx context.Context, nextToken *string) ([]Subscription, *string, error)
	FetchTags(ctx context.Context, topicARN string) ([]Tag, error)
}

// OrphanTopic is a topic with zero subscriptions. Tag values are nil when the
// topic carries no such tag.
type OrphanTopic struct {
	TopicARN         string  `json:"topicArn"`
	TerraformManaged *string `json:"terraformManaged"`
	Product          *string `json:"product"`
}

type MultiTopicSubscriber struct {
	Endpoint  string   `json:"endpoint"`
	TopicARNs []string `json:"topicArns"`
}

type MultiSubscriberTopic struct {
	TopicARN  string   `json:"topicArn"`
	Endpoints []string `json:"endpoints"`
}

type EndpointGroups struct {
	Phone []Subscription `json:"phone"`
	Email []Subscription `json:"email"`
}
