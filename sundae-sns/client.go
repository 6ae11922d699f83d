// Package sundaesns adapts the AWS SNS API to the paging and tag lookups used by
// the audit package.
package sundaesns

import (
	"context"
	"fmt"

	"github.com/SundaeSwap-finance/sundae-sns-audit/audit"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
)

// Client implements audit.Source.
type Client struct {
	api snsiface.SNSAPI
}

func New(api snsiface.SNSAPI) *Client {
	return &Client{
		api: api,
	}
}

// Build creates a Client for the given region.
func Build(s *session.Session, region string) *Client {
	return New(sns.New(s, aws.NewConfig().WithRegion(region)))
}

func (c *Client) ListTopics(ctx context.Context, nextToken *string) ([]audit.Topic, *string, error) {
	output, err := c.api.ListTopicsWithContext(ctx, &sns.ListTopicsInput{
		NextToken: nextToken,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sns topics: %w", err)
	}

	topics := make([]audit.Topic, 0, len(output.Topics))
	for _, topic := range output.Topics {
		topics = append(topics, audit.Topic{
			ARN: aws.StringValue(topic.TopicArn),
		})
	}
	return topics, output.NextToken, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, nextToken *string) ([]audit.Subscription, *string, error) {
	output, err := c.api.ListSubscriptionsWithContext(ctx, &sns.ListSubscriptionsInput{
		NextToken: nextToken,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sns subscriptions: %w", err)
	}

	subscriptions := make([]audit.Subscription, 0, len(output.Subscriptions))
	for _, sub := range output.Subscriptions {
		subscriptions = append(subscriptions, audit.Subscription{
			ARN:      aws.StringValue(sub.SubscriptionArn),
			TopicARN: aws.StringValue(sub.TopicArn),
			Endpoint: aws.StringValue(sub.Endpoint),
			Protocol: aws.StringValue(sub.Protocol),
		})
	}
	return subscriptions, output.NextToken, nil
}

func (c *Client) FetchTags(ctx context.Context, topicARN string) ([]audit.Tag, error) {
	output, err := c.api.ListTagsForResourceWithContext(ctx, &sns.ListTagsForResourceInput{
		ResourceArn: aws.String(topicARN),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for sns topic %v: %w", topicARN, err)
	}

	tags := make([]audit.Tag, 0, len(output.Tags))
	for _, tag := range output.Tags {
		tags = append(tags, audit.Tag{
			Key:   aws.StringValue(tag.Key),
			Value: aws.StringValue(tag.Value),
		})
	}
	return tags, nil
}
