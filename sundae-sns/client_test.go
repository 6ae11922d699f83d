package sundaesns

import (
	"context"
	"errors"
	"testing"

	"github.com/SundaeSwap-finance/sundae-sns-audit/audit"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/tj/assert"
)

type mockSNS struct {
	snsiface.SNSAPI

	topicPages        [][]*sns.Topic
	subscriptionPages [][]*sns.Subscription
	tags              map[string][]*sns.Tag
	err               error

	tokens   []*string
	tagCalls []string
}

func nextToken(i, n int) *string {
	if i+1 >= n {
		return nil
	}
	return aws.String(string(rune('a' + i + 1)))
}

func pageIndex(token *string) int {
	if token == nil {
		return 0
	}
	return int((*token)[0] - 'a')
}

func (m *mockSNS) ListTopicsWithContext(_ aws.Context, input *sns.ListTopicsInput, _ ...request.Option) (*sns.ListTopicsOutput, error) {
	m.tokens = append(m.tokens, input.NextToken)
	if m.err != nil {
		return nil, m.err
	}
	i := pageIndex(input.NextToken)
	return &sns.ListTopicsOutput{
		Topics:    m.topicPages[i],
		NextToken: nextToken(i, len(m.topicPages)),
	}, nil
}

func (m *mockSNS) ListSubscriptionsWithContext(_ aws.Context, input *sns.ListSubscriptionsInput, _ ...request.Option) (*sns.ListSubscriptionsOutput, error) {
	m.tokens = append(m.tokens, input.NextToken)
	if m.err != nil {
		return nil, m.err
	}
	i := pageIndex(input.NextToken)
	return &sns.ListSubscriptionsOutput{
		Subscriptions: m.subscriptionPages[i],
		NextToken:     nextToken(i, len(m.subscriptionPages)),
	}, nil
}

func (m *mockSNS) ListTagsForResourceWithContext(_ aws.Context, input *sns.ListTagsForResourceInput, _ ...request.Option) (*sns.ListTagsForResourceOutput, error) {
	arn := aws.StringValue(input.ResourceArn)
	m.tagCalls = append(m.tagCalls, arn)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.ListTagsForResourceOutput{Tags: m.tags[arn]}, nil
}

func topic(arn string) *sns.Topic {
	return &sns.Topic{TopicArn: aws.String(arn)}
}

func subscription(topicArn, endpoint, protocol string) *sns.Subscription {
	return &sns.Subscription{
		SubscriptionArn: aws.String(topicArn + ":" + endpoint),
		TopicArn:        aws.String(topicArn),
		Endpoint:        aws.String(endpoint),
		Protocol:        aws.String(protocol),
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("ListTopics pages through NextToken", func(t *testing.T) {
		api := &mockSNS{
			topicPages: [][]*sns.Topic{
				{topic("T1"), topic("T2")},
				{topic("T3")},
			},
		}
		topics, err := audit.ListAll(ctx, New(api).ListTopics)
		assert.Nil(t, err)
		assert.Equal(t, []audit.Topic{{ARN: "T1"}, {ARN: "T2"}, {ARN: "T3"}}, topics)
		assert.Len(t, api.tokens, 2)
		assert.Nil(t, api.tokens[0])
		assert.Equal(t, "b", aws.StringValue(api.tokens[1]))
	})

	t.Run("ListSubscriptions maps fields", func(t *testing.T) {
		api := &mockSNS{
			subscriptionPages: [][]*sns.Subscription{
				{subscription("T1", "a@x.com", "email")},
				{subscription("T1", "+15551234567", "sms")},
			},
		}
		subs, err := audit.ListAll(ctx, New(api).ListSubscriptions)
		assert.Nil(t, err)
		assert.Equal(t, []audit.Subscription{
			{ARN: "T1:a@x.com", TopicARN: "T1", Endpoint: "a@x.com", Protocol: "email"},
			{ARN: "T1:+15551234567", TopicARN: "T1", Endpoint: "+15551234567", Protocol: "sms"},
		}, subs)
	})

	t.Run("FetchTags", func(t *testing.T) {
		api := &mockSNS{
			tags: map[string][]*sns.Tag{
				"T1": {{Key: aws.String("Product"), Value: aws.String("swap")}},
			},
		}
		tags, err := New(api).FetchTags(ctx, "T1")
		assert.Nil(t, err)
		assert.Equal(t, []audit.Tag{{Key: "Product", Value: "swap"}}, tags)
		assert.Equal(t, []string{"T1"}, api.tagCalls)
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		api := &mockSNS{err: errors.New("AuthorizationError")}
		client := New(api)

		_, _, err := client.ListTopics(ctx, nil)
		assert.True(t, errors.Is(err, api.err))
		_, _, err = client.ListSubscriptions(ctx, nil)
		assert.True(t, errors.Is(err, api.err))
		_, err = client.FetchTags(ctx, "T1")
		assert.True(t, errors.Is(err, api.err))
	})

	t.Run("audit end to end", func(t *testing.T) {
		api := &mockSNS{
			topicPages: [][]*sns.Topic{{topic("T1"), topic("T2")}, {topic("T3")}},
			subscriptionPages: [][]*sns.Subscription{
				{subscription("T1", "a@x.com", "email"), subscription("T1", "+15551234567", "sms")},
				{subscription("T2", "a@x.com", "email")},
			},
			tags: map[string][]*sns.Tag{
				"T3": {{Key: aws.String("TerraformManaged"), Value: aws.String("true")}},
			},
		}
		report, err := audit.New(New(api), "us-east-1").Audit(ctx)
		assert.Nil(t, err)
		assert.Len(t, report.Orphans, 1)
		assert.Equal(t, "T3", report.Orphans[0].TopicARN)
		assert.Equal(t, "true", aws.StringValue(report.Orphans[0].TerraformManaged))
		assert.Nil(t, report.Orphans[0].Product)
		assert.Equal(t, []string{"T3"}, api.tagCalls)
	})
}
