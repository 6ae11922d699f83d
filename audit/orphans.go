package audit

import (
	"context"
	"fmt"
)

// subscriptionCounts indexes subscriptions by the topic they reference.
func subscriptionCounts(subscriptions []Subscription) map[string]int {
	counts := make(map[string]int, len(subscriptions))
	for _, sub := range subscriptions {
		counts[sub.TopicARN]++
	}
	return counts
}

// FindOrphanTopics returns, in topic listing order, every topic that no
// subscription references, annotated with its TerraformManaged and Product tags.
func FindOrphanTopics(ctx context.Context, inv *Inventory, tags *TagResolver) ([]OrphanTopic, error) {
	counts := subscriptionCounts(inv.Subscriptions)

	var orphans []OrphanTopic
	for _, topic := range inv.Topics {
		if counts[topic.ARN] > 0 {
			continue
		}
		topicTags, err := tags.Resolve(ctx, topic.ARN)
		if err != nil {
			return nil, fmt.Errorf("failed to classify orphan topic: %w", err)
		}
		orphans = append(orphans, OrphanTopic{
			TopicARN:         topic.ARN,
			TerraformManaged: TagValue(topicTags, TerraformManagedTag),
			Product:          TagValue(topicTags, ProductTag),
		})
	}
	return orphans, nil
}
