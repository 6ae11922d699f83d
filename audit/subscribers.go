package audit

// GroupTopicsByEndpoint maps every endpoint to the topics it subscribes to. The
// result is ordered by first appearance of each endpoint; repeated topic
// references are kept.
func GroupTopicsByEndpoint(inv *Inventory) []MultiTopicSubscriber {
	var (
		groups []MultiTopicSubscriber
		index  = map[string]int{}
	)
	for _, sub := range inv.Subscriptions {
		i, ok := index[sub.Endpoint]
		if !ok {
			i = len(groups)
			index[sub.Endpoint] = i
			groups = append(groups, MultiTopicSubscriber{Endpoint: sub.Endpoint})
		}
		groups[i].TopicARNs = append(groups[i].TopicARNs, sub.TopicARN)
	}
	return groups
}

// FindMultiTopicSubscribers returns the endpoints with more than one topic
// reference.
func FindMultiTopicSubscribers(inv *Inventory) []MultiTopicSubscriber {
	var found []MultiTopicSubscriber
	for _, group := range GroupTopicsByEndpoint(inv) {
		if len(group.TopicARNs) > 1 {
			found = append(found, group)
		}
	}
	return found
}

// FindMultiSubscriberTopics returns the listed topics referenced by more than one
// subscription, ordered by first appearance of the topic among subscriptions.
// Subscriptions pointing at topics missing from the inventory are ignored.
func FindMultiSubscriberTopics(inv *Inventory) []MultiSubscriberTopic {
	known := make(map[string]struct{}, len(inv.Topics))
	for _, topic := range inv.Topics {
		known[topic.ARN] = struct{}{}
	}

	var (
		groups []MultiSubscriberTopic
		index  = map[string]int{}
	)
	for _, sub := range inv.Subscriptions {
		if _, ok := known[sub.TopicARN]; !ok {
			continue
		}
		i, ok := index[sub.TopicARN]
		if !ok {
			i = len(groups)
			index[sub.TopicARN] = i
			groups = append(groups, MultiSubscriberTopic{TopicARN: sub.TopicARN})
		}
		groups[i].Endpoints = append(groups[i].Endpoints, sub.Endpoint)
	}

	var found []MultiSubscriberTopic
	for _, group := range groups {
		if len(group.Endpoints) > 1 {
			found = append(found, group)
		}
	}
	return found
}

// danglingSubscriptions counts subscriptions whose topic is not in the inventory.
func danglingSubscriptions(inv *Inventory) int {
	known := make(map[string]struct{}, len(inv.Topics))
	for _, topic := range inv.Topics {
		known[topic.ARN] = struct{}{}
	}
	var n int
	for _, sub := range inv.Subscriptions {
		if _, ok := known[sub.TopicARN]; !ok {
			n++
		}
	}
	return n
}
