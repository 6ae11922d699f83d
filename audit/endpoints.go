package audit

import "strings"

func IsPhoneNumber(endpoint string) bool {
	return strings.HasPrefix(endpoint, "+")
}

func IsEmail(endpoint string) bool {
	return strings.Contains(endpoint, "@")
}

// GroupByEndpointType splits subscriptions into phone and email buckets in listing
// order. Phone takes precedence; endpoints matching neither rule are dropped.
func GroupByEndpointType(subscriptions []Subscription) EndpointGroups {
	var groups EndpointGroups
	for _, sub := range subscriptions {
		switch {
		case IsPhoneNumber(sub.Endpoint):
			groups.Phone = append(groups.Phone, sub)
		case IsEmail(sub.Endpoint):
			groups.Email = append(groups.Email, sub)
		}
	}
	return groups
}
