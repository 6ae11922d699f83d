package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Summary struct {
	Topics                int `json:"topics"`
	Subscriptions         int `json:"subscriptions"`
	OrphanTopics          int `json:"orphanTopics"`
	MultiTopicSubscribers int `json:"multiTopicSubscribers"`
	MultiSubscriberTopics int `json:"multiSubscriberTopics"`
	PhoneSubscriptions    int `json:"phoneSubscriptions"`
	EmailSubscriptions    int `json:"emailSubscriptions"`
}

type Report struct {
	GeneratedAt           time.Time              `json:"generatedAt"`
	Region                string                 `json:"region,omitempty"`
	Summary               Summary                `json:"summary"`
	Orphans               []OrphanTopic          `json:"orphans"`
	MultiTopicSubscribers []MultiTopicSubscriber `json:"multiTopicSubscribers"`
	MultiSubscriberTopics []MultiSubscriberTopic `json:"multiSubscriberTopics"`
	Endpoints             EndpointGroups         `json:"endpoints"`
}

// Run classifies inv. tags should be fresh for the run; it is the only state
// shared between classifiers.
func Run(ctx context.Context, inv *Inventory, tags *TagResolver) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	if n := danglingSubscriptions(inv); n > 0 {
		logger.Debug().Int("count", n).Msg("subscriptions reference topics missing from the listing")
	}

	orphans, err := FindOrphanTopics(ctx, inv, tags)
	if err != nil {
		return nil, err
	}
	multiTopic := FindMultiTopicSubscribers(inv)
	multiSubscriber := FindMultiSubscriberTopics(inv)
	endpoints := GroupByEndpointType(inv.Subscriptions)

	report := &Report{
		GeneratedAt:           time.Now().UTC(),
		Orphans:               orphans,
		MultiTopicSubscribers: multiTopic,
		MultiSubscriberTopics: multiSubscriber,
		Endpoints:             endpoints,
		Summary: Summary{
			Topics:                len(inv.Topics),
			Subscriptions:         len(inv.Subscriptions),
			OrphanTopics:          len(orphans),
			MultiTopicSubscribers: len(multiTopic),
			MultiSubscriberTopics: len(multiSubscriber),
			PhoneSubscriptions:    len(endpoints.Phone),
			EmailSubscriptions:    len(endpoints.Email),
		},
	}

	logger.Info().
		Int("topics", report.Summary.Topics).
		Int("subscriptions", report.Summary.Subscriptions).
		Int("orphans", report.Summary.OrphanTopics).
		Int("tagFetches", tags.Fetches()).
		Msg("classified inventory")

	return report, nil
}

// Auditor loads a full snapshot from a Source and classifies it.
type Auditor struct {
	source Source
	region string
}

func New(source Source, region string) *Auditor {
	return &Auditor{
		source: source,
		region: region,
	}
}

func (a *Auditor) Audit(ctx context.Context) (report *Report, err error) {
	defer func(begin time.Time) {
		zerolog.Ctx(ctx).Info().
			Dur("elapsed", time.Since(begin)).
			Err(err).
			Str("region", a.region).
			Msg("audited sns inventory")
	}(time.Now())

	inv, err := Load(ctx, a.source)
	if err != nil {
		return nil, fmt.Errorf("failed to load sns inventory: %w", err)
	}

	report, err = Run(ctx, inv, NewTagResolver(a.source.FetchTags))
	if err != nil {
		return nil, fmt.Errorf("failed to audit sns inventory: %w", err)
	}
	report.Region = a.region
	return report, nil
}
