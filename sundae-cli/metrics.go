package sundaecli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
)

type Metrics struct {
	service    Service
	cloudwatch cloudwatchiface.CloudWatchAPI
}

func NewMetrics(service Service, cloudwatch cloudwatchiface.CloudWatchAPI) Metrics {
	return Metrics{
		service,
		cloudwatch,
	}
}

type MetricName string

const (
	ResponseTimeMetric MetricName = "ResponseTime"
)

type DimensionName string

const (
	ServiceNameDimension    DimensionName = "Service"
	ServiceVersionDimension DimensionName = "Version"
	EnvironmentDimension    DimensionName = "Environment"
	RegionDimension         DimensionName = "Region"
)

func defaultDimensions(service Service) map[DimensionName]string {
	return map[DimensionName]string{
		ServiceNameDimension:    service.Name,
		ServiceVersionDimension: service.Version,
	}
}

func mapToDimensions(ms ...map[DimensionName]string) []*cloudwatch.Dimension {
	var dimensions []*cloudwatch.Dimension
	for _, ds := range ms {
		for k, v := range ds {
			if v == "" {
				continue
			}
			dimensions = append(dimensions, &cloudwatch.Dimension{
				Name:  aws.String(string(k)),
				Value: aws.String(v),
			})
		}
	}
	sort.Slice(dimensions, func(i, j int) bool {
		return aws.StringValue(dimensions[i].Name) < aws.StringValue(dimensions[j].Name)
	})
	return dimensions
}

func (m Metrics) Timing(ctx context.Context, name MetricName, start time.Time, dimensions ...map[DimensionName]string) {
	awsDimensions := mapToDimensions(append(dimensions, defaultDimensions(m.service))...)
	_, err := m.cloudwatch.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String("sundae-services"),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(string(name)),
				Timestamp:  aws.Time(time.Now()),
				Unit:       aws.String("Milliseconds"),
				Value:      aws.Float64(float64(time.Since(start).Milliseconds())),
				Dimensions: awsDimensions,
			},
		},
	})
	if err != nil {
		fmt.Printf("Warning: couldn't publish timing for %v: %+v\n", name, err)
	}
}

// Gauges publishes several values in a single PutMetricData call.
func (m Metrics) Gauges(ctx context.Context, values map[MetricName]float64, dimensions ...map[DimensionName]string) error {
	awsDimensions := mapToDimensions(append(dimensions, defaultDimensions(m.service))...)

	names := make([]MetricName, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	now := time.Now()
	var data []*cloudwatch.MetricDatum
	for _, name := range names {
		data = append(data, &cloudwatch.MetricDatum{
			MetricName: aws.String(string(name)),
			Timestamp:  aws.Time(now),
			Unit:       aws.String("Count"),
			Value:      aws.Float64(values[name]),
			Dimensions: awsDimensions,
		})
	}
	if len(data) == 0 {
		return nil
	}

	_, err := m.cloudwatch.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String("sundae-services"),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %v gauges: %w", len(data), err)
	}
	return nil
}
