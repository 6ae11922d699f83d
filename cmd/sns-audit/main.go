package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/SundaeSwap-finance/sundae-sns-audit/audit"
	sundaecli "github.com/SundaeSwap-finance/sundae-sns-audit/sundae-cli"
	sundaereport "github.com/SundaeSwap-finance/sundae-sns-audit/sundae-report"
	sundaesns "github.com/SundaeSwap-finance/sundae-sns-audit/sundae-sns"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var service = sundaecli.NewService("sns-audit")

const (
	TopicsMetric                sundaecli.MetricName = "SNSTopics"
	SubscriptionsMetric         sundaecli.MetricName = "SNSSubscriptions"
	OrphanTopicsMetric          sundaecli.MetricName = "SNSOrphanTopics"
	MultiTopicSubscribersMetric sundaecli.MetricName = "SNSMultiTopicSubscribers"
	MultiSubscriberTopicsMetric sundaecli.MetricName = "SNSMultiSubscriberTopics"
)

func main() {
	var flags []cli.Flag
	flags = append(flags, sundaecli.CommonFlags...)
	flags = append(flags, sundaereport.ReportFlags...)
	flags = append(flags, sundaesns.SNSFlags...)

	app := sundaecli.App(service, action, flags...)
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

func action(_ *cli.Context) error {
	handler := sundaereport.NewHandler(service, "inventory", generate)

	return handler.Start()
}

func generate(ctx context.Context) (interface{}, error) {
	begin := time.Now()

	s := session.Must(session.NewSession(aws.NewConfig()))
	auditor := audit.New(sundaesns.Build(s, sundaesns.SNSOpts.Region), sundaesns.SNSOpts.Region)

	report, err := auditor.Audit(ctx)
	if err != nil {
		return nil, err
	}

	if !sundaecli.CommonOpts.Dry {
		metrics := sundaecli.NewMetrics(service, cloudwatch.New(s, aws.NewConfig().WithRegion(sundaesns.SNSOpts.Region)))
		dimensions := map[sundaecli.DimensionName]string{
			sundaecli.EnvironmentDimension: sundaecli.CommonOpts.Env,
			sundaecli.RegionDimension:      sundaesns.SNSOpts.Region,
		}
		if err := metrics.Gauges(ctx, summaryGauges(report.Summary), dimensions); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to publish summary metrics")
		}
		metrics.Timing(ctx, sundaecli.ResponseTimeMetric, begin, dimensions)
	}

	return report, nil
}

func summaryGauges(summary audit.Summary) map[sundaecli.MetricName]float64 {
	return map[sundaecli.MetricName]float64{
		TopicsMetric:                float64(summary.Topics),
		SubscriptionsMetric:         float64(summary.Subscriptions),
		OrphanTopicsMetric:          float64(summary.OrphanTopics),
		MultiTopicSubscribersMetric: float64(summary.MultiTopicSubscribers),
		MultiSubscriberTopicsMetric: float64(summary.MultiSubscriberTopics),
	}
}
