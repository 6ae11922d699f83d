package sundaesns

import (
	"github.com/urfave/cli/v2"
)

var SNSOpts struct {
	Region string
}

var RegionFlag = cli.StringFlag{
	Name:        "region",
	Usage:       "the AWS region whose SNS inventory is audited",
	Value:       "us-east-1",
	EnvVars:     []string{"AWS_REGION"},
	Destination: &SNSOpts.Region,
}

var SNSFlags = []cli.Flag{
	&RegionFlag,
}
