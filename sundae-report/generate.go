// Package sundaereport runs a report generator once and persists the result as
// JSON, plus any rendered artifacts, either locally or to S3.
package sundaereport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	sundaecli "github.com/SundaeSwap-finance/sundae-sns-audit/sundae-cli"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog"
)

type GenerateCallback func(ctx context.Context) (interface{}, error)

// Artifacter is implemented by reports that render additional files, keyed by
// file extension, next to the JSON document.
type Artifacter interface {
	Artifacts() (map[string][]byte, error)
}

var contentTypes = map[string]string{
	"json": "application/json",
	"txt":  "text/plain; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
}

type Handler struct {
	service sundaecli.Service
	logger  zerolog.Logger
	s3      s3iface.S3API
	stdout  io.Writer

	reportName string

	generate GenerateCallback
}

func ReportKey(serviceName, reportName string, timestamp time.Time, ext string) string {
	return fmt.Sprintf("%v/%v/%v/%v/%v.%v", serviceName, reportName, timestamp.Format("2006-01-02"), timestamp.Format("15"), timestamp.Format("2006-01-02-15:04:05"), ext)
}

func NewHandler(
	service sundaecli.Service,
	reportName string,
	generate GenerateCallback,
) *Handler {
	session := session.Must(session.NewSession(aws.NewConfig()))
	return New(service, reportName, s3.New(session), generate)
}

func New(service sundaecli.Service, reportName string, s3Api s3iface.S3API, generate GenerateCallback) *Handler {
	return &Handler{
		service:    service,
		logger:     sundaecli.Logger(service),
		s3:         s3Api,
		stdout:     os.Stdout,
		reportName: reportName,
		generate:   generate,
	}
}

type artifact struct {
	ext  string
	body []byte
}

// render returns the JSON document first, followed by any other artifacts in
// extension order.
func render(report interface{}) ([]artifact, error) {
	reportBytes, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	artifacts := []artifact{{ext: "json", body: reportBytes}}

	if a, ok := report.(Artifacter); ok {
		extra, err := a.Artifacts()
		if err != nil {
			return nil, fmt.Errorf("failed to render report artifacts: %w", err)
		}
		exts := make([]string, 0, len(extra))
		for ext := range extra {
			if ext != "json" {
				exts = append(exts, ext)
			}
		}
		sort.Strings(exts)
		for _, ext := range exts {
			artifacts = append(artifacts, artifact{ext: ext, body: extra[ext]})
		}
	}
	return artifacts, nil
}

func (h *Handler) Generate(ctx context.Context, _ json.RawMessage) error {
	ctx = h.logger.WithContext(ctx)

	h.logger.Info().Msg("generating report")
	report, err := h.generate(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to generate report")
		return err
	}
	artifacts, err := render(report)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to render report")
		return err
	}

	now := time.Now().UTC()
	if sundaecli.CommonOpts.Dry {
		if ReportOpts.OutFile == "" {
			return h.print(report, artifacts)
		}
		return h.save(ReportOpts.OutFile, artifacts)
	}

	for _, a := range artifacts {
		key := ReportKey(h.service.Name, h.reportName, now, a.ext)
		h.logger.Info().Str("bucket", ReportOpts.Bucket).Str("filename", key).Int("size", len(a.body)).Msg("saving report to s3")
		_, err = h.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(ReportOpts.Bucket),
			Body:        bytes.NewReader(a.body),
			Key:         aws.String(key),
			ContentType: aws.String(contentTypes[a.ext]),
		})
		if err != nil {
			return fmt.Errorf("failed to save report to s3://%v/%v: %w", ReportOpts.Bucket, key, err)
		}
	}

	return nil
}

// print writes the text artifact to stdout when there is one, otherwise the JSON.
func (h *Handler) print(report interface{}, artifacts []artifact) error {
	for _, a := range artifacts {
		if a.ext == "txt" {
			_, err := h.stdout.Write(a.body)
			return err
		}
	}
	enc := json.NewEncoder(h.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (h *Handler) save(base string, artifacts []artifact) error {
	if err := os.MkdirAll(path.Dir(base), 0755); err != nil {
		return err
	}
	var filenames []string
	for _, a := range artifacts {
		filename := base + "." + a.ext
		h.logger.Info().Str("filename", filename).Int("size", len(a.body)).Msg("dry run, saving report locally")
		if err := os.WriteFile(filename, a.body, 0644); err != nil {
			return err
		}
		filenames = append(filenames, filename)
	}
	h.logger.Info().Strs("files", filenames).Msg("report saved")
	return nil
}

func GetRawAsOf(ctx context.Context, s3Api s3iface.S3API, bucket, servicename, reportName string, timestamp time.Time) ([]byte, string, error) {
	count := 0
	for {
		prefix := fmt.Sprintf("%v/%v/%v", servicename, reportName, timestamp.Format("2006-01-02"))
		listInput := s3.ListObjectsV2Input{
			Bucket:  aws.String(bucket),
			MaxKeys: aws.Int64(1000),
			Prefix:  aws.String(prefix),
		}
		listOutput, err := s3Api.ListObjectsV2WithContext(ctx, &listInput)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read most recent report: failed to list objects: %w", err)
		}

		var keys []string
		for _, obj := range listOutput.Contents {
			if key := aws.StringValue(obj.Key); strings.HasSuffix(key, ".json") {
				keys = append(keys, key)
			}
		}

		if len(keys) == 0 {
			yesterday := timestamp.AddDate(0, 0, -1)
			timestamp = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 0, time.UTC)
			if count > 5 {
				return nil, "", fmt.Errorf("failed to find latest report after 5 days: %v", timestamp)
			}
			count += 1
			continue
		}

		// Grab the last
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
		firstKey := keys[0]

		input := s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(firstKey),
		}
		output, err := s3Api.GetObjectWithContext(ctx, &input)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read most recent file in %v: failed to get object, %v: %w", prefix, firstKey, err)
		}
		defer output.Body.Close()
		bytes, err := io.ReadAll(output.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read most recent file in %v: failed to read s3 response, %v: %w", prefix, firstKey, err)
		}
		return bytes, firstKey, nil
	}
}

func GetLatest(ctx context.Context, s3Api s3iface.S3API, bucket, serviceName, reportName string, obj any) (string, error) {
	now := time.Now().UTC()
	bytes, filename, err := GetRawAsOf(ctx, s3Api, bucket, serviceName, reportName, now)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(bytes, obj); err != nil {
		return "", fmt.Errorf("failed to unmarshal latest report: %w", err)
	}
	return filename, nil
}

func (h *Handler) latest(ctx context.Context) error {
	reportBytes, filename, err := GetRawAsOf(ctx, h.s3, ReportOpts.Bucket, h.service.Name, h.reportName, time.Now().UTC())
	if err != nil {
		return err
	}
	h.logger.Info().Str("bucket", ReportOpts.Bucket).Str("filename", filename).Msg("fetched latest report")

	if ReportOpts.OutFile == "" {
		var prettyBytes bytes.Buffer
		if err := json.Indent(&prettyBytes, reportBytes, "", "  "); err != nil {
			return err
		}
		_, err = h.stdout.Write(prettyBytes.Bytes())
		return err
	}
	if err := os.MkdirAll(path.Dir(ReportOpts.OutFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(ReportOpts.OutFile+".json", reportBytes, 0644)
}

func (h *Handler) Start() error {
	if ReportOpts.GetLatest {
		return h.latest(context.Background())
	}

	switch {
	case sundaecli.CommonOpts.Console:
		return h.Generate(context.Background(), nil)

	default:
		lambda.Start(h.Generate)
	}
	return nil
}
