package audit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

const separator = "==============================================================="

func heading(w io.Writer, leading bool, title string) {
	if leading {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "\n%v:\n\n", title)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w)
}

func noneIfNil(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteText renders the report as sectioned plain text.
func WriteText(w io.Writer, report *Report) error {
	var buf bytes.Buffer

	heading(&buf, false, "SNS Topics without subscriptions")
	for _, orphan := range report.Orphans {
		fmt.Fprintf(&buf, "Topic: %v\n", orphan.TopicARN)
		fmt.Fprintf(&buf, "TerraformManaged: %v\n", noneIfNil(orphan.TerraformManaged))
		fmt.Fprintf(&buf, "Product: %v\n", noneIfNil(orphan.Product))
		fmt.Fprintln(&buf)
	}
	fmt.Fprintf(&buf, "\nTotal number of topics: %v\n", report.Summary.Topics)
	fmt.Fprintf(&buf, "Total number of subscriptions: %v\n", report.Summary.Subscriptions)
	fmt.Fprintf(&buf, "Total topics without subscriptions: %v\n", report.Summary.OrphanTopics)

	heading(&buf, true, "Subscribers listening to multiple SNS topics")
	for _, sub := range report.MultiTopicSubscribers {
		fmt.Fprintf(&buf, "Subscriber: %v\n", sub.Endpoint)
		fmt.Fprintln(&buf, "Topics:")
		for _, arn := range sub.TopicARNs {
			fmt.Fprintln(&buf, arn)
		}
		fmt.Fprintln(&buf)
	}
	fmt.Fprintf(&buf, "Total count of subscriptions with more than 1 topic: %v\n", report.Summary.MultiTopicSubscribers)

	heading(&buf, true, "Topics with multiple subscribers")
	for _, topic := range report.MultiSubscriberTopics {
		fmt.Fprintf(&buf, "Topic ARN: %v\n", topic.TopicARN)
		fmt.Fprintln(&buf, "Subscribers:")
		for _, endpoint := range topic.Endpoints {
			fmt.Fprintln(&buf, endpoint)
		}
		fmt.Fprintln(&buf)
	}
	fmt.Fprintf(&buf, "Total count of topics with multiple subscribers: %v\n", report.Summary.MultiSubscriberTopics)

	heading(&buf, true, "Subscriptions with Phone Numbers as Endpoints")
	for _, sub := range report.Endpoints.Phone {
		fmt.Fprintf(&buf, "  Endpoint: %v\n", sub.Endpoint)
	}
	fmt.Fprintln(&buf)

	heading(&buf, false, "Subscriptions with mail as Endpoints")
	for _, sub := range report.Endpoints.Email {
		fmt.Fprintf(&buf, "  Endpoint: %v\n", sub.Endpoint)
	}
	fmt.Fprintln(&buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteCSV writes one row per orphan topic. Missing tags become empty fields.
func WriteCSV(w io.Writer, orphans []OrphanTopic) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Topic", TerraformManagedTag, ProductTag}); err != nil {
		return err
	}
	for _, orphan := range orphans {
		row := []string{orphan.TopicARN, emptyIfNil(orphan.TerraformManaged), emptyIfNil(orphan.Product)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Artifacts renders the text and CSV forms of the report, keyed by file extension.
func (r *Report) Artifacts() (map[string][]byte, error) {
	var text, table bytes.Buffer
	if err := WriteText(&text, r); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	if err := WriteCSV(&table, r.Orphans); err != nil {
		return nil, fmt.Errorf("failed to render csv report: %w", err)
	}
	return map[string][]byte{
		"txt": text.Bytes(),
		"csv": table.Bytes(),
	}, nil
}
