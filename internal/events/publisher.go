package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/cotahub/mdcota-etl/internal/logger"
)

const component = "Events"

const (
	// PutEvents accepts at most 10 entries per call.
	maxEntriesPerCall = 10
	// Quota codes carried per event; keeps the detail body well under the
	// 256KB entry limit.
	codesPerEvent = 200

	eventSource = "mdcota.etl"
)

// EventBridgeClient is the slice of the EventBridge API the publisher uses.
type EventBridgeClient interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher emits quota_code_list events for the downstream pricing
// pipeline.
type Publisher struct {
	client  EventBridgeClient
	busName string
	log     *logger.Logger
}

func New(cfg aws.Config, busName string, log *logger.Logger) *Publisher {
	return &Publisher{
		client:  eventbridge.NewFromConfig(cfg),
		busName: busName,
		log:     log,
	}
}

// NewWithClient wires a custom client, used by tests.
func NewWithClient(client EventBridgeClient, busName string, log *logger.Logger) *Publisher {
	return &Publisher{client: client, busName: busName, log: log}
}

type quotaCodeListDetail struct {
	QuotaCodeList []string `json:"quota_code_list"`
}

// PublishQuotaCodes chunks the processed quota codes into events tagged with
// the job's detail type and sends them in PutEvents batches.
func (p *Publisher) PublishQuotaCodes(ctx context.Context, detailType string, quotaCodes []string) error {
	if p.busName == "" || len(quotaCodes) == 0 {
		return nil
	}

	entries := []types.PutEventsRequestEntry{}
	for start := 0; start < len(quotaCodes); start += codesPerEvent {
		end := start + codesPerEvent
		if end > len(quotaCodes) {
			end = len(quotaCodes)
		}

		detail, err := json.Marshal(quotaCodeListDetail{QuotaCodeList: quotaCodes[start:end]})
		if err != nil {
			return fmt.Errorf("marshal event detail: %w", err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(detailType),
			Detail:       aws.String(string(detail)),
		})
	}

	for start := 0; start < len(entries); start += maxEntriesPerCall {
		end := start + maxEntriesPerCall
		if end > len(entries) {
			end = len(entries)
		}

		out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries[start:end]})
		if err != nil {
			return fmt.Errorf("put events: %w", err)
		}
		if out.FailedEntryCount > 0 {
			p.log.Warn(component, "Some pricing events were rejected: failed=%d detailType=%s", out.FailedEntryCount, detailType)
		}
	}

	p.log.Info(component, "Pricing events published: detailType=%s codes=%d events=%d", detailType, len(quotaCodes), len(entries))
	return nil
}
