package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/stretchr/testify/require"

	"github.com/cotahub/mdcota-etl/internal/logger"
)

type capturingClient struct {
	calls []*eventbridge.PutEventsInput
}

func (c *capturingClient) PutEvents(_ context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	c.calls = append(c.calls, params)
	return &eventbridge.PutEventsOutput{}, nil
}

func TestPublishQuotaCodes(t *testing.T) {
	client := &capturingClient{}
	pub := NewWithClient(client, "md-cota-bus", logger.New("error"))

	codes := []string{"0000018", "0000026", "0000034"}
	require.NoError(t, pub.PublishQuotaCodes(context.Background(), "quota_code_list_test", codes))

	require.Len(t, client.calls, 1)
	entries := client.calls[0].Entries
	require.Len(t, entries, 1)
	require.Equal(t, "md-cota-bus", *entries[0].EventBusName)
	require.Equal(t, "quota_code_list_test", *entries[0].DetailType)

	var detail quotaCodeListDetail
	require.NoError(t, json.Unmarshal([]byte(*entries[0].Detail), &detail))
	require.Equal(t, codes, detail.QuotaCodeList)
}

func TestPublishQuotaCodesBatchesEntries(t *testing.T) {
	client := &capturingClient{}
	pub := NewWithClient(client, "md-cota-bus", logger.New("error"))

	// 2400 codes / 200 per event = 12 events, split into a full call of 10
	// entries and one of 2.
	codes := make([]string, 2400)
	for i := range codes {
		codes[i] = fmt.Sprintf("%07d", i)
	}
	require.NoError(t, pub.PublishQuotaCodes(context.Background(), "quota_code_list_test", codes))

	require.Len(t, client.calls, 2)
	require.Len(t, client.calls[0].Entries, 10)
	require.Len(t, client.calls[1].Entries, 2)
}

func TestPublishQuotaCodesSkipsWhenUnconfigured(t *testing.T) {
	client := &capturingClient{}
	pub := NewWithClient(client, "", logger.New("error"))

	require.NoError(t, pub.PublishQuotaCodes(context.Background(), "quota_code_list_test", []string{"0000018"}))
	require.Empty(t, client.calls)

	pub = NewWithClient(client, "md-cota-bus", logger.New("error"))
	require.NoError(t, pub.PublishQuotaCodes(context.Background(), "quota_code_list_test", nil))
	require.Empty(t, client.calls)
}
