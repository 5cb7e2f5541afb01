package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPInvoker talks to a platform gateway that accepts transactions and
// exposes their receipts.
type HTTPInvoker struct {
	client   *resty.Client
	endpoint string
}

func NewHTTPInvoker(endpoint string, timeout time.Duration) *HTTPInvoker {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	return &HTTPInvoker{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

func (hi *HTTPInvoker) SendTransaction(ctx context.Context, tx *Transaction) error {
	resp, err := hi.client.R().
		SetContext(ctx).
		SetBody(tx).
		Post(hi.endpoint + "/transactions")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("send transaction %s: %s %s", tx.TraceId, resp.Status(), resp.String())
	}
	return nil
}

func (hi *HTTPInvoker) ReadReceipts(ctx context.Context, offset time.Time, limit int) ([]*Receipt, error) {
	params := make(map[string]string)
	if !offset.IsZero() {
		params["offset"] = offset.UTC().Format(time.RFC3339Nano)
	}
	if limit > 0 {
		params["limit"] = fmt.Sprint(limit)
	}

	var receipts []*Receipt
	resp, err := hi.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&receipts).
		Get(hi.endpoint + "/receipts")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("read receipts: %s %s", resp.Status(), resp.String())
	}
	return receipts, nil
}
