package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/go-resty/resty/v2"
)

// ServiceClient ходит в сервис снапшотов по тем же маршрутам, что и дашборд
type ServiceClient struct {
	client  *resty.Client
	baseURL string
}

func NewServiceClient(baseURL string, timeout time.Duration) *ServiceClient {
	client := resty.New()
	client.SetTimeout(timeout)

	return &ServiceClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *ServiceClient) Publish(ctx context.Context, snapshot *domain.Snapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(c.baseURL + "/data/mining-data")
	if err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("publishing snapshot: unexpected status code: %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

func (c *ServiceClient) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(c.baseURL + "/data/processor-data")
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching snapshot: unexpected status code: %d", resp.StatusCode())
	}

	snapshot, err := domain.ParseSnapshot(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snapshot, nil
}
