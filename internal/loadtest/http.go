package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

const workerChannelMultiplier = 2

// Client wraps http.Client with the service's routes.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *Client) do(ctx context.Context, method, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, c.baseURL+"/healthz")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// Catalog fetches GET /activities.
func (c *Client) Catalog(ctx context.Context) (types.Catalog, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/activities")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list activities returned status %d", status)
	}
	var catalog types.Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return catalog, nil
}

// Activity fetches one activity out of the catalog.
func (c *Client) Activity(ctx context.Context, name string) (model.Activity, error) {
	catalog, err := c.Catalog(ctx)
	if err != nil {
		return model.Activity{}, err
	}
	a, ok := catalog.Lookup(name)
	if !ok {
		return model.Activity{}, fmt.Errorf("activity %q not found", name)
	}
	return a, nil
}

// Signup posts one signup and returns the confirmation message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.roster(ctx, http.MethodPost, activity, email)
}

// Unregister deletes one signup and returns the confirmation message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.roster(ctx, http.MethodDelete, activity, email)
}

func (c *Client) roster(ctx context.Context, method, activity, email string) (string, error) {
	target := c.baseURL + "/activities/" + url.PathEscape(activity) + "/signup?email=" + url.QueryEscape(email)
	status, body, err := c.do(ctx, method, target)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		var d types.Detail
		_ = json.Unmarshal(body, &d)
		return "", fmt.Errorf("%s %q for %q: status %d: %s", method, email, activity, status, d.Detail)
	}
	var m types.Message
	if err := json.Unmarshal(body, &m); err != nil {
		return "", fmt.Errorf("decode message: %w", err)
	}
	return m.Message, nil
}

// mutateAll runs op for every email across cfg.Workers goroutines and
// returns the success and failure counts.
func mutateAll(ctx context.Context, cfg *Config, name string, emails []string,
	op func(ctx context.Context, activity, email string) (string, error),
) (ok, failed int) {
	log := logger.Get().Named("loadtest")
	log.Info(ctx, "submitting "+name, logger.Int("requests", len(emails)), logger.Int("workers", cfg.Workers))

	var succeeded, errored int64
	emailChan := make(chan string, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range emailChan {
				msg, err := op(ctx, cfg.Activity, email)
				if err != nil {
					atomic.AddInt64(&errored, 1)
					log.Warn(ctx, name+" failed", logger.String("email", email), logger.Error(err))
					continue
				}
				atomic.AddInt64(&succeeded, 1)
				if cfg.Verbose {
					log.Debug(ctx, msg)
				}
			}
		}()
	}

	go func() {
		defer close(emailChan)
		for _, email := range emails {
			select {
			case <-ctx.Done():
				return
			case emailChan <- email:
			}
		}
	}()

	wg.Wait()
	return int(atomic.LoadInt64(&succeeded)), int(atomic.LoadInt64(&errored))
}
