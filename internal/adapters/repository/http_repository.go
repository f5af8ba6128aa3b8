package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/decisiondeck/core/internal/domain/cards"
)

// HTTPCardRepository fetches the card collection from a backend service at
// GET {base}/cards. It is interchangeable with the fixture repository; the
// store never learns which one is behind the port.
type HTTPCardRepository struct {
	baseURL string
	client  *http.Client
	factory *cards.Factory
}

func NewHTTPCardRepository(baseURL string, timeout time.Duration, factory *cards.Factory) *HTTPCardRepository {
	return &HTTPCardRepository{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		factory: factory,
	}
}

func (r *HTTPCardRepository) List(ctx context.Context) ([]*cards.Card, error) {
	url := r.baseURL + "/cards"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build cards request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cards from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch cards from %s: status %d: %s", url, resp.StatusCode, string(body))
	}

	var wire []cards.WireCard
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode cards response from %s: %w", url, err)
	}

	return r.factory.FromWireBatch(wire)
}
