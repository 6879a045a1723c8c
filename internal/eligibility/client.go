// Package eligibility calls the external eligibility authority to decide
// whether a member is covered by a payer. The check is fail-closed: any
// transport error, timeout, or malformed response counts as "not eligible".
// An outage of the eligibility service must never let an ineligible claim
// through.
package eligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nphies/claims-service/internal/cache"
	"go.uber.org/zap"
)

// Checker is the eligibility gate used by the submission pipeline.
type Checker interface {
	CheckEligibility(ctx context.Context, memberID, payerID string) bool
}

type checkResponse struct {
	Eligible bool   `json:"eligible"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// Client queries the eligibility service over HTTP with a bounded timeout
// and an optional redis decision cache.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Manager
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, decisions *cache.Manager, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   decisions,
		log:     log.Named("eligibility.client"),
	}
}

// CheckEligibility returns true only when the authority positively confirms
// coverage. Every failure path returns false and logs the cause; no error
// reaches the caller.
func (c *Client) CheckEligibility(ctx context.Context, memberID, payerID string) bool {
	cacheKey := fmt.Sprintf("eligibility:%s:%s", memberID, payerID)

	var cached checkResponse
	if c.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached.Eligible
	}

	endpoint := fmt.Sprintf("%s/api/v1/eligibility/check/%s/%s",
		c.baseURL, url.PathEscape(memberID), url.PathEscape(payerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Warn("eligibility request build failed", zap.Error(err))
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("eligibility check failed",
			zap.String("member_id", memberID),
			zap.String("payer_id", payerID),
			zap.Error(err),
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("eligibility check returned non-2xx",
			zap.String("member_id", memberID),
			zap.String("payer_id", payerID),
			zap.Int("status", resp.StatusCode),
		)
		return false
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("eligibility response malformed",
			zap.String("member_id", memberID),
			zap.String("payer_id", payerID),
			zap.Error(err),
		)
		return false
	}

	c.cache.SetJSON(ctx, cacheKey, body)
	return body.Eligible
}
