package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"wconcept/bestcrawl/internal/config"
	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/proxy"
)

// ErrUnexpectedStatus marks non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// StatusError carries the status of a failed response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.Code, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Retryable reports whether the request may succeed on a later attempt.
func (e *StatusError) Retryable() bool { return e.Code >= 500 }

// WConceptClient talks to the best page and the best-product API.
type WConceptClient interface {
	FetchBestPage(ctx context.Context) (*BestPage, error)
	FetchProductPage(ctx context.Context, session Session, cat domain.CategoryPair, pageNo, pageSize int) (*ProductPage, error)
	FetchAll(ctx context.Context, session Session, cat domain.CategoryPair, pageSize, maxPages int) ([]domain.Product, error)
}

// Session holds the headers sent with every product API request. It is
// built from the best page response and passed along explicitly.
type Session struct {
	Headers map[string]string
}

// BestPage is the best listing HTML plus the session it established.
type BestPage struct {
	HTML    string
	Session Session
}

// ProductPage is one decoded product API response.
type ProductPage struct {
	PageNo   int
	Products []domain.Product
	HasNext  bool
	Body     []byte
}

// WaitFunc sleeps between retries; it returns early when ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type wconceptClient struct {
	rl         ratelimit.Limiter
	config     config.WConceptConfig
	httpClient *resty.Client
	wait       WaitFunc
}

// Option customizes the client.
type Option func(*wconceptClient)

// WithWait replaces the retry sleep, mainly for tests.
func WithWait(w WaitFunc) Option {
	return func(c *wconceptClient) { c.wait = w }
}

func NewWConceptClient(cfg config.WConceptConfig, proxySupplier proxy.ProxySupplier, opts ...Option) WConceptClient {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	c := &wconceptClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		httpClient: client,
		wait:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultSession returns the headers used when the best page is not fetched.
func DefaultSession(cfg config.WConceptConfig) Session {
	h := map[string]string{
		"content-type": "application/json",
		"user-agent":   cfg.UserAgent,
	}
	if cfg.Origin != "" {
		h["origin"] = cfg.Origin
	}
	if cfg.Referer != "" {
		h["referer"] = cfg.Referer
	}
	if cfg.APIKey != "" {
		h["x-api-key"] = cfg.APIKey
	}
	return Session{Headers: h}
}

func (c *wconceptClient) FetchBestPage(ctx context.Context) (*BestPage, error) {
	var page *BestPage
	err := c.withRetry(ctx, "best page", func(reqCtx context.Context) error {
		resp, err := c.httpClient.R().
			SetContext(reqCtx).
			SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
			Get(c.config.BestPageURL)
		if err != nil {
			return fmt.Errorf("failed to fetch best page: %w", err)
		}
		if resp.IsError() {
			return &StatusError{Code: resp.StatusCode(), Status: resp.Status()}
		}

		session := DefaultSession(c.config)
		if cookies := cookieHeader(resp.Cookies()); cookies != "" {
			session.Headers["cookie"] = cookies
		}
		if key := resp.Header().Get("x-api-key"); key != "" && c.config.APIKey == "" {
			session.Headers["x-api-key"] = key
		}

		page = &BestPage{HTML: resp.String(), Session: session}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("Fetched best page (%d bytes)", len(page.HTML))
	return page, nil
}

type productRequest struct {
	CustNo     string `json:"custNo"`
	Domain     string `json:"domain"`
	GenderType string `json:"genderType"`
	DateType   string `json:"dateType"`
	AgeGroup   string `json:"ageGroup"`
	Depth1Code string `json:"depth1Code"`
	Depth2Code string `json:"depth2Code"`
	PageSize   int    `json:"pageSize"`
	PageNo     int    `json:"pageNo"`
}

func (c *wconceptClient) FetchProductPage(ctx context.Context, session Session, cat domain.CategoryPair, pageNo, pageSize int) (*ProductPage, error) {
	payload := productRequest{
		CustNo:     "0",
		Domain:     c.config.Domain,
		GenderType: c.config.GenderType,
		DateType:   c.config.DateType,
		AgeGroup:   c.config.AgeGroup,
		Depth1Code: cat.Depth1Code,
		Depth2Code: cat.Depth2Code,
		PageSize:   pageSize,
		PageNo:     pageNo,
	}

	var page *ProductPage
	what := fmt.Sprintf("%s page %d", cat, pageNo)
	err := c.withRetry(ctx, what, func(reqCtx context.Context) error {
		resp, err := c.httpClient.R().
			SetContext(reqCtx).
			SetHeaders(session.Headers).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(c.config.ProductEndpoint)
		if err != nil {
			return fmt.Errorf("failed to post product request: %w", err)
		}
		if resp.IsError() {
			return &StatusError{Code: resp.StatusCode(), Status: resp.Status()}
		}

		body := resp.Bytes()
		products, err := ExtractProducts(body)
		if err != nil {
			return err
		}
		page = &ProductPage{
			PageNo:   pageNo,
			Products: products,
			HasNext:  InferHasNext(body, pageNo, pageSize, len(products)),
			Body:     body,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("Fetched %s with %d products (hasNext=%t)", what, len(page.Products), page.HasNext)
	return page, nil
}

// FetchAll pages through a category until a page is empty, maxPages is
// reached (0 means no cap) or no next page is inferred.
func (c *wconceptClient) FetchAll(ctx context.Context, session Session, cat domain.CategoryPair, pageSize, maxPages int) ([]domain.Product, error) {
	if pageSize < 1 {
		pageSize = 1
	}
	if maxPages < 0 {
		maxPages = 0
	}

	collected := make([]domain.Product, 0)
	for pageNo := 1; ; pageNo++ {
		page, err := c.FetchProductPage(ctx, session, cat, pageNo, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", cat, err)
		}
		if len(page.Products) == 0 {
			break
		}
		collected = append(collected, page.Products...)

		if maxPages > 0 && pageNo >= maxPages {
			break
		}
		if !page.HasNext {
			break
		}
	}
	return collected, nil
}

// withRetry runs fn up to MaxRetries times. 4xx responses fail at once;
// other failures wait attempt x RetryBackoff seconds before the next try.
func (c *wconceptClient) withRetry(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	attempts := c.config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		c.rl.Take()

		reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout())
		err := fn(reqCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := time.Duration(attempt*c.config.RetryBackoff) * time.Second
		log.Warnf("🔄 %s failed (attempt %d/%d), retrying in %v: %v", what, attempt, attempts, delay, err)
		if err := c.wait(ctx, delay); err != nil {
			return fmt.Errorf("request cancelled: %w", err)
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}
