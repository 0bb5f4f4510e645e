// Package feed provides the HTTP client for the remote newsletter API,
// with retry, error classification, and cursor pagination.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	paging "github.com/nrfta/paging-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
	"github.com/zapidan/newsletter-hub-sub011/internal/logging"
)

// Prometheus metrics for API operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsletter_api_requests_total",
		Help: "Total API requests by status",
	}, []string{"status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsletter_api_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsletter_api_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})
)

const newslettersEndpoint = "/v1/newsletters"

// Client fetches newsletter pages from the remote API. It implements Fetcher.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.newsletterhub.app".
	BaseURL string

	// Token is the bearer token for authenticated requests; empty for none.
	Token string

	// Timeout applies per HTTP request.
	Timeout time.Duration

	// Retry controls backoff for retriable failures.
	Retry RetryConfig
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logging.NewLogger("feed-client"),
	}, nil
}

// pageResponse is the wire format of a newsletters page.
type pageResponse struct {
	Items       []itemResponse `json:"items"`
	HasNextPage bool           `json:"has_next_page"`
	TotalCount  *int           `json:"total_count,omitempty"`
}

type itemResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SourceName string    `json:"source_name"`
	Author     string    `json:"author,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Content    string    `json:"content,omitempty"`
	URL        string    `json:"url,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
	Read       bool      `json:"read"`
	Archived   bool      `json:"archived"`
}

// FetchPage retrieves one page of the collection identified by query,
// resuming at args.After. Retriable failures (5xx, 429, network) are
// retried with backoff; the page is returned exactly as the server sent
// it, in response order.
func (c *Client) FetchPage(ctx context.Context, query domain.FilterSort, args *paging.PageArgs) (*Page, error) {
	requestID := uuid.NewString()
	logger := c.logger.With().Str("request_id", requestID).Logger()

	reqURL, err := c.pageURL(query, args)
	if err != nil {
		return nil, fmt.Errorf("build page url: %w", err)
	}

	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(newslettersEndpoint).Observe(time.Since(start).Seconds())
	}()

	var page *Page
	retryErr := retryWithBackoff(ctx, c.config.Retry, func() (ErrorClass, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if reqErr != nil {
			return ErrorClassClient, reqErr
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if c.config.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.Token)
		}

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			logger.Warn().Err(doErr).Msg("http request failed")
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues("network_error").Inc()
			return ErrorClassNetwork, doErr
		}
		defer resp.Body.Close()

		apiRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			apiErrorsTotal.WithLabelValues(string(class)).Inc()
			logger.Warn().
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("api request error")
			return class, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: class,
				Message:    resp.Status,
			}
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return ErrorClassNetwork, fmt.Errorf("read response: %w", readErr)
		}

		var wire pageResponse
		if unmarshalErr := json.Unmarshal(body, &wire); unmarshalErr != nil {
			// A malformed body is not retriable
			return ErrorClassClient, fmt.Errorf("decode response: %w", unmarshalErr)
		}

		page = wire.toPage()
		return "", nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	logger.Debug().
		Int("items", len(page.Items)).
		Bool("has_next_page", page.HasNextPage).
		Dur("duration", time.Since(start)).
		Msg("page fetched")

	return page, nil
}

// pageURL builds the request URL from the query and pagination arguments.
func (c *Client) pageURL(query domain.FilterSort, args *paging.PageArgs) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", err
	}
	base.Path, err = url.JoinPath(base.Path, newslettersEndpoint)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("filter", string(query.Filter))
	params.Set("sort", string(query.SortBy))
	params.Set("desc", strconv.FormatBool(query.Desc))
	if args != nil {
		if args.First != nil {
			params.Set("first", strconv.Itoa(*args.First))
		}
		if args.After != nil && *args.After != "" {
			params.Set("after", *args.After)
		}
	}

	base.RawQuery = params.Encode()
	return base.String(), nil
}

func (w pageResponse) toPage() *Page {
	items := make([]domain.Newsletter, 0, len(w.Items))
	for _, item := range w.Items {
		items = append(items, domain.Newsletter{
			ID:         item.ID,
			Title:      item.Title,
			SourceName: item.SourceName,
			Author:     item.Author,
			Summary:    item.Summary,
			Content:    item.Content,
			URL:        item.URL,
			ReceivedAt: item.ReceivedAt,
			Read:       item.Read,
			Archived:   item.Archived,
		})
	}
	return &Page{
		Items:       items,
		HasNextPage: w.HasNextPage,
		TotalCount:  w.TotalCount,
	}
}

// classifyStatus categorizes an HTTP status for retry and observability.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
