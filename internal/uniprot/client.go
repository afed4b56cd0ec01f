// Package uniprot looks up curated function comments in the UniProtKB REST API.
package uniprot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"protannot/internal/annotate"
	"protannot/internal/retry"
)

const (
	DefaultBaseURL = "https://rest.uniprot.org"

	// DefaultRequestTimeout bounds one HTTP attempt when New builds the client.
	DefaultRequestTimeout = 60 * time.Second

	// maxBody bounds how much of an entry is decoded; function-only
	// responses are a few KiB.
	maxBody = 8 << 20
)

type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64 // <= 0 disables throttling
	Burst             int
	Retry             retry.Config
	RequestTimeout    time.Duration // per HTTP attempt; <= 0 uses DefaultRequestTimeout
}

// Client implements annotate.Lookup. It is safe for concurrent use.
type Client struct {
	base    string
	ua      string
	http    *http.Client
	limiter *rate.Limiter
	retry   retry.Config
}

// New builds a Client. A nil httpClient gets a client bounded by
// cfg.RequestTimeout, so a stalled connection fails even when the caller's
// context has no deadline.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		base:    base,
		ua:      cfg.UserAgent,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		retry:   cfg.Retry,
	}
}

// entry is the subset of a UniProtKB JSON entry we read.
type entry struct {
	Comments []struct {
		CommentType string `json:"commentType"`
		Texts       []struct {
			Value string `json:"value"`
		} `json:"texts"`
	} `json:"comments"`
}

func (e entry) functionComments() []string {
	var out []string
	for _, c := range e.Comments {
		if c.CommentType != "FUNCTION" {
			continue
		}
		for _, t := range c.Texts {
			if strings.TrimSpace(t.Value) != "" {
				out = append(out, t.Value)
			}
		}
	}
	return out
}

// Lookup fetches the FUNCTION comments of accession.
//
//	200 with comments      → OutcomeFound
//	200 without comments   → OutcomeNotFound
//	400, 404, 410          → OutcomeNotFound (entry absent)
//	429, 5xx, network      → retried, then *annotate.TransportError
//	other statuses         → *annotate.TransportError, no retry
func (c *Client) Lookup(ctx context.Context, accession string) (annotate.LookupResult, error) {
	var res annotate.LookupResult
	err := retry.Do(ctx, c.retry, func(int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait refuses up front when the next token lands past ctx's
			// deadline; report that as the deadline it is.
			if ctx.Err() == nil {
				if _, ok := ctx.Deadline(); ok {
					err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
				}
			}
			return retry.Permanent(&annotate.TransportError{Accession: accession, Err: err})
		}
		r, err := c.fetch(ctx, accession)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		if !errors.Is(err, annotate.ErrTransport) {
			err = &annotate.TransportError{Accession: accession, Err: err}
		}
		return annotate.LookupResult{}, err
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, accession string) (annotate.LookupResult, error) {
	u := fmt.Sprintf("%s/uniprotkb/%s.json?fields=cc_function", c.base, url.PathEscape(accession))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return annotate.LookupResult{}, retry.Permanent(&annotate.TransportError{Accession: accession, Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		te := &annotate.TransportError{Accession: accession, Err: err}
		if ctx.Err() != nil {
			return annotate.LookupResult{}, retry.Permanent(te)
		}
		return annotate.LookupResult{}, te
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		_ = resp.Body.Close()
	}()

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		var e entry
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&e); err != nil {
			return annotate.LookupResult{}, retry.Permanent(&annotate.TransportError{
				Accession: accession, Status: code, Err: fmt.Errorf("decode entry: %w", err),
			})
		}
		if comments := e.functionComments(); len(comments) > 0 {
			return annotate.Found(comments...), nil
		}
		return annotate.NotFound("no function comment"), nil

	case code == http.StatusBadRequest, code == http.StatusNotFound, code == http.StatusGone:
		return annotate.NotFound(fmt.Sprintf("entry absent (HTTP %d)", code)), nil

	case code == http.StatusTooManyRequests, code >= 500:
		return annotate.LookupResult{}, &annotate.TransportError{
			Accession: accession, Status: code, Err: errors.New(http.StatusText(code)),
		}

	default:
		return annotate.LookupResult{}, retry.Permanent(&annotate.TransportError{
			Accession: accession, Status: code, Err: errors.New(http.StatusText(code)),
		})
	}
}
