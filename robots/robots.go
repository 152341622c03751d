// Package robots decides whether a URL may be fetched according to the
// robots.txt of its origin.
package robots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"github.com/use-agent/sitecompare/cache"
	"github.com/use-agent/sitecompare/engine"
)

// DefaultAgent is matched against robots.txt groups when none is set.
const DefaultAgent = "*"

// Checker fetches and evaluates robots.txt files. It fails closed: any
// error fetching or parsing the policy means the URL is not allowed.
type Checker struct {
	engine  engine.Engine
	agent   string
	timeout time.Duration
	cache   *cache.Cache[*robotstxt.RobotsData]
}

// Option configures a Checker.
type Option func(*Checker)

// WithCache reuses parsed policies across calls. Only successfully parsed
// policies are cached; failures are retried on the next call.
func WithCache(c *cache.Cache[*robotstxt.RobotsData]) Option {
	return func(ch *Checker) { ch.cache = c }
}

// NewChecker creates a Checker. An empty agent means DefaultAgent; a zero
// timeout leaves the robots.txt fetch bounded only by the context.
func NewChecker(e engine.Engine, agent string, timeout time.Duration, opts ...Option) *Checker {
	if agent == "" {
		agent = DefaultAgent
	}
	c := &Checker{engine: e, agent: agent, timeout: timeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Allowed reports whether rawURL may be fetched.
func (c *Checker) Allowed(ctx context.Context, rawURL string) bool {
	return c.AllowedAll(ctx, []string{rawURL})[0]
}

// AllowedAll evaluates every URL, fetching each origin's robots.txt once.
// The result is index-aligned with urls.
func (c *Checker) AllowedAll(ctx context.Context, urls []string) []bool {
	allowed := make([]bool, len(urls))
	policies := make(map[string]*robotstxt.RobotsData)

	for i, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			slog.Warn("robots: unparseable url", "url", raw, "error", err)
			continue
		}
		origin := u.Scheme + "://" + u.Host

		data, seen := policies[origin]
		if !seen {
			data = c.policy(ctx, origin)
			policies[origin] = data
		}
		if data == nil {
			continue
		}

		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		allowed[i] = data.TestAgent(path, c.agent)
	}
	return allowed
}

// policy returns the parsed robots.txt of origin, or nil when it is
// unavailable.
func (c *Checker) policy(ctx context.Context, origin string) *robotstxt.RobotsData {
	if c.cache != nil {
		if data, ok := c.cache.Get(origin); ok {
			return data
		}
	}
	data, err := c.fetch(ctx, origin)
	if err != nil {
		slog.Warn("robots: policy unavailable, denying", "origin", origin, "error", err)
		return nil
	}
	if c.cache != nil {
		c.cache.Set(origin, data)
	}
	return data
}

var errAuthRequired = errors.New("robots.txt requires authorization")

func (c *Checker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	res, err := c.engine.Fetch(ctx, &engine.FetchRequest{
		URL:     origin + "/robots.txt",
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("robots: fetch: %w", err)
	}
	// A protected policy file is treated as a full disallow.
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return nil, errAuthRequired
	}
	data, err := robotstxt.FromStatusAndBytes(res.StatusCode, res.Body)
	if err != nil {
		return nil, fmt.Errorf("robots: parse: %w", err)
	}
	return data, nil
}
