package network

import (
	"math/rand"
	"net/url"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/jimezsa/jobber/internal/models"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Client is a Chrome-fingerprinted HTTP client with optional proxy rotation
// and per-host throttling.
type Client struct {
	http       tls_client.HttpClient
	rotator    *Rotator
	limiter    *HostLimiter
	userAgents []string
	rand       *rand.Rand
}

func NewClient(rotator *Rotator, cfg models.BrowserConfig) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	timeout := int(cfg.Timeout.Seconds())
	if timeout <= 0 {
		timeout = 30
	}

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(timeout),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	var limiter *HostLimiter
	if cfg.RequestsPerSecond > 0 {
		limiter = NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Client{
		http:       client,
		rotator:    rotator,
		limiter:    limiter,
		userAgents: append([]string{}, userAgents...),
		rand:       rng,
	}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if c.limiter != nil && req.URL != nil {
		if err := c.limiter.WaitURL(req.Context(), req.URL.String()); err != nil {
			return nil, err
		}
	}

	proxy, _ := c.rotateProxy()
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) rotateProxy() (*url.URL, error) {
	if c.rotator == nil {
		return nil, nil
	}
	proxy, err := c.rotator.Next()
	if err != nil {
		return nil, err
	}

	if proxy != nil {
		_ = c.http.SetProxy(proxy.String())
	}
	return proxy, nil
}

func (c *Client) randomUA() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	return c.userAgents[c.rand.Intn(len(c.userAgents))]
}
