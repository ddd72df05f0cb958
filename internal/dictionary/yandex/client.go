package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"

	"github.com/grisov/quickdict/internal/dictionary"
)

const (
	// ServiceID is the identifier the backend registers under.
	ServiceID = "yandex"

	directURL = "https://dictionary.yandex.net"
	mirrorURL = "https://info.alwaysdata.net"

	lookupPath    = "/api/v1/dicservice.json/lookup"
	languagesPath = "/api/v1/dicservice.json/getLangs"

	// A getLangs response below this size is taken as a broken
	// payload rather than a real catalog shrink.
	minCatalogPairs = 10
)

// Config is the typed per-service configuration.
type Config struct {
	// Token is the dictionary API access key.
	Token string
	// Mirror makes the client try the alternate server first.
	Mirror bool
	// UILang selects the language of attribute labels in responses.
	// Empty means the target language of each query.
	UILang string

	// Overridable in tests.
	DirectURL string
	MirrorURL string
}

// Client talks to the Yandex Dictionary service over its two servers,
// falling through to the next one when a server cannot be reached.
type Client struct {
	config     Config
	httpClient *resty.Client
	requests   atomic.Uint64
}

func New(config Config) *Client {
	if config.DirectURL == "" {
		config.DirectURL = directURL
	}
	if config.MirrorURL == "" {
		config.MirrorURL = mirrorURL
	}
	client := resty.New()
	client.SetHeader("User-Agent", "Mozilla 5.0")
	return &Client{
		config:     config,
		httpClient: client,
	}
}

func (c *Client) ID() string {
	return ServiceID
}

// Fetch looks up the query and normalizes the response into an article.
func (c *Client) Fetch(ctx context.Context, query dictionary.Query) (dictionary.Article, error) {
	uiLang := c.config.UILang
	if uiLang == "" {
		uiLang = query.Target
	}
	body, err := c.get(ctx, lookupPath, map[string]string{
		"key":  c.config.Token,
		"lang": query.Source + "-" + query.Target,
		"text": query.Text,
		"ui":   uiLang,
	})
	if err != nil {
		return dictionary.Article{}, err
	}

	var response lookupResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return dictionary.Article{}, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("json.Unmarshal > %w", err),
		}
	}
	return response.article(), nil
}

// Languages retrieves the list of supported language pairs.
func (c *Client) Languages(ctx context.Context) (*dictionary.Catalog, error) {
	body, err := c.get(ctx, languagesPath, map[string]string{"key": c.config.Token})
	if err != nil {
		return nil, err
	}
	catalog, err := parseLanguages(body)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Usage is not exposed by the Yandex dictionary API.
func (c *Client) Usage(ctx context.Context) (dictionary.Usage, error) {
	return dictionary.Usage{}, dictionary.ErrUsageUnsupported
}

// Requests returns the number of requests answered by the service since
// the client was created.
func (c *Client) Requests() uint64 {
	return c.requests.Load()
}

func (c *Client) servers() []string {
	if c.config.Mirror {
		return []string{c.config.MirrorURL, c.config.DirectURL}
	}
	return []string{c.config.DirectURL, c.config.MirrorURL}
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	var lastErr error
	for _, server := range c.servers() {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(server + path)
		if err != nil {
			lastErr = &dictionary.TransportError{Server: server, Err: err}
			continue
		}
		code := response.StatusCode()
		switch {
		case code == http.StatusOK:
			c.requests.Add(1)
			return response.Body(), nil
		case code == http.StatusUnauthorized ||
			code == http.StatusPaymentRequired ||
			code == http.StatusForbidden:
			// Same token on every server, no point falling through.
			return nil, &dictionary.AuthError{
				StatusCode: code,
				Message:    apiMessage(response.Body()),
			}
		default:
			lastErr = &dictionary.TransportError{
				Server: server,
				Err:    fmt.Errorf("response code %d", code),
			}
		}
	}
	return nil, lastErr
}

func parseLanguages(body []byte) (*dictionary.Catalog, error) {
	var codes []string
	if err := json.Unmarshal(body, &codes); err != nil {
		return nil, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("json.Unmarshal > %w", err),
		}
	}
	if len(codes) <= minCatalogPairs {
		return nil, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("implausibly short language list: %d entries", len(codes)),
		}
	}
	pairs := make([]dictionary.LanguagePair, 0, len(codes))
	for _, code := range codes {
		source, target, ok := strings.Cut(code, "-")
		if !ok {
			continue
		}
		pairs = append(pairs, dictionary.LanguagePair{Source: source, Target: target})
	}
	return dictionary.NewCatalog(pairs), nil
}

func apiMessage(body []byte) string {
	var response lookupResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ""
	}
	return response.Message
}
