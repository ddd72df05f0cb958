package lexicala

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/grisov/quickdict/internal/dictionary"
)

const (
	// ServiceID is the identifier the backend registers under.
	ServiceID = "lexicala"

	baseURL      = "https://lexicala1.p.rapidapi.com"
	rapidAPIHost = "lexicala1.p.rapidapi.com"

	searchPath    = "/search"
	languagesPath = "/languages"
	testPath      = "/test"

	// A languages response with fewer resources than this is taken as
	// a broken payload.
	minResources = 3

	defaultRetryAttempts = 2
)

// Config is the typed per-service configuration.
type Config struct {
	// Key is the RapidAPI subscription key.
	Key string
	// Section is the dictionary section searched: global, password or random.
	Section string
	// Morph searches inflections as well as headwords.
	Morph bool
	// Analyzed strips words to their stem and ignores diacritics and case.
	Analyzed bool
	// RetryAttempts bounds extra attempts for transient failures.
	RetryAttempts uint

	// Overridable in tests.
	BaseURL string
}

// Client talks to the Lexicala dictionary on the RapidAPI gateway.
// Transient failures (network errors, 5xx) are retried with backoff;
// everything else surfaces immediately.
type Client struct {
	config     Config
	httpClient *resty.Client
}

func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = baseURL
	}
	if config.Section == "" {
		config.Section = "global"
	}
	if config.RetryAttempts == 0 {
		config.RetryAttempts = defaultRetryAttempts
	}
	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetHeader("X-RapidAPI-Host", rapidAPIHost)
	client.SetHeader("X-RapidAPI-Key", config.Key)
	client.SetHeader("User-Agent", "Mozilla 5.0")
	return &Client{
		config:     config,
		httpClient: client,
	}
}

func (c *Client) ID() string {
	return ServiceID
}

// Fetch searches the configured section and normalizes the response.
func (c *Client) Fetch(ctx context.Context, query dictionary.Query) (dictionary.Article, error) {
	response, err := c.get(ctx, searchPath, map[string]string{
		"source":   c.config.Section,
		"language": query.Source,
		"text":     query.Text,
		"morph":    strconv.FormatBool(c.config.Morph),
		"analyzed": strconv.FormatBool(c.config.Analyzed),
	})
	if err != nil {
		return dictionary.Article{}, err
	}

	var search searchResponse
	if err := json.Unmarshal(response.Body(), &search); err != nil {
		return dictionary.Article{}, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("json.Unmarshal > %w", err),
		}
	}
	return search.article(query.Target), nil
}

// Languages builds the catalog for the configured section from the
// service's language lists.
func (c *Client) Languages(ctx context.Context) (*dictionary.Catalog, error) {
	response, err := c.get(ctx, languagesPath, nil)
	if err != nil {
		return nil, err
	}
	return parseLanguages(response.Body(), c.config.Section)
}

// Usage reads the request quota from the rate-limit headers of the test
// endpoint, which is free and does not count against the quota itself.
func (c *Client) Usage(ctx context.Context) (dictionary.Usage, error) {
	response, err := c.get(ctx, testPath, nil)
	if err != nil {
		return dictionary.Usage{}, err
	}
	quota, _ := strconv.Atoi(response.Header().Get("X-RateLimit-Requests-Limit"))
	remaining, _ := strconv.Atoi(response.Header().Get("X-RateLimit-Requests-Remaining"))
	return dictionary.Usage{
		Quota:     quota,
		Remaining: remaining,
		Section:   c.config.Section,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) (*resty.Response, error) {
	var response *resty.Response
	err := retry.Do(
		func() error {
			res, err := c.httpClient.R().
				SetContext(ctx).
				SetQueryParams(params).
				Get(path)
			if err != nil {
				return &dictionary.TransportError{Server: c.config.BaseURL, Err: err}
			}
			switch code := res.StatusCode(); {
			case code == http.StatusOK:
				response = res
				return nil
			case code == http.StatusUnauthorized || code == http.StatusForbidden:
				return retry.Unrecoverable(&dictionary.AuthError{StatusCode: code})
			case code == http.StatusTooManyRequests:
				return retry.Unrecoverable(&dictionary.AuthError{
					StatusCode: code,
					Message:    "the number of allowed queries to the dictionary is exhausted",
				})
			case code >= http.StatusInternalServerError:
				return &dictionary.TransportError{
					Server: c.config.BaseURL,
					Err:    fmt.Errorf("response code %d", code),
				}
			default:
				return retry.Unrecoverable(&dictionary.TransportError{
					Server: c.config.BaseURL,
					Err:    fmt.Errorf("response code %d", code),
				})
			}
		},
		retry.Context(ctx),
		retry.Attempts(c.config.RetryAttempts+1),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return response, nil
}

type languagesResponse struct {
	Resources map[string]resource `json:"resources"`
}

type resource struct {
	SourceLanguages []string `json:"source_languages"`
	TargetLanguages []string `json:"target_languages"`
}

func parseLanguages(body []byte, section string) (*dictionary.Catalog, error) {
	var response languagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("json.Unmarshal > %w", err),
		}
	}
	if len(response.Resources) < minResources {
		return nil, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("implausibly short resource list: %d entries", len(response.Resources)),
		}
	}
	res, ok := response.Resources[section]
	if !ok {
		return nil, &dictionary.MalformedResponseError{
			Err: fmt.Errorf("unknown dictionary section %q", section),
		}
	}
	pairs := make([]dictionary.LanguagePair, 0, len(res.SourceLanguages)*len(res.TargetLanguages))
	for _, source := range res.SourceLanguages {
		for _, target := range res.TargetLanguages {
			pairs = append(pairs, dictionary.LanguagePair{Source: source, Target: target})
		}
	}
	return dictionary.NewCatalog(pairs), nil
}
