// client.go contains the http side of scraping the partner directory, it does
// not know anything about the layout of the pages it fetches.

package odoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"odoo-partners/internal/components/assert"
	"odoo-partners/internal/components/telemetry"
	"odoo-partners/pkg/restyutil"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_listing = "client.fetch-listing"
	report_client_fetch_profile = "client.fetch-profile"
)

const (
	DefaultBaseUrl    = "https://www.odoo.com"
	DefaultListingUrl = "https://www.odoo.com/partners/page/%d?country_all=True"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Url    string
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s: http status %d", e.Url, e.Status)
}

type ClientOptions struct {
	// BaseUrl is what relative profile links are resolved against.
	BaseUrl string
	// ListingUrl is a format string with a single %d for the page number.
	ListingUrl string
	// MaxRequestsPerSecond caps every request made by the client, 0 is unlimited.
	MaxRequestsPerSecond float64
	Timeout              time.Duration
	// Dump receives every http exchange when set.
	Dump restyutil.Output
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.ListingUrl == "" {
		o.ListingUrl = DefaultListingUrl
	}
	if o.Timeout == 0 {
		o.Timeout = time.Second * 30
	}
	return o
}

// Client fetches listing and profile pages.
type Client struct {
	baseUrl    *url.URL
	listingUrl string
	http       *resty.Client
	tel        telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	opts = opts.withDefaults()

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !baseUrl.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseUrl)
	}
	if strings.Count(opts.ListingUrl, "%d") != 1 {
		return nil, fmt.Errorf("listing url must contain exactly one %%d: %q", opts.ListingUrl)
	}
	if opts.MaxRequestsPerSecond < 0 {
		return nil, fmt.Errorf("max requests per second must be >= 0, got %v", opts.MaxRequestsPerSecond)
	}

	httpClient := resty.New()
	httpClient.SetHeaders(map[string]string{
		"user-agent":      DefaultUserAgent,
		"accept-language": "en-US,en;q=0.9",
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	httpClient.SetTimeout(opts.Timeout)

	if opts.MaxRequestsPerSecond > 0 {
		// burst of 1 keeps requests evenly spaced
		rateLimiter := rate.NewLimiter(rate.Limit(opts.MaxRequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, "odoo-partners/scrapers/odoo", tel)
	if opts.Dump != nil {
		restyutil.Dump(httpClient, opts.Dump)
	}

	return &Client{
		baseUrl:    baseUrl,
		listingUrl: opts.ListingUrl,
		http:       httpClient,
		tel:        tel,
	}, nil
}

func (c *Client) get(ctx context.Context, link string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", link, err)
	}
	if !res.IsSuccess() {
		return nil, StatusError{Url: link, Status: res.StatusCode()}
	}
	return res.Body(), nil
}

// ListingUrl returns the address of a listing page.
func (c *Client) ListingUrl(page int) string {
	return fmt.Sprintf(c.listingUrl, page)
}

// FetchListing returns the markup of one listing page, pages start at 1.
func (c *Client) FetchListing(ctx context.Context, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("listing page must be >= 1, got %d", page)
	}
	body, err := c.get(ctx, c.ListingUrl(page))
	if err != nil {
		c.tel.ReportDebug(report_client_fetch_listing, page, err)
		return nil, err
	}
	return body, nil
}

// FetchProfile returns the markup of a profile page, `link` should already be absolute.
func (c *Client) FetchProfile(ctx context.Context, link string) ([]byte, error) {
	body, err := c.get(ctx, link)
	if err != nil {
		c.tel.ReportDebug(report_client_fetch_profile, link, err)
		return nil, err
	}
	return body, nil
}

// ResolveUrl resolves `href` against the base url.
func (c *Client) ResolveUrl(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse profile url %q: %w", href, err)
	}
	return c.baseUrl.ResolveReference(ref).String(), nil
}
