package odoo

import (
	"context"
	"fmt"
	"time"

	"odoo-partners/internal/components/assert"
	"odoo-partners/internal/components/chrono"
	"odoo-partners/internal/components/telemetry"
	"odoo-partners/internal/industry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_scraper_page     = "scraper.page"
	report_scraper_pages    = "scraper.pages"
	report_scraper_failed   = "scraper.failed-pages"
	report_scraper_records  = "scraper.records"
	report_scraper_profiles = "scraper.failed-profiles"
)

var tracer = otel.Tracer("odoo-partners/scrapers/odoo")

type Options struct {
	Client     ClientOptions
	Vocabulary industry.Vocabulary
	// PageDelay is waited after every listing page but the last.
	PageDelay time.Duration
	Profiles  EnricherOptions
}

// Result is the output of a single run, Records are in page order and then in
// document order within a page.
type Result struct {
	Records        []PartnerRecord
	Pages          int
	FailedPages    int
	ProfileFetches int
	FailedProfiles int
}

// Scraper walks a range of listing pages and enriches every partner found.
type Scraper struct {
	client   *Client
	enricher *Enricher
	clock    chrono.API
	tel      telemetry.API
	delay    time.Duration
}

func NewScraper(opts Options, clock chrono.API, tel telemetry.API) (*Scraper, error) {
	assert.NotNil(clock)
	assert.NotNil(tel)
	if opts.PageDelay < 0 || opts.Profiles.Delay < 0 {
		return nil, fmt.Errorf("delays must be >= 0")
	}
	if opts.Vocabulary.Len() == 0 {
		opts.Vocabulary = industry.Default
	}

	tel = telemetry.NewScopedAPI("odoo", tel)
	client, err := NewClient(opts.Client, tel)
	if err != nil {
		return nil, err
	}
	return &Scraper{
		client:   client,
		enricher: NewEnricher(client, opts.Vocabulary, opts.Profiles, clock, tel),
		clock:    clock,
		tel:      tel,
		delay:    opts.PageDelay,
	}, nil
}

// Run scrapes every page of `pages` in order. A page that cannot be fetched is
// reported and skipped, only an invalid range or a cancelled ctx fail the run.
func (s *Scraper) Run(ctx context.Context, pages PageRange) (Result, error) {
	if err := pages.Validate(); err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "Scraper.Run", trace.WithAttributes(
		attribute.Int("pages.start", pages.Start),
		attribute.Int("pages.end", pages.End),
	))
	defer span.End()

	var result Result
	for page := pages.Start; page <= pages.End; page++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return result, err
		}

		records, err := s.scrapePage(ctx, page)
		result.Pages++
		if err != nil {
			result.FailedPages++
			s.tel.ReportWarning(report_scraper_page, page, err)
		}
		result.Records = append(result.Records, records...)

		s.tel.ReportCount(report_scraper_pages, int64(result.Pages))
		s.tel.ReportCount(report_scraper_records, int64(len(result.Records)))

		if page < pages.End {
			if err := s.clock.Sleep(ctx, s.delay); err != nil {
				span.SetStatus(codes.Error, "cancelled")
				return result, err
			}
		}
	}

	result.ProfileFetches = s.enricher.Fetches()
	result.FailedProfiles = s.enricher.Failed()
	s.tel.ReportCount(report_scraper_failed, int64(result.FailedPages))
	s.tel.ReportCount(report_scraper_profiles, int64(result.FailedProfiles))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Scraper) scrapePage(ctx context.Context, page int) ([]PartnerRecord, error) {
	ctx, span := tracer.Start(ctx, "Scraper.scrapePage", trace.WithAttributes(
		attribute.Int("page", page),
	))
	defer span.End()

	markup, err := s.client.FetchListing(ctx, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch listing")
		return nil, err
	}

	var records []PartnerRecord
	for rec := range ExtractRows(markup, s.tel) {
		if ctx.Err() != nil {
			break
		}
		records = append(records, s.enricher.Enrich(ctx, rec))
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}
