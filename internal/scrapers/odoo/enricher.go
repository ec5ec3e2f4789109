package odoo

import (
	"context"
	"errors"
	"time"

	"odoo-partners/internal/components/assert"
	"odoo-partners/internal/components/chrono"
	"odoo-partners/internal/components/telemetry"
	"odoo-partners/internal/industry"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	report_enricher_resolve = "enricher.resolve"
	report_enricher_fetch   = "enricher.fetch"
	report_enricher_parse   = "enricher.parse"
)

type EnricherOptions struct {
	// Delay is waited between two profile fetches.
	Delay time.Duration
	// CacheSize is the number of profiles remembered by url, 0 disables the cache.
	CacheSize int
}

// Enricher fills the profile fields of partner records, it is not safe for
// concurrent use.
type Enricher struct {
	client *Client
	vocab  industry.Vocabulary
	clock  chrono.API
	tel    telemetry.API
	delay  time.Duration

	// failed lookups are kept as nil so they are not retried
	memo    *expirable.LRU[string, *Profile]
	fetches int
	failed  int
}

func NewEnricher(
	client *Client,
	vocab industry.Vocabulary,
	opts EnricherOptions,
	clock chrono.API,
	tel telemetry.API,
) *Enricher {
	assert.NotNil(client)
	assert.NotNil(clock)
	assert.NotNil(tel)
	assert.NotNegative(opts.CacheSize)

	e := &Enricher{
		client: client,
		vocab:  vocab,
		clock:  clock,
		tel:    tel,
		delay:  opts.Delay,
	}
	if opts.CacheSize > 0 {
		e.memo = expirable.NewLRU[string, *Profile](opts.CacheSize, nil, 0)
	}
	return e
}

// Fetches is the number of profile pages requested so far.
func (e *Enricher) Fetches() int {
	return e.fetches
}

// Failed is the number of profile lookups that did not produce a profile.
func (e *Enricher) Failed() int {
	return e.failed
}

func (e *Enricher) lookup(link string) (*Profile, bool) {
	if e.memo == nil {
		return nil, false
	}
	return e.memo.Get(link)
}

func (e *Enricher) remember(link string, p *Profile) {
	if e.memo != nil {
		e.memo.Add(link, p)
	}
}

func (e *Enricher) fetch(ctx context.Context, link string) (*Profile, error) {
	if e.fetches > 0 {
		if err := e.clock.Sleep(ctx, e.delay); err != nil {
			return nil, err
		}
	}
	e.fetches++

	body, err := e.client.FetchProfile(ctx, link)
	if err != nil {
		e.tel.ReportWarning(report_enricher_fetch, link, err)
		return nil, err
	}
	profile, err := ParseProfile(body, e.vocab)
	if err != nil {
		e.tel.ReportWarning(report_enricher_parse, link, err)
		return nil, err
	}
	return &profile, nil
}

// Enrich returns `rec` with an absolute profile url and its profile fields.
// Failures never fail the record, they leave Profile nil.
func (e *Enricher) Enrich(ctx context.Context, rec PartnerRecord) PartnerRecord {
	if rec.ProfileURL == "" {
		return rec
	}
	link, err := e.client.ResolveUrl(rec.ProfileURL)
	if err != nil {
		e.tel.ReportWarning(report_enricher_resolve, rec.Name, err)
		e.failed++
		return rec
	}
	rec.ProfileURL = link

	if profile, ok := e.lookup(link); ok {
		if profile == nil {
			e.failed++
		}
		rec.Profile = profile
		return rec
	}

	profile, err := e.fetch(ctx, link)
	if err != nil {
		e.failed++
		// a cancelled run says nothing about the profile itself
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			e.remember(link, nil)
		}
		return rec
	}
	e.remember(link, profile)
	rec.Profile = profile
	return rec
}
