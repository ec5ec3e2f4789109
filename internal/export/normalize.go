// Package export turns partner records into a rectangular table and writes it
// as CSV and XLSX.
package export

import (
	"strconv"

	"odoo-partners/internal/industry"
	"odoo-partners/internal/scrapers/odoo"
)

const DefaultValue = "0"

// the columns before the RI_* columns, in order
var baseColumns = []string{
	"Partner Name",
	"Tier",
	"Location",
	"References",
	"Certified Experts",
	"Profile URL",
	"Certified Versions",
	"References Total",
	"Customer Retention %",
	"Largest Reference Users",
	"Average Reference Users",
	"Reference Industries",
}

// Table is a header and rows of the same width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the values of the column called `name`, or nil if there is none.
func (t Table) Column(name string) []string {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Normalizer maps records onto the export schema, absent values become Default.
type Normalizer struct {
	Vocabulary industry.Vocabulary
	Default    string
}

func NewNormalizer(vocab industry.Vocabulary) Normalizer {
	return Normalizer{Vocabulary: vocab, Default: DefaultValue}
}

func (n Normalizer) Header() []string {
	header := make([]string, 0, len(baseColumns)+n.Vocabulary.Len())
	header = append(header, baseColumns...)
	return append(header, n.Vocabulary.Columns()...)
}

func (n Normalizer) orDefault(s string) string {
	if s == "" {
		return n.Default
	}
	return s
}

func (n Normalizer) intOrDefault(v *int) string {
	if v == nil {
		return n.Default
	}
	return strconv.Itoa(*v)
}

func (n Normalizer) row(rec odoo.PartnerRecord) []string {
	row := []string{
		n.orDefault(rec.Name),
		n.orDefault(rec.Tier),
		n.orDefault(rec.Location),
		n.orDefault(rec.References),
		n.orDefault(rec.CertifiedExperts),
		n.orDefault(rec.ProfileURL),
	}

	var profile odoo.Profile
	if rec.Profile != nil {
		profile = *rec.Profile
	}
	row = append(row,
		n.orDefault(odoo.FormatVersions(profile.CertifiedVersions)),
		n.intOrDefault(profile.ReferencesTotal),
		n.intOrDefault(profile.CustomerRetention),
		n.intOrDefault(profile.LargestReferenceUsers),
		n.intOrDefault(profile.AverageReferenceUsers),
		n.orDefault(industry.Format(profile.ReferenceIndustries)),
	)
	return append(row, n.Vocabulary.Indicators(profile.ReferenceIndustries)...)
}

// Normalize returns one row per record in record order, records are not deduplicated.
func (n Normalizer) Normalize(records []odoo.PartnerRecord) Table {
	t := Table{
		Header: n.Header(),
		Rows:   make([][]string, len(records)),
	}
	for i, rec := range records {
		t.Rows[i] = n.row(rec)
	}
	return t
}
