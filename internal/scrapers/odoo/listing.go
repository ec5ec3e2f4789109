package odoo

import (
	"bytes"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"odoo-partners/internal/components/telemetry"
	"odoo-partners/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const report_listing_extract_rows = "listing.extract-rows"

var (
	tierRegex     = regexp.MustCompile(`\b(Gold|Silver|Ready)\b`)
	refsRegex     = regexp.MustCompile(`\b(\d+)\s+References?\b`)
	expertsRegex  = regexp.MustCompile(`\b(\d+)\s+Certified Experts?\b`)
	locationRegex = regexp.MustCompile(`%\s+(.+?)\s+Average Project:`)
)

// interface labels that show up as links next to the partner cards
var uiLabels = []string{
	"find best match",
}

func isUiLabel(name string) bool {
	for _, label := range uiLabels {
		if strings.EqualFold(name, label) {
			return true
		}
	}
	return false
}

func isProfileHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseRow classifies the text of a single listing link, it returns false when
// the text does not describe a partner. Fields that are not found are left empty.
func ParseRow(text string) (PartnerRecord, bool) {
	text = htmlutil.CleanText(text)

	tier := tierRegex.FindStringSubmatchIndex(text)
	if tier == nil {
		return PartnerRecord{}, false
	}
	name := strings.TrimSpace(text[:tier[0]])
	if name == "" || isUiLabel(name) {
		return PartnerRecord{}, false
	}

	rec := PartnerRecord{
		Name:             name,
		Tier:             text[tier[2]:tier[3]],
		Location:         strings.Trim(firstGroup(locationRegex, text), " ,"),
		References:       firstGroup(refsRegex, text),
		CertifiedExperts: firstGroup(expertsRegex, text),
	}
	return rec, true
}

// ExtractRows lazily yields a record for every partner link of a listing page
// in document order. Records are not deduplicated.
func ExtractRows(markup []byte, tel telemetry.API) iter.Seq[PartnerRecord] {
	return func(yield func(PartnerRecord) bool) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
		if err != nil {
			tel.ReportBroken(report_listing_extract_rows, fmt.Errorf("parse listing html: %w", err))
			return
		}

		for _, a := range htmlutil.GetAnchors(doc.Selection) {
			if !isProfileHref(a.Href) {
				continue
			}
			rec, ok := ParseRow(a.Name)
			if !ok {
				continue
			}
			rec.ProfileURL = a.Href
			if !yield(rec) {
				return
			}
		}
	}
}
