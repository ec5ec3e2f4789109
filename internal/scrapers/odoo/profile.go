package odoo

import (
	"bytes"
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"odoo-partners/internal/industry"
	"odoo-partners/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	certifiedRegex = regexp.MustCompile(`(?i)\b(\d+)\s+Certified\s+v(\d+)\b`)
	refsTotalRegex = regexp.MustCompile(`(?i)\bReferences\s*-\s*(\d+)\b`)
	retentionRegex = regexp.MustCompile(`(?i)\bCustomer\s+Retention\b.*?\b(\d{1,3})\b`)
	largestRegex   = regexp.MustCompile(`(?i)\bReferences\s+Sizes\b.*?\bLargest:\s*~?\s*(\d+)\s*\+?\s*users?\b`)
	averageRegex   = regexp.MustCompile(`(?i)\bReferences\s+Sizes\b.*?\bAverage:\s*~?\s*(\d+)\s*\+?\s*users?\b`)

	// anything that can follow the industries block of the references section
	industriesStopRegex = regexp.MustCompile(
		`(?i)\bReferences\s+Sizes\b|\bCustomer\s+Retention\b|\bCertified\s+Experts?\b|` +
			`\bAverage\s+Project\b|\bIndustries\b|\bAbout\b|\bGold\b|\bSilver\b|\bReady\b`,
	)
)

// ProfileText is the whitespace normalized text of a profile page.
func ProfileText(markup []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return "", fmt.Errorf("parse profile html: %w", err)
	}
	return htmlutil.SelectionText(doc.Selection), nil
}

// ParseProfile extracts every profile field from the markup of a profile page.
func ParseProfile(markup []byte, vocab industry.Vocabulary) (Profile, error) {
	text, err := ProfileText(markup)
	if err != nil {
		return Profile{}, err
	}
	return ParseProfileText(text, vocab), nil
}

func intGroup(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func ParseProfileText(text string, vocab industry.Vocabulary) Profile {
	p := Profile{
		CertifiedVersions:     certifiedVersions(text),
		CustomerRetention:     intGroup(retentionRegex, text),
		LargestReferenceUsers: intGroup(largestRegex, text),
		AverageReferenceUsers: intGroup(averageRegex, text),
	}

	total := refsTotalRegex.FindStringSubmatchIndex(text)
	if total == nil {
		return p
	}
	if n, err := strconv.Atoi(text[total[2]:total[3]]); err == nil {
		p.ReferencesTotal = &n
	}

	block := text[total[1]:]
	if stop := industriesStopRegex.FindStringIndex(block); stop != nil {
		block = block[:stop[0]]
	}
	if counts := vocab.ExtractCounts(strings.TrimSpace(block)); len(counts) > 0 {
		p.ReferenceIndustries = counts
	}
	return p
}

// certifiedVersions sums the expert counts per version, highest version first.
func certifiedVersions(text string) []VersionCount {
	sums := map[int]int{}
	for _, m := range certifiedRegex.FindAllStringSubmatch(text, -1) {
		count, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		version, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		sums[version] += count
	}
	if len(sums) == 0 {
		return nil
	}

	out := make([]VersionCount, 0, len(sums))
	for version, count := range sums {
		out = append(out, VersionCount{Version: version, Count: count})
	}
	slices.SortFunc(out, func(a, b VersionCount) int {
		return cmp.Compare(b.Version, a.Version)
	})
	return out
}
