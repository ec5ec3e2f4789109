package odoo

import (
	"fmt"
	"strings"

	"odoo-partners/internal/industry"
)

// PartnerRecord is one partner of the directory.
//
// The listing fields are empty strings when a listing row does not contain them.
// Profile is nil when the profile page could not be fetched or parsed.
type PartnerRecord struct {
	Name             string
	Tier             string
	Location         string
	References       string
	CertifiedExperts string
	ProfileURL       string

	Profile *Profile
}

// Profile holds the fields found on a partner's profile page, a nil pointer or
// slice means the field was not found.
type Profile struct {
	CertifiedVersions     []VersionCount
	ReferencesTotal       *int
	CustomerRetention     *int
	LargestReferenceUsers *int
	AverageReferenceUsers *int
	ReferenceIndustries   []industry.Count
}

// VersionCount is the number of experts certified for one Odoo version.
type VersionCount struct {
	Version int
	Count   int
}

// FormatVersions renders versions as "v19:1; v18:4".
func FormatVersions(versions []VersionCount) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = fmt.Sprintf("v%d:%d", v.Version, v.Count)
	}
	return strings.Join(parts, "; ")
}

// PageRange is an inclusive range of listing pages.
type PageRange struct {
	Start int
	End   int
}

func (r PageRange) Validate() error {
	if r.Start < 1 {
		return fmt.Errorf("page range: start must be >= 1, got %d", r.Start)
	}
	if r.End < r.Start {
		return fmt.Errorf("page range: end (%d) must be >= start (%d)", r.End, r.Start)
	}
	return nil
}
