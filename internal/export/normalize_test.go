package export

import (
	"testing"

	"odoo-partners/internal/industry"
	"odoo-partners/internal/scrapers/odoo"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

var testVocabulary = industry.MustVocabulary("Education", "Manufacturing", "Retail")

func TestNormalizeHeader(t *testing.T) {
	header := NewNormalizer(testVocabulary).Header()
	expected := []string{
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
		"RI_Education",
		"RI_Manufacturing",
		"RI_Retail",
	}
	if diff := cmp.Diff(expected, header); diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, NewNormalizer(industry.Default).Header(), len(baseColumns)+22)
}

func TestNormalize(t *testing.T) {
	records := []odoo.PartnerRecord{
		{
			Name:             "Acme",
			Tier:             "Gold",
			Location:         "Berlin, Germany",
			References:       "12",
			CertifiedExperts: "3",
			ProfileURL:       "https://www.odoo.com/partners/acme-1",
			Profile: &odoo.Profile{
				CertifiedVersions: []odoo.VersionCount{
					{Version: 19, Count: 1},
					{Version: 18, Count: 4},
				},
				ReferencesTotal:       intPtr(14),
				CustomerRetention:     intPtr(87),
				LargestReferenceUsers: intPtr(250),
				ReferenceIndustries: []industry.Count{
					{Industry: "Manufacturing", Count: 5},
					{Industry: "Retail", Count: 2},
				},
			},
		},
		{
			Name:       "Beta",
			Tier:       "Silver",
			References: "1",
			ProfileURL: "https://www.odoo.com/partners/beta-2",
		},
		{
			Name:       "Gamma",
			Tier:       "Ready",
			Location:   "Lyon",
			ProfileURL: "https://www.odoo.com/partners/gamma-3",
			Profile:    &odoo.Profile{},
		},
	}

	table := NewNormalizer(testVocabulary).Normalize(records)
	expected := [][]string{
		{
			"Acme", "Gold", "Berlin, Germany", "12", "3", "https://www.odoo.com/partners/acme-1",
			"v19:1; v18:4", "14", "87", "250", "0", "Manufacturing 5; Retail 2",
			"0", "1", "1",
		},
		{
			"Beta", "Silver", "0", "1", "0", "https://www.odoo.com/partners/beta-2",
			"0", "0", "0", "0", "0", "0",
			"0", "0", "0",
		},
		{
			"Gamma", "Ready", "Lyon", "0", "0", "https://www.odoo.com/partners/gamma-3",
			"0", "0", "0", "0", "0", "0",
			"0", "0", "0",
		},
	}
	if diff := cmp.Diff(expected, table.Rows); diff != "" {
		t.Fatal(diff)
	}
	for _, row := range table.Rows {
		require.Len(t, row, len(table.Header))
		for _, v := range row {
			require.NotEmpty(t, v)
		}
	}
	require.Equal(t, []string{"1", "0", "0"}, table.Column("RI_Retail"))
	require.Nil(t, table.Column("RI_Other"))
}

func TestNormalizeCustomDefault(t *testing.T) {
	normalizer := Normalizer{Vocabulary: testVocabulary, Default: "n/a"}
	table := normalizer.Normalize([]odoo.PartnerRecord{{Name: "Delta", Tier: "Gold"}})
	require.Equal(t, "n/a", table.Rows[0][2])
	// indicators are always 0/1
	require.Equal(t, []string{"0", "0", "0"}, table.Rows[0][len(baseColumns):])
}

func TestNormalizeEmpty(t *testing.T) {
	table := NewNormalizer(testVocabulary).Normalize(nil)
	require.Empty(t, table.Rows)
	require.Len(t, table.Header, len(baseColumns)+3)
}
