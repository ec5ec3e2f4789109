package export

import (
	"os"
	"path/filepath"
	"testing"

	"odoo-partners/internal/industry"
	"odoo-partners/internal/scrapers/odoo"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	records := []odoo.PartnerRecord{
		{
			Name:             `Acme "Consulting", Inc`,
			Tier:             "Gold",
			Location:         "Berlin, Germany",
			References:       "12",
			CertifiedExperts: "3",
			ProfileURL:       "https://www.odoo.com/partners/acme-1",
			Profile: &odoo.Profile{
				CertifiedVersions: []odoo.VersionCount{{Version: 18, Count: 2}},
				ReferencesTotal:   intPtr(14),
				ReferenceIndustries: []industry.Count{
					{Industry: "Education", Count: 5},
				},
			},
		},
		{
			Name:       "Beta 007",
			Tier:       "Silver",
			References: "007",
			ProfileURL: "https://www.odoo.com/partners/beta-2",
		},
		{
			Name:             "1234567890123456789",
			Tier:             "Ready",
			References:       "123456789012",
			CertifiedExperts: "-42",
			ProfileURL:       "https://www.odoo.com/partners/digits-3",
		},
	}
	return NewNormalizer(testVocabulary).Normalize(records)
}

func TestWriteAllRoundTrip(t *testing.T) {
	dir := t.TempDir()
	table := sampleTable()

	files, err := WriteAll(dir, table)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, filepath.Join(dir, "odoo_partners_full_list_clean.csv"), files.CSV)
	require.Equal(t, filepath.Join(dir, "odoo_partners_full_list_clean.xlsx"), files.XLSX)

	fromCSV, err := ReadCSV(files.CSV)
	if err != nil {
		t.Fatal(err)
	}
	fromXLSX, err := ReadXLSX(files.XLSX)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(table, fromCSV); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(fromCSV, fromXLSX); diff != "" {
		t.Fatal(diff)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, entries, 2)
}

func TestWriteCSVIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := WriteCSV(path, sampleTable())
	if err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	err = WriteCSV(path, sampleTable())
	if err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, first, second)
}

func TestWriteXLSXCellTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	err := WriteXLSX(path, sampleTable())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	require.Equal(t, []string{SheetName}, f.GetSheetList())

	// D2 is References of the first row, D3 the zero padded one
	numeric, err := f.GetCellType(SheetName, "D2")
	if err != nil {
		t.Fatal(err)
	}
	require.NotEqual(t, excelize.CellTypeSharedString, numeric)
	require.NotEqual(t, excelize.CellTypeInlineString, numeric)

	value, err := f.GetCellValue(SheetName, "D3")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "007", value)

	// A4 holds a name longer than a float64 keeps exactly
	long, err := f.GetCellType(SheetName, "A4")
	if err != nil {
		t.Fatal(err)
	}
	require.Contains(t, []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}, long)
	value, err = f.GetCellValue(SheetName, "A4")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "1234567890123456789", value)
}

func TestCellValue(t *testing.T) {
	testCases := []struct {
		in       string
		expected any
	}{
		{in: "12", expected: 12},
		{in: "-42", expected: -42},
		{in: "0", expected: 0},
		{in: "12345678901", expected: 12345678901},
		{in: "123456789012", expected: "123456789012"},
		{in: "1234567890123456789", expected: "1234567890123456789"},
		{in: "007", expected: "007"},
		{in: "+7", expected: "+7"},
		{in: "Gold", expected: "Gold"},
		{in: "", expected: ""},
	}
	for _, test := range testCases {
		t.Run(test.in, func(t *testing.T) {
			require.Equal(t, test.expected, cellValue(test.in))
		})
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteAll(dir, sampleTable())
	if err != nil {
		t.Fatal(err)
	}

	smaller := NewNormalizer(testVocabulary).Normalize(nil)
	files, err := WriteAll(dir, smaller)
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{files.CSV, files.XLSX} {
		table, err := Read(path)
		if err != nil {
			t.Fatal(err)
		}
		require.Empty(t, table.Rows)
		require.Equal(t, smaller.Header, table.Header)
	}
}

func TestWriteAllFailure(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	err := os.WriteFile(parent, []byte("x"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	_, err = WriteAll(filepath.Join(parent, "out"), sampleTable())
	require.Error(t, err)
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read("partners.json")
	require.Error(t, err)

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
