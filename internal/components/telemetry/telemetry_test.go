package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("odoo_scraper", NewScopedAPI("listing", rec))

	scoped.ReportBroken("extract-rows.parse", errors.New("bad markup"))
	scoped.ReportWarning("client.fetch-listing", 3)
	scoped.ReportDebug("page", 1)
	scoped.ReportCount("records", 12)

	reports := rec.Reports("")
	require.Len(t, reports, 4)
	require.Equal(t, "listing: odoo_scraper: extract-rows.parse", reports[0].ID)
	require.Equal(t, "broken", reports[0].Kind)
	require.Equal(t, "listing: odoo_scraper: client.fetch-listing", reports[1].ID)
	require.Equal(t, []any{3}, reports[1].Params)
	require.Equal(t, "debug", reports[2].Kind)
	require.Equal(t, int64(12), reports[3].Count)

	require.True(t, rec.Has("warning", "client.fetch-listing"))
	require.False(t, rec.Has("broken", "client.fetch-listing"))

	n, ok := rec.LastCount("records")
	require.True(t, ok)
	require.Equal(t, int64(12), n)
}

func TestMeteredAPIForwards(t *testing.T) {
	rec := &Recorder{}
	metered := NewMeteredAPI("test", rec)

	metered.ReportBroken("a")
	metered.ReportWarning("b")
	metered.ReportCount("c", 4)
	metered.ReportCount("c", 5)

	require.True(t, rec.Has("broken", "a"))
	require.True(t, rec.Has("warning", "b"))
	n, ok := rec.LastCount("c")
	require.True(t, ok)
	require.Equal(t, int64(5), n)
}

func TestConfigEnabled(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.True(t, Config{Otlp: OtlpConfig{Traces: OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}}}.Enabled())
	require.True(t, Config{Otlp: OtlpConfig{Metrics: OtlpConnConfig{GrpcEndpoint: "http://localhost:4317"}}}.Enabled())

	tel, err := Setup(t.Context(), "test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(t.Context()))
}
