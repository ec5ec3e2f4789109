package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	PageEnd int     `json:"page_end"`
	Sleep   float64 `json:"sleep_s"`
	OutDir  string  `json:"out_dir"`
	Nested  struct {
		Endpoint string `json:"endpoint"`
	} `json:"nested"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("config", "app.local.json5"), LocalPath(filepath.Join("config", "app.json5")))
	require.Equal(t, "app.local.json5", LocalPath("app.json5"))
}

func TestReadOrDefaultMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "app.json5")

	writeFile(t, name, `{
		// comments are allowed
		page_end: 10,
		sleep_s: 1.5,
		nested: { endpoint: "http://a" },
	}`)
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{ page_end: 2, out_dir: "out" }`)

	cfg, err := ReadOrDefault(name, testConfig{OutDir: "."})
	require.NoError(t, err)
	require.Equal(t, 2, cfg.PageEnd)
	require.Equal(t, 1.5, cfg.Sleep)
	require.Equal(t, "out", cfg.OutDir)
	require.Equal(t, "http://a", cfg.Nested.Endpoint)
}

func TestReadOrDefault(t *testing.T) {
	dir := t.TempDir()
	def := testConfig{PageEnd: 188, Sleep: 1}

	cfg, err := ReadOrDefault(filepath.Join(dir, "missing.json5"), def)
	require.NoError(t, err)
	require.Equal(t, def, cfg)

	name := filepath.Join(dir, "app.json5")
	writeFile(t, name, `{ page_end: 5 }`)
	cfg, err = ReadOrDefault(name, def)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.PageEnd)
	require.Equal(t, 1.0, cfg.Sleep)

	writeFile(t, filepath.Join(dir, "app.local.json5"), `{ sleep_s: 0 }`)
	cfg, err = ReadOrDefault(name, def)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.PageEnd)
	require.Equal(t, 0.0, cfg.Sleep)
}

func TestReadOrDefaultLocalZeroOverridesBase(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "app.json5")

	writeFile(t, name, `{ page_end: 10, sleep_s: 2, out_dir: "base" }`)
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{ page_end: 0, out_dir: "" }`)

	cfg, err := ReadOrDefault(name, testConfig{PageEnd: 188, Sleep: 1, OutDir: "."})
	require.NoError(t, err)
	require.Equal(t, testConfig{PageEnd: 0, Sleep: 2, OutDir: ""}, cfg)
}

func TestReadOrDefaultLocalOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{ out_dir: "out" }`)

	cfg, err := ReadOrDefault(filepath.Join(dir, "app.json5"), testConfig{PageEnd: 188})
	require.NoError(t, err)
	require.Equal(t, 188, cfg.PageEnd)
	require.Equal(t, "out", cfg.OutDir)
}

func TestReadOrDefaultInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "app.json5")
	writeFile(t, name, `{ page_end: `)

	_, err := ReadOrDefault(name, testConfig{})
	require.Error(t, err)
}
