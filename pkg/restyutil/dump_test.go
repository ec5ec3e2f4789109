package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mu    sync.Mutex
	files map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[id] = contents
}

func TestDump(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("x-partner", "acme")
		w.Write([]byte("<html>Acme Corp</html>"))
	}))
	defer srv.Close()

	out := &memoryOutput{files: map[string]string{}}
	client := resty.New()
	client.SetHeader("user-agent", "odoo-partners-test")
	Dump(client, out)

	_, err := client.R().Get(srv.URL + "/partners/acme")
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.R().Get(srv.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}

	require.Len(t, out.files, 2)
	first := out.files["0001-200.txt"]
	require.Contains(t, first, "GET "+srv.URL+"/partners/acme")
	require.Contains(t, first, "User-Agent: odoo-partners-test")
	require.Contains(t, first, "X-Partner: acme")
	require.Contains(t, first, "<html>Acme Corp</html>")
	require.Contains(t, out.files, "0002-404.txt")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	out.Write("0001-200.txt", "contents")

	contents, err := os.ReadFile(filepath.Join(dir, "0001-200.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "contents", string(contents))
}
