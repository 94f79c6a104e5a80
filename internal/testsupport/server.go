package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// FakeService emulates the remote endpoint: every submitted job completes
// immediately and drops one artifact into the output directory.
type FakeService struct {
	Server *httptest.Server

	mu        sync.Mutex
	jobs      map[string]string
	submitted int
}

// NewFakeService starts a fake endpoint writing artifacts under outputDir.
func NewFakeService(t testing.TB, outputDir string) *FakeService {
	t.Helper()
	f := &FakeService{jobs: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /prompt", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.submitted++
		id := fmt.Sprintf("job-%d", f.submitted)
		filename := fmt.Sprintf("easel_%05d_.png", f.submitted)
		f.jobs[id] = filename
		f.mu.Unlock()

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := os.WriteFile(filepath.Join(outputDir, filename), []byte("artifact"), 0o644); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"prompt_id": id})
	})
	mux.HandleFunc("GET /history/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/history/")
		f.mu.Lock()
		filename, ok := f.jobs[id]
		f.mu.Unlock()
		if !ok {
			w.Write([]byte("{}"))
			return
		}
		fmt.Fprintf(w, `{"%s":{"outputs":{"9":{"images":[{"filename":"%s","subfolder":""}]}}}}`, id, filename)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the endpoint base URL.
func (f *FakeService) URL() string {
	return f.Server.URL
}

// Submitted reports how many jobs the endpoint accepted.
func (f *FakeService) Submitted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}
