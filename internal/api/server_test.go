package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docmodel/internal/config"
	"github.com/dgallion1/docmodel/internal/indexstore"
	"github.com/dgallion1/docmodel/internal/pipeline"
	"github.com/dgallion1/docmodel/internal/view"
)

const testKey = "secret"

const guide = `# Intro

Read the [docs](https://example.com/docs).

![Chart](chart.png)

## Setup

| name | value |
| ---- | ----- |
| a    | 1     |

# Usage

Run it.
`

func testServer(t *testing.T, index *indexstore.Client) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		APIKey:               testKey,
		WorkerCount:          1,
		MaxQueueSize:         10,
		MaxConcurrentPublish: 2,
		MaxUploadBytes:       1 << 20,
		DefaultChunkSize:     1500,
		DefaultChunkOverlap:  200,
		JobTTL:               time.Hour,
		StatsWindow:          time.Hour,
	}
	if index != nil {
		cfg.IndexURL = "http://index"
	}
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, index, log)
	orch.Start(t.Context())
	t.Cleanup(orch.Stop)

	srv := httptest.NewServer(NewServer(orch, log, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+testKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func upload(t *testing.T, srv *httptest.Server, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	mw.WriteField("doc_id", "guide-1")
	mw.Close()
	return do(t, http.MethodPost, srv.URL+"/api/ingest", &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

// ingest uploads content and waits for the job to finish.
func ingest(t *testing.T, srv *httptest.Server, filename, content string) pipeline.JobSnapshot {
	t.Helper()
	resp := upload(t, srv, filename, content)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("ingest status = %d", resp.StatusCode)
	}
	accepted := decode[map[string]any](t, resp)
	jobID, _ := accepted["job_id"].(string)
	if jobID == "" {
		t.Fatalf("no job id in %v", accepted)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp := do(t, http.MethodGet, srv.URL+"/api/ingest/"+jobID+"/status", nil, "")
		snap := decode[pipeline.JobSnapshot](t, resp)
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", jobID)
	return pipeline.JobSnapshot{}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/stats/parse")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/stats/parse", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d", resp.StatusCode)
	}
}

func TestIngestAndViews(t *testing.T) {
	srv := testServer(t, nil)
	snap := ingest(t, srv, "guide.md", guide)

	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("status = %q, errors %v", snap.Status, snap.Progress.Errors)
	}
	if snap.DocID != "guide-1" {
		t.Errorf("doc id = %q", snap.DocID)
	}
	if snap.Progress.Sections != 3 || snap.Progress.Figures != 1 || snap.Progress.Tables != 1 || snap.Progress.WebLinks != 1 {
		t.Errorf("progress = %+v", snap.Progress)
	}

	base := srv.URL + "/api/jobs/" + snap.ID

	toc := decode[struct {
		Title string          `json:"title"`
		TOC   []view.TOCEntry `json:"toc"`
	}](t, do(t, http.MethodGet, base+"/toc", nil, ""))
	if toc.Title != "guide" || len(toc.TOC) != 2 {
		t.Fatalf("toc = %+v", toc)
	}
	if len(toc.TOC[0].Children) != 1 || toc.TOC[0].Children[0].Reference != "setup" {
		t.Errorf("intro children = %+v", toc.TOC[0].Children)
	}

	figs := decode[map[string][]view.Figure](t, do(t, http.MethodGet, base+"/figures", nil, ""))
	if len(figs["figures"]) != 1 || figs["figures"][0].Source != "chart.png" {
		t.Errorf("figures = %+v", figs)
	}

	tables := decode[map[string][]view.Table](t, do(t, http.MethodGet, base+"/tables", nil, ""))
	if len(tables["tables"]) != 1 || tables["tables"][0].Rows != 2 {
		t.Errorf("tables = %+v", tables)
	}

	links := decode[map[string][]view.Link](t, do(t, http.MethodGet, base+"/links", nil, ""))
	if len(links["links"]) != 1 || links["links"][0].URI != "https://example.com/docs" {
		t.Errorf("links = %+v", links)
	}

	summary := decode[view.Summary](t, do(t, http.MethodGet, base+"/summary", nil, ""))
	if summary.Sections != 3 {
		t.Errorf("summary = %+v", summary)
	}

	resp := do(t, http.MethodGet, base+"/text", nil, "")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	text, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(text), "Intro\n\nRead the docs.") {
		t.Errorf("text = %q", text)
	}

	stats := decode[map[string]any](t, do(t, http.MethodGet, srv.URL+"/api/stats/parse", nil, ""))
	parse, _ := stats["parse"].(map[string]any)
	if _, ok := parse["md"]; !ok {
		t.Errorf("expected md latency series, got %v", stats)
	}
}

func TestIngestUnsupported(t *testing.T) {
	srv := testServer(t, nil)
	resp := upload(t, srv, "photo.png", "not a document")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestIngestSniffsExtensionlessUpload(t *testing.T) {
	srv := testServer(t, nil)

	resp := upload(t, srv, "page", "<!DOCTYPE html><html><head><title>Sniffed</title></head><body><p>hi</p></body></html>")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = upload(t, srv, "blob", "\x00\x01\x02\x03")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("binary upload: status = %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if !strings.Contains(body["error"], "no extension") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestJobNotFound(t *testing.T) {
	srv := testServer(t, nil)
	for _, p := range []string{"/api/ingest/missing/status", "/api/jobs/missing/toc"} {
		resp := do(t, http.MethodGet, srv.URL+p, nil, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d", p, resp.StatusCode)
		}
	}
}

func TestDocumentsWithoutIndex(t *testing.T) {
	srv := testServer(t, nil)
	resp := do(t, http.MethodGet, srv.URL+"/api/documents", nil, "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestDocumentsListAndDelete(t *testing.T) {
	var (
		mu      sync.Mutex
		deleted []string
	)
	index := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/kv/")
		switch {
		case r.Method == http.MethodGet && key == indexstore.Root+"/*":
			json.NewEncoder(w).Encode(map[string]any{"nodes": []indexstore.Node{
				{Key: indexstore.MetaKey("doc-1"), Value: map[string]any{"title": "Guide"}},
				{Key: indexstore.ChunkKey("doc-1", 0), Value: "chunk"},
				{Key: indexstore.SectionKey("doc-1", "meta"), Value: "a section titled Meta"},
			}})
		case r.Method == http.MethodGet && key == indexstore.MetaKey("doc-1"):
			json.NewEncoder(w).Encode(indexstore.Node{Key: key, Value: map[string]any{"content_hash": "abc"}})
		case r.Method == http.MethodDelete:
			mu.Lock()
			deleted = append(deleted, r.URL.RequestURI())
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(index.Close)

	srv := testServer(t, indexstore.NewClient(index.URL, "k"))

	list := decode[struct {
		Documents []map[string]any `json:"documents"`
	}](t, do(t, http.MethodGet, srv.URL+"/api/documents", nil, ""))
	if len(list.Documents) != 1 || list.Documents[0]["doc_id"] != "doc-1" {
		t.Errorf("documents = %+v", list.Documents)
	}

	resp := do(t, http.MethodDelete, srv.URL+"/api/documents/doc-1", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	want := []string{
		"/kv/" + indexstore.DocumentKey("doc-1") + "?children=true",
		"/kv/" + indexstore.HashKey("abc", "doc-1"),
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(deleted, ",") != strings.Join(want, ",") {
		t.Errorf("deleted = %v, want %v", deleted, want)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":       "report.pdf",
		"../../etc/passwd": "passwd",
		"dir\\evil..md":    "dir_evil_md",
		"":                 "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
