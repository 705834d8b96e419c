package indexstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_PutNodeSendsAuthAndBody(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody NodeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	err := c.PutNode(context.Background(), MetaKey("doc1"), NodeRequest{Value: map[string]any{"title": "T"}, Kind: "meta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/kv/docmodel/documents/doc1/meta" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotBody.Kind != "meta" {
		t.Errorf("unexpected body %+v", gotBody)
	}
}

func TestClient_RetryableStatuses(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "k").PutLink(context.Background(), LinkRequest{From: "a", To: "b"})
			if err == nil {
				t.Fatal("expected error")
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, !tt.retryable, tt.retryable)
			}
		})
	}
}

func TestClient_GetNodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").GetNode(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ListChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kv/docmodel/documents/by_hash/abc/*" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected limit %q", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nodes":[{"key_path":"docmodel/documents/by_hash/abc/doc9","value":{}}]}`))
	}))
	defer srv.Close()

	nodes, err := NewClient(srv.URL, "k").ListChildren(context.Background(), HashPrefix("abc"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Key != HashKey("abc", "doc9") {
		t.Errorf("unexpected nodes %+v", nodes)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ChunkKey("d", 7), "docmodel/documents/d/chunks/000007"},
		{SectionKey("d", "intro"), "docmodel/documents/d/sections/intro"},
		{SectionKey("d", ""), "docmodel/documents/d"},
		{OutlineKey("d"), "docmodel/documents/d/outline"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestKeys_StayUnderTheirDocument(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"reference climbing out", SectionKey("d", "../../victim/meta"), "docmodel/documents/d/sections/..%2F..%2Fvictim%2Fmeta"},
		{"dot-dot reference", SectionKey("d", ".."), "docmodel/documents/d/sections/%2E%2E"},
		{"dot reference", SectionKey("d", "."), "docmodel/documents/d/sections/%2E"},
		{"slash in doc id", MetaKey("a/b"), "docmodel/documents/a%2Fb/meta"},
		{"dot-dot doc id", MetaKey(".."), "docmodel/documents/%2E%2E/meta"},
		{"plain slug", SectionKey("d", "section-2"), "docmodel/documents/d/sections/section-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
			if !strings.HasPrefix(tt.got, Root+"/") {
				t.Errorf("%q escapes %q", tt.got, Root)
			}
		})
	}

	if SectionKey("victim", "meta") == SectionKey("d", "../../victim/meta") {
		t.Error("a reference addressed another document")
	}
	if got := DecodeSegment(Segment("a/b c")); got != "a/b c" {
		t.Errorf("DecodeSegment(Segment) = %q", got)
	}
}

func TestClient_EscapesKeyInPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	key := SectionKey("d", "../x")
	if err := c.PutNode(context.Background(), key, NodeRequest{Value: "v"}); err != nil {
		t.Fatalf("PutNode: %v", err)
	}
	if gotPath != "/kv/"+key {
		t.Errorf("server saw %q, want %q", gotPath, "/kv/"+key)
	}
}
