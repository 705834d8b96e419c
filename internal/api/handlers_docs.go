package api

import (
	"context"
	"net/http"
	"path"

	"github.com/dgallion1/docmodel/internal/indexstore"
	"github.com/go-chi/chi/v5"
)

// index returns the index client, or writes a 503 when publishing is off.
func (s *Server) index(w http.ResponseWriter) *indexstore.Client {
	ix := s.orchestrator.IndexClient()
	if ix == nil {
		jsonError(w, "index not configured", http.StatusServiceUnavailable)
	}
	return ix
}

// handleListDocuments lists every published document's metadata.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ix := s.index(w)
	if ix == nil {
		return
	}

	children, err := ix.ListChildren(r.Context(), indexstore.Root, 1000)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}

	// Filter to only meta nodes.
	docs := []map[string]any{}
	for _, child := range children {
		docKey := path.Dir(child.Key)
		if path.Base(child.Key) != "meta" || path.Dir(docKey) != indexstore.Root {
			continue
		}
		docs = append(docs, map[string]any{
			"doc_id": indexstore.DecodeSegment(path.Base(docKey)),
			"meta":   child.Value,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document, everything published under it
// and its hash index entry.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ix := s.index(w)
	if ix == nil {
		return
	}
	docID := chi.URLParam(r, "docID")
	ctx := r.Context()

	// Read the content hash before the meta node goes away.
	hash := contentHash(ctx, ix, docID)

	if err := ix.DeleteNode(ctx, indexstore.DocumentKey(docID), true); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusBadGateway)
		return
	}

	hashDeleted := false
	if hash != "" {
		if err := ix.DeleteNode(ctx, indexstore.HashKey(hash, docID), false); err != nil {
			s.log.Warn("hash index delete failed", "doc_id", docID, "error", err)
		} else {
			hashDeleted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":       docID,
		"deleted":      true,
		"hash_deleted": hashDeleted,
	})
}

func contentHash(ctx context.Context, ix *indexstore.Client, docID string) string {
	meta, err := ix.GetNode(ctx, indexstore.MetaKey(docID))
	if err != nil || meta == nil {
		return ""
	}
	m, ok := meta.Value.(map[string]any)
	if !ok {
		return ""
	}
	hash, _ := m["content_hash"].(string)
	return hash
}
