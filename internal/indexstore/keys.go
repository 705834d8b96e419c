package indexstore

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Root is the key prefix every document lives under.
const Root = "docmodel/documents"

// Segment makes s safe to use as one key segment: "/" and other reserved
// characters are percent-escaped, and "." or ".." are escaped so path
// joining cannot climb out of the enclosing prefix.
func Segment(s string) string {
	if strings.Trim(s, ".") == "" && s != "" {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return url.PathEscape(s)
}

// DecodeSegment reverses Segment, returning seg unchanged if it is not a
// valid escape.
func DecodeSegment(seg string) string {
	if s, err := url.PathUnescape(seg); err == nil {
		return s
	}
	return seg
}

// DocumentKey returns the prefix for one document.
func DocumentKey(docID string) string { return path.Join(Root, Segment(docID)) }

func MetaKey(docID string) string { return path.Join(DocumentKey(docID), "meta") }

func OutlineKey(docID string) string { return path.Join(DocumentKey(docID), "outline") }

func ChunkKey(docID string, index int) string {
	return path.Join(DocumentKey(docID), "chunks", fmt.Sprintf("%06d", index))
}

// SectionKey is the node a section's link edges hang off. An empty
// reference addresses the document itself.
func SectionKey(docID, reference string) string {
	if reference == "" {
		return DocumentKey(docID)
	}
	return path.Join(DocumentKey(docID), "sections", Segment(reference))
}

// HashPrefix lists the documents already published with a content hash.
func HashPrefix(hash string) string { return path.Join(Root, "by_hash", Segment(hash)) }

func HashKey(hash, docID string) string { return path.Join(HashPrefix(hash), Segment(docID)) }

// keyPath escapes key for a URL path, segment by segment, so escapes already
// in a key survive the server's path decoding.
func keyPath(key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
