package doctree

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyReference     = errors.New("section has no reference")
	ErrDuplicateReference = errors.New("duplicate section reference")
)

var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify lowercases s and collapses every run of characters that are not
// letters or digits into a single hyphen. Leading and trailing hyphens are
// dropped, so "Section 1" becomes "section-1".
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// AssignReferences gives every section without a reference a unique one
// derived from its title text. Existing references are never changed and are
// reserved before any new one is chosen. Sections are handled in walk order,
// so an earlier section gets the plain slug and later ones get "-2", "-3"
// and so on. Running it again on the same tree changes nothing.
func AssignReferences(doc *Document) {
	sections := Sections(doc)

	used := make(map[string]bool, len(sections))
	for _, s := range sections {
		if s.Reference != "" {
			used[s.Reference] = true
		}
	}

	for _, s := range sections {
		if s.Reference != "" {
			continue
		}
		base := ""
		if s.Title != nil {
			base = Slugify(CollectText(s.Title))
		}
		if base == "" {
			base = "section"
		}
		ref := base
		for i := 2; used[ref]; i++ {
			ref = base + "-" + strconv.Itoa(i)
		}
		used[ref] = true
		s.Reference = ref
	}
}

// ValidateReferences reports every section with an empty reference and every
// reference used by more than one section. It returns nil when the document
// is ready for BuildTOC.
func ValidateReferences(doc *Document) error {
	var errs []error
	seen := make(map[string]int)
	for i, s := range Sections(doc) {
		if s.Reference == "" {
			errs = append(errs, fmt.Errorf("section %d: %w", i, ErrEmptyReference))
			continue
		}
		if first, ok := seen[s.Reference]; ok {
			errs = append(errs, fmt.Errorf("section %d %q (first used by section %d): %w", i, s.Reference, first, ErrDuplicateReference))
			continue
		}
		seen[s.Reference] = i
	}
	return errors.Join(errs...)
}
