package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/docmodel/internal/doctree"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// frontMatter is the document header a Markdown file may carry in a
// leading YAML (---) or TOML (+++) block. Fields that authors write either
// as a scalar or as a list are decoded loosely.
type frontMatter struct {
	Title       string `yaml:"title" toml:"title"`
	Author      any    `yaml:"author" toml:"author"`
	Publisher   string `yaml:"publisher" toml:"publisher"`
	Subject     string `yaml:"subject" toml:"subject"`
	Description string `yaml:"description" toml:"description"`
	Keywords    any    `yaml:"keywords" toml:"keywords"`
	Tags        any    `yaml:"tags" toml:"tags"`
	Language    string `yaml:"language" toml:"language"`
	Lang        string `yaml:"lang" toml:"lang"`
	Rights      string `yaml:"rights" toml:"rights"`
	Version     string `yaml:"version" toml:"version"`
	Date        any    `yaml:"date" toml:"date"`
	ID          string `yaml:"id" toml:"id"`
}

// splitFrontMatter separates a leading front matter block from the body.
// Without a closing delimiter the whole input is body.
func splitFrontMatter(src []byte) (format string, meta, body []byte) {
	var delim string
	switch {
	case bytes.HasPrefix(src, []byte("---")):
		delim, format = "---", "yaml"
	case bytes.HasPrefix(src, []byte("+++")):
		delim, format = "+++", "toml"
	default:
		return "", nil, src
	}

	first, rest, ok := bytes.Cut(src, []byte("\n"))
	if !ok || strings.TrimRight(string(first), " \t\r") != delim {
		return "", nil, src
	}
	for off := 0; off < len(rest); {
		line, after, found := bytes.Cut(rest[off:], []byte("\n"))
		if strings.TrimRight(string(line), " \t\r") == delim {
			return format, rest[:off], after
		}
		if !found {
			break
		}
		off += len(line) + 1
	}
	return "", nil, src
}

// readFrontMatter returns the decoded header and the Markdown body. A
// block that does not decode into a header is left in the body, since
// "---" also opens thematic breaks.
func readFrontMatter(src []byte) (*frontMatter, []byte) {
	format, meta, body := splitFrontMatter(src)
	if format == "" {
		return nil, src
	}
	fm, err := decodeFrontMatter(format, meta)
	if err != nil {
		return nil, src
	}
	return fm, body
}

func decodeFrontMatter(format string, meta []byte) (*frontMatter, error) {
	var fm frontMatter
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(meta, &fm)
	case "toml":
		err = toml.Unmarshal(meta, &fm)
	default:
		err = fmt.Errorf("unknown front matter format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s front matter: %w", format, err)
	}
	return &fm, nil
}

// apply copies the header onto doc. Empty fields leave doc untouched.
func (fm *frontMatter) apply(doc *doctree.Document) {
	set := func(dst *string, vals ...string) {
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&doc.Title, fm.Title)
	set(&doc.Creator, strings.Join(stringList(fm.Author), ", "))
	set(&doc.Publisher, fm.Publisher)
	set(&doc.Subject, fm.Subject)
	set(&doc.Description, fm.Description)
	set(&doc.Language, fm.Language, fm.Lang)
	set(&doc.Rights, fm.Rights)
	set(&doc.Version, fm.Version)
	set(&doc.Reference, fm.ID)

	if kw := append(stringList(fm.Keywords), stringList(fm.Tags)...); len(kw) > 0 {
		doc.Keywords = kw
	}
	if t, ok := frontMatterDate(fm.Date); ok {
		doc.CreatedOn = t
	}
}

// stringList accepts a single string (comma separated) or a list of
// scalars.
func stringList(v any) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch v := v.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	case []any:
		for _, item := range v {
			if item != nil {
				add(fmt.Sprint(item))
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	}
	return out
}

// frontMatterDate handles the date forms the two decoders produce: YAML
// timestamps arrive as time.Time, TOML local dates as values that print
// in ISO form.
func frontMatterDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		return parseDate(strings.TrimSpace(d))
	case fmt.Stringer:
		return parseDate(d.String())
	}
	return time.Time{}, false
}
