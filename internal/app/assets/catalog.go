// Package assets matches destination names against locally available
// image files. The matcher is pure: candidate enumeration happens outside
// (a directory walk in the CLI, a cached scan in the admin handlers) and
// is handed in as plain file lists, so the matcher never touches the
// filesystem itself.
package assets

import (
	"path"
	"strings"
)

// File is one discovered image file under an asset root.
type File struct {
	Path     string
	Filename string
}

// Root is one asset location. Root order at catalog construction is the
// preference order: candidates from earlier roots sort ahead of later
// ones on ties.
type Root struct {
	Tag       string
	URLPrefix string
	Files     []File
}

// Candidate is one file the matcher can propose for an entity.
type Candidate struct {
	Path string
	Key  string
	URL  string
	Root string
}

// Catalog is the immutable candidate set for one matching run.
type Catalog struct {
	candidates []Candidate
}

// NewCatalog builds the candidate set once per run. Filenames lose their
// extension before key normalization. Enumeration order within a root is
// preserved, and roots keep their given precedence; matching later only
// filters, never reorders.
func NewCatalog(roots ...Root) *Catalog {
	c := &Catalog{}
	for _, root := range roots {
		for _, f := range root.Files {
			name := strings.TrimSuffix(f.Filename, path.Ext(f.Filename))
			c.candidates = append(c.candidates, Candidate{
				Path: f.Path,
				Key:  NormalizeKey(name),
				URL:  joinURL(root.URLPrefix, f.Filename),
				Root: root.Tag,
			})
		}
	}
	return c
}

// Len returns the number of candidates in the catalog.
func (c *Catalog) Len() int {
	return len(c.candidates)
}

// FindLocalImages returns every candidate matching the given name, in
// catalog (root-preference) order. A candidate matches when its key and
// the name's key contain one another in either direction, or when any
// token of the raw name appears in the candidate's path. No match is a
// normal empty result, never an error.
func (c *Catalog) FindLocalImages(name string) []Candidate {
	key := NormalizeKey(name)
	tokens := nameTokens(name)

	var out []Candidate
	for _, cand := range c.candidates {
		if matches(cand, key, tokens) {
			out = append(out, cand)
		}
	}
	return out
}

func matches(cand Candidate, key string, tokens []string) bool {
	// An empty key would substring-match everything; fall through to the
	// token test instead.
	if key != "" && cand.Key != "" {
		if strings.Contains(cand.Key, key) || strings.Contains(key, cand.Key) {
			return true
		}
	}
	lowerPath := strings.ToLower(cand.Path)
	for _, tok := range tokens {
		if strings.Contains(lowerPath, tok) {
			return true
		}
	}
	return false
}

func joinURL(prefix, filename string) string {
	if prefix == "" {
		return filename
	}
	return strings.TrimRight(prefix, "/") + "/" + filename
}
