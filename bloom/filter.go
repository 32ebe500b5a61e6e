// Package bloom provides probabilistic URL deduplication using Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLSet records URLs in a Bloom filter. URLs are normalised before they
// are added or tested, so https://Example.com/a#top and
// https://example.com/a are the same member.
type URLSet struct {
	f *bloom.BloomFilter
}

// NewURLSet creates a set sized for n expected URLs with the given false
// positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL. It reports whether the URL was new; a false positive
// makes an unseen URL look seen, never the reverse.
func (s *URLSet) Add(rawURL string) bool {
	return !s.f.TestOrAddString(Normalize(rawURL))
}

// Contains returns true if the URL might be in the set.
func (s *URLSet) Contains(rawURL string) bool {
	return s.f.TestString(Normalize(rawURL))
}

// Normalize strips the fragment and lowercases the scheme and host.
// Unparseable input only has its fragment removed.
func Normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if i := strings.Index(rawURL, "#"); i != -1 {
		rawURL = rawURL[:i]
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
