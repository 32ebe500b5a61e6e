package instantmarqo

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RootDomain returns the host of rawURL with scheme, port, path and query
// removed. Hosts without a known public suffix (e.g. "localhost") are
// returned as "<subdomains>.<label>." so they can never collide with a real
// registrable domain: "localhost:8080" becomes ".localhost.".
func RootDomain(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return ""
	}

	suffix, icann := publicsuffix.PublicSuffix(host)
	if icann || strings.Contains(suffix, ".") {
		return host
	}

	// Unlisted suffix: the last label is the domain, the rest are subdomains.
	labels := strings.Split(host, ".")
	domain := labels[len(labels)-1]
	sub := strings.Join(labels[:len(labels)-1], ".")
	return sub + "." + domain + "."
}

// DocumentID returns the Marqo document ID for a webpage URL: the hex MD5
// of the URL. The same value is stored in the FieldURLMD5 field.
func DocumentID(webpageURL string) string {
	sum := md5.Sum([]byte(webpageURL))
	return hex.EncodeToString(sum[:])
}

// AllowedDomains is a set of root domains a crawl may visit.
type AllowedDomains map[string]struct{}

// NewAllowedDomains builds a set from domains or URLs.
// Each entry is normalised with RootDomain.
func NewAllowedDomains(domains ...string) AllowedDomains {
	set := make(AllowedDomains, len(domains))
	for _, d := range domains {
		if root := RootDomain(d); root != "" {
			set[root] = struct{}{}
		}
	}
	return set
}

// Allows reports whether rawURL belongs to one of the allowed domains.
func (a AllowedDomains) Allows(rawURL string) bool {
	root := RootDomain(rawURL)
	if root == "" {
		return false
	}
	_, ok := a[root]
	return ok
}
