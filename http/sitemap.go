package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/instantmarqo"
)

// DefaultMaxSitemapURLs bounds the URLs collected from one site.
const DefaultMaxSitemapURLs = 50000

var _ instantmarqo.SitemapService = (*SitemapService)(nil)

// SitemapService discovers crawl seeds from robots.txt and sitemap.xml.
type SitemapService struct {
	client    *http.Client
	userAgent string
	maxURLs   int
}

// NewSitemapService creates a new SitemapService.
func NewSitemapService(opts ...Option) *SitemapService {
	o := newOptions(opts)
	return &SitemapService{client: o.client, userAgent: o.userAgent, maxURLs: o.maxURLs}
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL's
// host, deduplicated and in sitemap order. A site without sitemaps yields
// an empty slice. When baseURL has a path, only URLs under it are kept.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *instantmarqo.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "invalid base URL %q", baseURL)
	}
	prefix := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:     s,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		keep: func(u string) bool {
			return underPath(u, prefix) && filter.Match(u)
		},
		urls: []string{},
	}
	for _, loc := range sitemaps {
		if err := w.visit(ctx, loc); err != nil {
			return nil, err
		}
		if w.full() {
			break
		}
	}
	return w.urls, nil
}

// sitemapLocations reads Sitemap: lines from robots.txt, falling back to
// /sitemap.xml when robots.txt names none.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robots, err := get(ctx, s.client, s.userAgent, root.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if err == nil {
		defer robots.Close()
		var locs []string
		scanner := bufio.NewScanner(robots)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			key, value, ok := strings.Cut(line, ":")
			if ok && strings.EqualFold(strings.TrimSpace(key), "sitemap") {
				if loc := strings.TrimSpace(value); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
		if len(locs) > 0 {
			return locs, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

// sitemapWalk collects URLs across a tree of sitemaps and sitemap indexes.
type sitemapWalk struct {
	svc     *SitemapService
	visited map[string]bool
	seen    map[string]bool
	keep    func(string) bool
	urls    []string
}

func (w *sitemapWalk) full() bool {
	return w.svc.maxURLs > 0 && len(w.urls) >= w.svc.maxURLs
}

// visit reads one sitemap. A missing sitemap is skipped; anything else
// that fails is an error.
func (w *sitemapWalk) visit(ctx context.Context, loc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[loc] || w.full() {
		return nil
	}
	w.visited[loc] = true

	doc, err := w.svc.readSitemap(ctx, loc)
	if instantmarqo.ErrorCode(err) == instantmarqo.ENOTFOUND {
		return nil
	}
	if err != nil {
		return err
	}

	root := doc.Root()
	if root == nil {
		return instantmarqo.Errorf(instantmarqo.EINVALID, "empty sitemap %s", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child); err != nil {
				return err
			}
		}
	case "urlset":
		for _, u := range locs(root, "url") {
			if w.full() {
				break
			}
			if !w.seen[u] && w.keep(u) {
				w.seen[u] = true
				w.urls = append(w.urls, u)
			}
		}
	default:
		return instantmarqo.Errorf(instantmarqo.EINVALID, "unexpected sitemap root <%s> in %s", root.Tag, loc)
	}
	return nil
}

// readSitemap fetches and parses a sitemap, gunzipping .gz files.
func (s *SitemapService) readSitemap(ctx context.Context, loc string) (*etree.Document, error) {
	body, err := get(ctx, s.client, s.userAgent, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = io.LimitReader(body, maxBodyBytes)
	if strings.HasSuffix(strings.ToLower(loc), ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "decompress sitemap %s: %v", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse sitemap %s: %w", loc, err)
	}
	return doc, nil
}

// locs returns the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// underPath reports whether rawURL's path is prefix or below it, on path
// segment boundaries: /docs matches /docs and /docs/intro but not
// /documentation.
func underPath(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}
