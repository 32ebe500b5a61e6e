package main

import (
	"context"
	"io"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Index   instantmarqo.IndexService
	Indexes *crawl.Indexes
	Pages   instantmarqo.PageService
	Indexer *crawl.Indexer
	Crawler *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log extraction and index calls to stderr"`

	Index  IndexCmd  `cmd:"" help:"Manage Marqo indexes"`
	Add    AddCmd    `cmd:"" help:"Extract web pages and add them to an index"`
	Crawl  CrawlCmd  `cmd:"" help:"Crawl sites from seed pages and index every visited page"`
	Search SearchCmd `cmd:"" help:"Search an index"`
	Pages  PagesCmd  `cmd:"" help:"List pages recorded for an index"`
}

// IndexCmd groups the index subcommands.
type IndexCmd struct {
	Create IndexCreateCmd `cmd:"" help:"Create an index"`
	Delete IndexDeleteCmd `cmd:"" help:"Delete an index and its documents"`
	List   IndexListCmd   `cmd:"" help:"List indexes"`
}

// IndexCreateCmd is the "index create" subcommand.
type IndexCreateCmd struct {
	Name         string `arg:"" help:"Index name"`
	Multimodal   bool   `help:"Accept image URLs as image fields"`
	Model        string `help:"Embedding model (default depends on --multimodal)"`
	SkipIfExists bool   `help:"Succeed if the index already exists"`
}

// IndexDeleteCmd is the "index delete" subcommand.
type IndexDeleteCmd struct {
	Name            string `arg:"" help:"Index name"`
	Force           bool   `help:"Confirm deletion"`
	SkipIfNotExists bool   `help:"Succeed if the index does not exist"`
}

// IndexListCmd is the "index list" subcommand.
type IndexListCmd struct{}

// ExtractFlags are shared by add and crawl.
type ExtractFlags struct {
	Schema      string   `required:"" help:"YAML or JSON file with the response structure"`
	Method      string   `required:"" help:"InstantAPI method name"`
	Text        []string `help:"Response field embedded as text (repeatable)"`
	Image       []string `help:"Response field holding an image URL (repeatable)"`
	TextWeight  float64  `help:"Weight of the text fields when combined with images"`
	ImageWeight float64  `help:"Weight of the image fields when combined with text"`
	BatchSize   int      `default:"8" help:"Documents per Marqo add request"`
	Concurrency int      `short:"c" default:"4" help:"Pages extracted in parallel"`

	RequestsPerSecond float64 `name:"rps" default:"${rps}" help:"Requests per second per domain (0 disables the limit)"`

	Country      string `help:"Country code for the extraction request"`
	WaitForXPath string `name:"wait-for-xpath" help:"XPath to wait for before extracting"`
	CacheTTL     int    `name:"cache-ttl" help:"InstantAPI cache lifetime in seconds"`
	NoJavaScript bool   `name:"no-javascript" help:"Disable JavaScript rendering"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Index string   `arg:"" help:"Index name"`
	URLs  []string `arg:"" name:"url" help:"Web pages to extract"`

	ExtractFlags `embed:""`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Index string   `arg:"" help:"Index name"`
	Seeds []string `arg:"" name:"seed" help:"Seed URLs"`

	Domain      []string `short:"d" help:"Allowed domain (repeatable, defaults to the seeds' domains)"`
	MaxPages    int      `default:"1000" help:"Maximum pages to visit"`
	Sitemap     bool     `help:"Seed the crawl with the sites' sitemaps"`
	LocalLinks  bool     `help:"Discover links by fetching HTML locally instead of calling InstantAPI"`
	SkipIndexed bool     `help:"Do not re-extract pages already indexed"`
	Filter      []string `short:"F" help:"Only follow URLs matching regex (repeatable)"`
	Exclude     []string `short:"x" help:"Do not follow URLs matching regex (repeatable)"`

	ExtractFlags `embed:""`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Index  string   `arg:"" help:"Index name"`
	Query  string   `arg:"" help:"Search query"`
	Limit  int      `short:"n" default:"10" help:"Maximum number of hits"`
	Offset int      `help:"Number of hits to skip"`
	Method string   `default:"tensor" enum:"tensor,lexical,hybrid" help:"Search method"`
	Attr   []string `help:"Restrict the search to these attributes (repeatable)"`
	Where  string   `help:"Marqo filter string"`
	JSON   bool     `help:"Print raw hits as JSON lines"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	Index  string `arg:"" help:"Index name"`
	Status string `help:"Only show pages with this status (indexed or failed)"`
	Limit  int    `short:"n" help:"Maximum number of pages"`
}
