package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
	"github.com/fwojciec/instantmarqo/goquery"
	imhttp "github.com/fwojciec/instantmarqo/http"
	"github.com/fwojciec/instantmarqo/instantapi"
	"github.com/fwojciec/instantmarqo/marqo"
	imslog "github.com/fwojciec/instantmarqo/slog"
	"github.com/fwojciec/instantmarqo/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: reading .env: %v\n", err)
		os.Exit(1)
	}

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is read from the environment. Set before calling Run().
	Config Config

	// SQLite database holding the page ledger.
	DB *sqlite.DB

	// Services for end-to-end testing. When nil they are built from Config.
	IndexService   instantmarqo.IndexService
	Extractor      instantmarqo.Extractor
	LinkDiscoverer instantmarqo.LinkDiscoverer
	SitemapService instantmarqo.SitemapService
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	return &Main{
		Config: ConfigFromEnv(os.Getenv),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("instantmarqo"),
		kong.Description("Extract structured web data with InstantAPI and search it with Marqo."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{"rps": fmt.Sprint(crawl.DefaultRequestsPerSecond)},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := fmt.Errorf("no command specified. Run 'instantmarqo --help' to see available commands")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	// kong.Exit does not stop Parse after printing help for a subcommand.
	if hasHelpFlag(args) {
		return nil
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	var logger *slog.Logger
	if cli.Verbose || m.Config.Log {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	m.DB = sqlite.NewDB(m.Config.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", EnvDB)
		err = fmt.Errorf("failed to open database at %q: %w", m.Config.DBPath, err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	defer m.Close()

	pages := sqlite.NewPageService(m.DB)
	index := m.IndexService
	if index == nil {
		index = marqo.NewClient(m.Config.MarqoURL, marqo.WithAPIKey(m.Config.MarqoAPIKey))
	}
	if logger != nil {
		index = imslog.NewLoggingIndexService(index, logger)
	}
	deps.Index = index
	deps.Pages = pages
	deps.Indexes = &crawl.Indexes{Index: index, Pages: pages}

	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd == "add" || cmd == "crawl" {
		rps := cli.Add.RequestsPerSecond
		if cmd == "crawl" {
			rps = cli.Crawl.RequestsPerSecond
		}
		if err := m.wireIndexing(deps, cmd == "crawl", cli.Crawl.LocalLinks, rps, logger); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireIndexing builds the Indexer and, for crawls, the Crawler.
func (m *Main) wireIndexing(deps *Dependencies, crawling, localLinks bool, rps float64, logger *slog.Logger) error {
	var api *instantapi.Client
	extractor := m.Extractor
	links := m.LinkDiscoverer
	if extractor == nil || (crawling && links == nil && !localLinks) {
		if m.Config.InstantAPIKey == "" {
			fmt.Fprintf(deps.Stderr, "Hint: Set %s (or add it to .env). Get a key at https://web.instantapi.ai\n", EnvInstantAPIKey)
			return instantmarqo.Errorf(instantmarqo.EUNAUTHORIZED, "%s not set", EnvInstantAPIKey)
		}
		api = instantapi.NewClient(m.Config.InstantAPIKey)
	}
	if extractor == nil {
		extractor = api
	}
	if logger != nil {
		extractor = imslog.NewLoggingExtractor(extractor, logger)
	}

	var retryLog crawl.LogFunc
	if logger != nil {
		retryLog = func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		}
	}

	deps.Indexer = &crawl.Indexer{
		Extractor: extractor,
		Index:     deps.Index,
		Pages:     deps.Pages,
		Logger:    retryLog,
	}
	if rps > 0 {
		deps.Indexer.RateLimiter = crawl.NewDomainLimiter(rps)
	}

	if !crawling {
		return nil
	}

	if links == nil {
		if localLinks {
			var fetcher instantmarqo.Fetcher = imhttp.NewFetcher()
			if logger != nil {
				fetcher = imslog.NewLoggingFetcher(fetcher, logger)
			}
			links = goquery.NewLinkDiscoverer(fetcher)
		} else {
			links = api
		}
	}
	if logger != nil {
		links = imslog.NewLoggingLinkDiscoverer(links, logger)
	}

	sitemaps := m.SitemapService
	if sitemaps == nil {
		sitemaps = imhttp.NewSitemapService()
	}
	if logger != nil {
		sitemaps = imslog.NewLoggingSitemapService(sitemaps, logger)
	}

	deps.Crawler = &crawl.Crawler{
		Indexer:  deps.Indexer,
		Links:    links,
		Sitemaps: sitemaps,
	}
	return nil
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}
