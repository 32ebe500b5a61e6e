package instantmarqo

import "context"

// ExtractRequest describes a single structured-extraction call.
// Only WebpageURL, MethodName and ResponseStructure are required; the other
// fields are passed through to the extraction service when set.
type ExtractRequest struct {
	WebpageURL        string
	MethodName        string
	ResponseStructure ResponseStructure

	// Parameters is passed verbatim as the API method parameters.
	Parameters map[string]any

	CountryCode  string
	Verbose      bool
	WaitForXPath string

	// EnableJavaScript is only sent when non-nil.
	EnableJavaScript *bool

	// CacheTTL is the service-side cache lifetime in seconds.
	CacheTTL int

	SERPLimit   int
	SERPSite    string
	SERPPageNum int
}

// Validate returns an error if the request is missing required fields.
func (r *ExtractRequest) Validate() error {
	if r.WebpageURL == "" {
		return Errorf(EINVALID, "webpage URL required")
	}
	if r.MethodName == "" {
		return Errorf(EINVALID, "API method name required")
	}
	if len(r.ResponseStructure) == 0 {
		return Errorf(EINVALID, "response structure required")
	}
	return nil
}

// Extractor extracts structured data from web pages.
type Extractor interface {
	// Extract fetches the page and returns data shaped like the request's
	// response structure.
	Extract(ctx context.Context, req ExtractRequest) (map[string]any, error)
}

// LinkDiscoverer finds the pages a crawl should visit after a given page.
type LinkDiscoverer interface {
	// NextPages returns absolute URLs linked from webpageURL.
	NextPages(ctx context.Context, webpageURL string) ([]string, error)
}
