package instantmarqo

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Default embedding models for new indexes.
const (
	DefaultTextModel       = "hf/e5-base-v2"
	DefaultMultimodalModel = "open_clip/ViT-B-32/laion2b_s34b_b79k"
)

// DefaultClientBatchSize is the number of documents sent per add request.
const DefaultClientBatchSize = 8

// IndexSettings describes a Marqo index.
type IndexSettings struct {
	Name                         string `json:"-"`
	Type                         string `json:"type,omitempty"`
	Model                        string `json:"model"`
	TreatURLsAndPointersAsImages bool   `json:"treatUrlsAndPointersAsImages"`
}

// NewIndexSettings returns settings for an unstructured index. When model is
// empty a text or multimodal default is chosen. Multimodal indexes treat
// URLs in tensor fields as images.
func NewIndexSettings(name string, multimodal bool, model string) IndexSettings {
	if model == "" {
		model = DefaultTextModel
		if multimodal {
			model = DefaultMultimodalModel
		}
	}
	return IndexSettings{
		Name:                         name,
		Type:                         "unstructured",
		Model:                        model,
		TreatURLsAndPointersAsImages: multimodal,
	}
}

// Validate returns an error if the settings contain invalid fields.
func (s *IndexSettings) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "index name required")
	}
	if s.Model == "" {
		return Errorf(EINVALID, "index model required")
	}
	return nil
}

// IndexResponse is the acknowledgement returned by index operations.
type IndexResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Index        string `json:"index,omitempty"`
}

// Document is a flat Marqo document.
type Document map[string]any

// NewDocument builds the document stored for an extracted page: the
// extracted fields plus the document ID, its URL hash and the source URL.
func NewDocument(webpageURL string, fields map[string]any) Document {
	doc := make(Document, len(fields)+3)
	for k, v := range fields {
		doc[k] = v
	}
	id := DocumentID(webpageURL)
	doc[FieldID] = id
	doc[FieldURLMD5] = id
	doc[FieldSourceURL] = webpageURL
	return doc
}

// ID returns the document's _id field.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// AddDocumentsOptions controls how documents are indexed.
type AddDocumentsOptions struct {
	TensorFields []string
	Mappings     Mappings

	// ClientBatchSize splits the documents into several requests.
	// Zero means DefaultClientBatchSize.
	ClientBatchSize int
}

// AddDocumentsItem is the per-document outcome of an add request.
type AddDocumentsItem struct {
	ID      string `json:"_id"`
	Status  int    `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Failed reports whether Marqo rejected the document.
func (i AddDocumentsItem) Failed() bool {
	return i.Status >= 300 || i.Error != ""
}

// AddDocumentsResult aggregates the responses of all add batches.
type AddDocumentsResult struct {
	Errors           bool               `json:"errors"`
	Items            []AddDocumentsItem `json:"items"`
	ProcessingTimeMS float64            `json:"processingTimeMs"`
}

// Search methods supported by Marqo.
const (
	SearchMethodTensor  = "tensor"
	SearchMethodLexical = "lexical"
	SearchMethodHybrid  = "hybrid"
)

// DefaultSearchLimit is the number of hits returned when no limit is set.
const DefaultSearchLimit = 10

// SearchQuery represents a search against one index.
type SearchQuery struct {
	Q                    string
	Limit                int
	Offset               int
	SearchMethod         string
	SearchableAttributes []string
	AttributesToRetrieve []string
	Filter               string
}

// Validate returns an error if the query contains invalid fields.
func (q *SearchQuery) Validate() error {
	if q.Q == "" {
		return Errorf(EINVALID, "search query required")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return Errorf(EINVALID, "search limit and offset must not be negative")
	}
	switch q.SearchMethod {
	case "", SearchMethodTensor, SearchMethodLexical, SearchMethodHybrid:
	default:
		return Errorf(EINVALID, "unknown search method %q", q.SearchMethod)
	}
	return nil
}

// Hit is a single search result, kept as raw JSON because its fields depend
// on the response structure used at indexing time.
type Hit struct {
	raw []byte
}

// NewHit wraps a raw JSON object as a Hit.
func NewHit(raw []byte) Hit {
	return Hit{raw: raw}
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hit) UnmarshalJSON(b []byte) error {
	h.raw = append([]byte(nil), b...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (h Hit) MarshalJSON() ([]byte, error) {
	if h.raw == nil {
		return []byte("null"), nil
	}
	return h.raw, nil
}

// Get returns the value at a gjson path.
func (h Hit) Get(path string) gjson.Result {
	return gjson.GetBytes(h.raw, path)
}

// ID returns the hit's document ID.
func (h Hit) ID() string { return h.Get(FieldID).String() }

// Score returns the relevance score.
func (h Hit) Score() float64 { return h.Get("_score").Float() }

// SourceURL returns the URL the document was extracted from.
func (h Hit) SourceURL() string { return h.Get(FieldSourceURL).String() }

// String returns a top-level field as a string.
func (h Hit) String(field string) string { return h.Get(field).String() }

// Fields decodes the hit into a map.
func (h Hit) Fields() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(h.raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SearchResult is the response to a search.
type SearchResult struct {
	Hits             []Hit   `json:"hits"`
	Query            string  `json:"query"`
	Limit            int     `json:"limit"`
	Offset           int     `json:"offset"`
	ProcessingTimeMS float64 `json:"processingTimeMs"`
}

// IndexService represents a vector search backend.
type IndexService interface {
	// CreateIndex creates a new index.
	// Returns ECONFLICT if the index already exists.
	CreateIndex(ctx context.Context, settings IndexSettings) (*IndexResponse, error)

	// DeleteIndex removes an index and all its documents.
	// Returns ENOTFOUND if the index does not exist.
	DeleteIndex(ctx context.Context, name string) (*IndexResponse, error)

	// ListIndexes returns the names of all indexes.
	ListIndexes(ctx context.Context) ([]string, error)

	// FindIndexSettings returns the settings of an index.
	// Returns ENOTFOUND if the index does not exist.
	FindIndexSettings(ctx context.Context, name string) (*IndexSettings, error)

	// AddDocuments adds or replaces documents in an index.
	AddDocuments(ctx context.Context, name string, docs []Document, opts AddDocumentsOptions) (*AddDocumentsResult, error)

	// Search runs a query against an index.
	Search(ctx context.Context, name string, query SearchQuery) (*SearchResult, error)
}
