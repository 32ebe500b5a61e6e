package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/instantmarqo"
	"github.com/google/uuid"
)

var _ instantmarqo.PageService = (*PageService)(nil)

// PageService implements instantmarqo.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

const pageColumns = "id, index_name, url, document_id, content_hash, status, error, indexed_at"

// UpsertPage records a page. An existing entry for the same index and URL
// keeps its ID and has every other column replaced. page.ID is set to the
// stored ID; a zero IndexedAt becomes the current time.
func (s *PageService) UpsertPage(ctx context.Context, page *instantmarqo.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if page.IndexedAt.IsZero() {
		page.IndexedAt = time.Now()
	}
	page.IndexedAt = page.IndexedAt.UTC().Truncate(time.Second)

	return s.db.QueryRowContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (index_name, url) DO UPDATE SET
			document_id = excluded.document_id,
			content_hash = excluded.content_hash,
			status = excluded.status,
			error = excluded.error,
			indexed_at = excluded.indexed_at
		RETURNING id
	`, page.ID, page.IndexName, page.URL, page.DocumentID, page.ContentHash,
		string(page.Status), page.Error, page.IndexedAt.Format(time.RFC3339)).Scan(&page.ID)
}

// FindPageByID retrieves a page by ID.
func (s *PageService) FindPageByID(ctx context.Context, id string) (*instantmarqo.Page, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE id = ?", id)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, instantmarqo.Errorf(instantmarqo.ENOTFOUND, "page not found")
	}
	return page, err
}

// FindPages retrieves pages matching the filter, most recently indexed
// first.
func (s *PageService) FindPages(ctx context.Context, filter instantmarqo.PageFilter) ([]*instantmarqo.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + pageColumns + " FROM pages WHERE 1=1")

	if filter.IndexName != nil {
		query.WriteString(" AND index_name = ?")
		args = append(args, *filter.IndexName)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY indexed_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*instantmarqo.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// DeletePagesByIndex removes all pages recorded for an index.
func (s *PageService) DeletePagesByIndex(ctx context.Context, indexName string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE index_name = ?", indexName)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*instantmarqo.Page, error) {
	var page instantmarqo.Page
	var status, indexedAt string
	if err := row.Scan(&page.ID, &page.IndexName, &page.URL, &page.DocumentID,
		&page.ContentHash, &status, &page.Error, &indexedAt); err != nil {
		return nil, err
	}
	page.Status = instantmarqo.PageStatus(status)

	var err error
	page.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at")
	if err != nil {
		return nil, err
	}
	return &page, nil
}
