package out

import (
	"context"

	"graphsearch/internal/modules/query/domain"
)

// Backend is the external search service.
type Backend interface {
	Query(ctx context.Context, query string) (domain.Response, error)
	Ingest(ctx context.Context, doc domain.Document) (domain.IngestReceipt, error)
}

type DocumentLoader interface {
	Load(ctx context.Context, path string) (domain.Document, error)
}
