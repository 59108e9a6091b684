package service

import (
	"context"
	"fmt"
	"strings"

	"graphsearch/internal/modules/query/domain"
	queryout "graphsearch/internal/modules/query/port/out"
	"graphsearch/internal/platform/clock"
	apperrors "graphsearch/internal/platform/errors"
	"graphsearch/internal/platform/id"
	"graphsearch/internal/platform/logging"
)

type QueryService struct {
	clk     clock.Clock
	ids     id.Generator
	backend queryout.Backend
	loader  queryout.DocumentLoader
}

func NewQueryService(clk clock.Clock, ids id.Generator, backend queryout.Backend, loader queryout.DocumentLoader) *QueryService {
	return &QueryService{clk: clk, ids: ids, backend: backend, loader: loader}
}

// Ask submits one query. Backend failures never leave this method as errors:
// they are logged and replaced by the fixed failure response. The only error
// returned is ErrEmptyQuery, in which case no request is made.
func (s *QueryService) Ask(ctx context.Context, query string) (domain.Response, string, error) {
	if query == "" {
		return domain.Response{}, "", apperrors.ErrEmptyQuery
	}
	requestID := s.ids.New()
	logger, ctx := logging.With(ctx, "request_id", requestID)
	started := s.clk.Now()
	logger.Debug("query submitted", "query_len", len(query))

	resp, err := s.backend.Query(ctx, query)
	elapsed := s.clk.Now().Sub(started)
	if err != nil {
		logger.Error("query failed", "error", err, "elapsed", elapsed)
		return domain.FailureResponse(), requestID, nil
	}
	logger.Info("query answered",
		"elapsed", elapsed,
		"answer", resp.Answer != "",
		"passages", len(resp.Passages),
		"graph", len(resp.Graph),
	)
	return resp, requestID, nil
}

func (s *QueryService) Ingest(ctx context.Context, path string) (domain.IngestReceipt, int, error) {
	if strings.TrimSpace(path) == "" {
		return domain.IngestReceipt{}, 0, fmt.Errorf("%w: document path is required", apperrors.ErrInvalidInput)
	}
	if s.loader == nil {
		return domain.IngestReceipt{}, 0, fmt.Errorf("document loader is not configured")
	}
	logger, ctx := logging.With(ctx, "request_id", s.ids.New(), "path", path)
	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		logger.Warn("document load failed", "error", err)
		return domain.IngestReceipt{}, 0, err
	}
	receipt, err := s.backend.Ingest(ctx, doc)
	if err != nil {
		logger.Error("ingest failed", "error", err)
		return domain.IngestReceipt{}, 0, fmt.Errorf("ingest %s: %w", doc.Filename, err)
	}
	logger.Info("document ingested", "filename", receipt.Filename, "bytes", len(doc.Content))
	return receipt, len(doc.Content), nil
}
