package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"graphsearch/internal/modules/query/domain"
	queryout "graphsearch/internal/modules/query/port/out"
	apperrors "graphsearch/internal/platform/errors"
	"graphsearch/internal/platform/logging"
)

const errorBodyLimit = 512

type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend talks to the search service at baseURL. A zero timeout
// leaves requests unbounded apart from context cancellation.
func NewHTTPBackend(baseURL string, timeout time.Duration) queryout.Backend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type ingestResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
}

func (b *HTTPBackend) Query(ctx context.Context, query string) (domain.Response, error) {
	payload, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return domain.Response{}, fmt.Errorf("encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return domain.Response{}, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var raw json.RawMessage
	if err := b.do(ctx, req, &raw); err != nil {
		return domain.Response{}, err
	}
	return decodeQueryResponse(raw), nil
}

func (b *HTTPBackend) Ingest(ctx context.Context, doc domain.Document) (domain.IngestReceipt, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", doc.Filename)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(doc.Content); err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("close multipart body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/ingest", &body)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("build ingest request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var wire ingestResponse
	if err := b.do(ctx, req, &wire); err != nil {
		return domain.IngestReceipt{}, err
	}
	return domain.IngestReceipt{Status: wire.Status, Filename: wire.Filename}, nil
}

func (b *HTTPBackend) do(ctx context.Context, req *http.Request, into any) error {
	logger := logging.FromContext(ctx)
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrRequestFailed, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", apperrors.ErrRequestFailed, err)
	}
	logger.Debug("backend responded", "path", req.URL.Path, "status", resp.StatusCode, "bytes", len(raw))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: status %d: %s", apperrors.ErrRequestFailed, req.Method, req.URL.Path, resp.StatusCode, snippet(raw))
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", apperrors.ErrRequestFailed, req.URL.Path, err)
	}
	return nil
}

// decodeQueryResponse reads the body as-is. Only syntactically invalid JSON
// is a failure; a body that is not an object yields an empty response, and
// fields of an unexpected type are coerced to text instead of rejected.
func decodeQueryResponse(raw json.RawMessage) domain.Response {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Response{}
	}
	resp := domain.Response{
		Error:  looseString(fields["error"]),
		Answer: looseString(fields["answer"]),
	}
	if items, ok := looseArray(fields["passages"]); ok {
		resp.Passages = make([]domain.Passage, 0, len(items))
		for _, item := range items {
			resp.Passages = append(resp.Passages, decodePassage(item))
		}
	}
	if items, ok := looseArray(fields["graph"]); ok {
		resp.Graph = make([]domain.GraphEntry, 0, len(items))
		for _, item := range items {
			resp.Graph = append(resp.Graph, decodeGraphEntry(item))
		}
	}
	return resp
}

func decodePassage(raw json.RawMessage) domain.Passage {
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(raw, &fields)
	p := domain.Passage{
		Text:     looseString(fields["text"]),
		Filename: looseString(fields["filename"]),
	}
	// score is informational; a non-numeric value leaves it at zero.
	_ = json.Unmarshal(fields["score"], &p.Score)
	return p
}

func decodeGraphEntry(raw json.RawMessage) domain.GraphEntry {
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(raw, &fields)
	g := domain.GraphEntry{Entity: looseString(fields["entity"])}
	if items, ok := looseArray(fields["neighbors"]); ok {
		g.Neighbors = make([]string, 0, len(items))
		for _, item := range items {
			g.Neighbors = append(g.Neighbors, looseString(item))
		}
	}
	return g
}

// looseArray reports whether raw is a JSON array. null, a missing key and
// any other type count as absent.
func looseArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// looseString renders any JSON value as display text: strings unquoted,
// null as empty, everything else as compact JSON.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > errorBodyLimit {
		s = s[:errorBodyLimit] + "…"
	}
	return s
}
