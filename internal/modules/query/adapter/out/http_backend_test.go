package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	queryout "graphsearch/internal/modules/query/adapter/out"
	"graphsearch/internal/modules/query/domain"
	apperrors "graphsearch/internal/platform/errors"
)

func TestHTTPBackendQueryContract(t *testing.T) {
	t.Parallel()
	var gotBody map[string]any
	var gotMethod, gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"answer":"Paris","passages":[{"text":"p1","filename":"a.txt","score":0.9},{"text":"p2"}],"graph":[{"entity":"Paris","neighbors":["France","Eiffel Tower"]}]}`)
	}))
	defer srv.Close()

	resp, err := queryout.NewHTTPBackend(srv.URL+"/", 0).Query(context.Background(), "capital of France")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/query" || gotType != "application/json" {
		t.Fatalf("unexpected request %s %s %s", gotMethod, gotPath, gotType)
	}
	if !reflect.DeepEqual(gotBody, map[string]any{"query": "capital of France"}) {
		t.Fatalf("unexpected body %v", gotBody)
	}
	want := domain.Response{
		Answer:   "Paris",
		Passages: []domain.Passage{{Text: "p1", Filename: "a.txt", Score: 0.9}, {Text: "p2"}},
		Graph:    []domain.GraphEntry{{Entity: "Paris", Neighbors: []string{"France", "Eiffel Tower"}}},
	}
	if !reflect.DeepEqual(resp, want) {
		t.Fatalf("got %+v, want %+v", resp, want)
	}
}

func TestHTTPBackendAbsentAndEmptyArrays(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"passages":[],"graph":null}`)
	}))
	defer srv.Close()

	resp, err := queryout.NewHTTPBackend(srv.URL, 0).Query(context.Background(), "q")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resp.Passages == nil || len(resp.Passages) != 0 {
		t.Fatalf("empty passages array should be kept, got %#v", resp.Passages)
	}
	if resp.Graph != nil {
		t.Fatalf("null graph should be absent, got %#v", resp.Graph)
	}
}

func TestHTTPBackendFailuresWrapRequestFailed(t *testing.T) {
	t.Parallel()
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"detail":"neo4j down"}`, http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"answer":`)
		},
		"not json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `<html>bad gateway</html>`)
		},
	}
	for name, handler := range cases {
		handler := handler
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(handler)
			defer srv.Close()
			_, err := queryout.NewHTTPBackend(srv.URL, 0).Query(context.Background(), "x")
			if !errors.Is(err, apperrors.ErrRequestFailed) {
				t.Fatalf("expected ErrRequestFailed, got %v", err)
			}
		})
	}
}

func TestHTTPBackendTakesBodyAsIs(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		body string
		want domain.Response
	}{
		"numeric answer": {
			body: `{"answer":42}`,
			want: domain.Response{Answer: "42"},
		},
		"non-numeric score keeps the answer": {
			body: `{"answer":"Paris","passages":[{"text":"p","score":"high"}]}`,
			want: domain.Response{Answer: "Paris", Passages: []domain.Passage{{Text: "p"}}},
		},
		"array body": {
			body: `[]`,
			want: domain.Response{},
		},
		"null body": {
			body: `null`,
			want: domain.Response{},
		},
		"mixed graph values": {
			body: `{"error":{"code":7},"graph":[{"entity":1,"neighbors":["France",2,null,true]},{"entity":"Lyon","neighbors":"none"}],"passages":"x"}`,
			want: domain.Response{
				Error: `{"code":7}`,
				Graph: []domain.GraphEntry{
					{Entity: "1", Neighbors: []string{"France", "2", "", "true"}},
					{Entity: "Lyon"},
				},
			},
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()
			resp, err := queryout.NewHTTPBackend(srv.URL, 0).Query(context.Background(), "q")
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if !reflect.DeepEqual(resp, tc.want) {
				t.Fatalf("got %#v, want %#v", resp, tc.want)
			}
		})
	}
}

func TestHTTPBackendNetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := queryout.NewHTTPBackend(url, 0).Query(context.Background(), "x")
	if !errors.Is(err, apperrors.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestHTTPBackendTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := queryout.NewHTTPBackend(srv.URL, 50*time.Millisecond).Query(context.Background(), "x")
	if !errors.Is(err, apperrors.ErrRequestFailed) {
		t.Fatalf("expected timeout to fail the request, got %v", err)
	}
}

func TestHTTPBackendIngestMultipart(t *testing.T) {
	t.Parallel()
	var gotName, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ingest" {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		gotName, gotContent = header.Filename, string(b)
		_, _ = io.WriteString(w, `{"status":"ok","filename":"`+header.Filename+`"}`)
	}))
	defer srv.Close()

	receipt, err := queryout.NewHTTPBackend(srv.URL, 0).Ingest(context.Background(), domain.Document{Filename: "paris.txt", Content: []byte("Paris")})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if receipt.Status != "ok" || receipt.Filename != "paris.txt" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if gotName != "paris.txt" || gotContent != "Paris" {
		t.Fatalf("server saw %q %q", gotName, gotContent)
	}
}
