package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
)

type esRequest struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

// fakeElastic répond comme un nœud Elasticsearch minimal
type fakeElastic struct {
	mu       sync.Mutex
	requests []esRequest
	failing  bool
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, esRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
	failing := f.failing
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case failing:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"parsing_exception"},"status":400}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":7,"relation":"eq"},"hits":[{"_id":"b"},{"_id":"a"}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func (f *fakeElastic) last() esRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newElasticSearcher(t *testing.T) (*ElasticSearcher, *fakeElastic) {
	t.Helper()
	fake := &fakeElastic{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewElasticSearcher(client, "products"), fake
}

func TestElasticIndex(t *testing.T) {
	es, fake := newElasticSearcher(t)
	p := &models.Product{ID: primitive.NewObjectID(), Name: "Robe", Slug: "robe", Category: "robes", Price: 40, Stock: 2}
	p.Normalize()

	require.NoError(t, es.Index(context.Background(), p))

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/products/_doc/"+p.ID.Hex(), req.path)
	assert.Contains(t, req.query, "refresh=true")
	assert.Equal(t, "robe", req.body["slug"])
	assert.Equal(t, "robes", req.body["category"])
	assert.EqualValues(t, 2, req.body["stock"])
}

func TestElasticSearch(t *testing.T) {
	es, fake := newElasticSearcher(t)

	ids, total, err := es.Search(context.Background(), "robe", 24, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids, "ordre de pertinence")
	assert.Equal(t, int64(7), total)

	req := fake.last()
	assert.Equal(t, "/products/_search", req.path)
	assert.Contains(t, req.query, "track_total_hits=true")
	assert.EqualValues(t, 24, req.body["from"])
	assert.EqualValues(t, 12, req.body["size"])
	match := req.body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "robe", match["query"])

	fake.mu.Lock()
	fake.failing = true
	fake.mu.Unlock()
	_, _, err = es.Search(context.Background(), "robe", 0, 12)
	assert.Error(t, err)
}

func TestElasticDeleteIgnoresMissingDocument(t *testing.T) {
	es, fake := newElasticSearcher(t)

	require.NoError(t, es.Delete(context.Background(), "absent"))
	assert.Equal(t, http.MethodDelete, fake.last().method)
	assert.Equal(t, "/products/_doc/absent", fake.last().path)
}
