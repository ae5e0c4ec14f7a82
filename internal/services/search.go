package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"storefront_back_end/internal/models"
)

// Searcher indexe et recherche les produits hors MongoDB
type Searcher interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (ids []string, total int64, err error)
}

type ElasticSearcher struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticSearcher(client *elasticsearch.Client, index string) *ElasticSearcher {
	return &ElasticSearcher{client: client, index: index}
}

// document indexé : seuls les champs utiles à la recherche
type productDocument struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Colors      []string `json:"colors"`
	FinalPrice  float64  `json:"final_price"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
}

// Index indexe un produit ; Refresh rend la donnée immédiatement visible
func (e *ElasticSearcher) Index(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(productDocument{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Colors:      p.Colors,
		FinalPrice:  p.FinalPrice,
		Stock:       p.Stock,
		Rating:      p.Rating,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: p.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	}
	log.Printf("✅ Produit indexé dans Elasticsearch: %s", p.Name)
	return nil
}

func (e *ElasticSearcher) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: e.index, DocumentID: id, Refresh: "true"}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elastic delete %s: %s", id, res.String())
	}
	return nil
}

// Search renvoie les identifiants triés par pertinence
func (e *ElasticSearcher) Search(ctx context.Context, query string, from, size int) ([]string, int64, error) {
	var buf bytes.Buffer
	q := map[string]interface{}{
		"from":    from,
		"size":    size,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "brand^2", "category", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, 0, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index:          []string{e.index},
		Body:           &buf,
		TrackTotalHits: true,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, errors.New("elastic: " + strings.TrimSpace(res.String()))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, r.Hits.Total.Value, nil
}
