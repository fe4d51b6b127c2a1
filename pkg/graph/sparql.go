package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/triples"
)

// DefaultHTTPTimeout bounds every store round trip.
var DefaultHTTPTimeout = 120 * time.Second

// SPARQLClient implements the store contract against a SPARQL 1.1
// endpoint over HTTP: a query endpoint for reads and an update endpoint
// for statement batches.
type SPARQLClient struct {
	queryEndpoint  string
	updateEndpoint string
	http           *http.Client
}

// SPARQLOption configures a SPARQLClient.
type SPARQLOption func(*SPARQLClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) SPARQLOption {
	return func(s *SPARQLClient) {
		if c != nil {
			s.http = c
		}
	}
}

// WithUpdateEndpoint sets a separate update endpoint. Defaults to the
// query endpoint.
func WithUpdateEndpoint(endpoint string) SPARQLOption {
	return func(s *SPARQLClient) {
		if endpoint != "" {
			s.updateEndpoint = endpoint
		}
	}
}

// NewSPARQLClient creates a client for the given query endpoint.
func NewSPARQLClient(queryEndpoint string, opts ...SPARQLOption) *SPARQLClient {
	c := &SPARQLClient{
		queryEndpoint:  queryEndpoint,
		updateEndpoint: queryEndpoint,
		http:           &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sparqlResults is the SPARQL 1.1 JSON results envelope.
type sparqlResults struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// EntitiesWithProperty implements Store.
func (c *SPARQLClient) EntitiesWithProperty(ctx context.Context, typeIRI, keyPredicate string) ([]Binding, error) {
	query := fmt.Sprintf(
		"SELECT ?uri ?value WHERE { ?uri <%s> <%s> . ?uri <%s> ?value . }",
		"http://www.w3.org/1999/02/22-rdf-syntax-ns#type", typeIRI, keyPredicate)

	res, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	bindings := make([]Binding, 0, len(res.Results.Bindings))
	for _, row := range res.Results.Bindings {
		b := Binding{}
		for name, cell := range row {
			b[name] = cell.Value
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// TriplesFor implements Store.
func (c *SPARQLClient) TriplesFor(ctx context.Context, entity string) ([]triples.Statement, error) {
	query := fmt.Sprintf("SELECT ?p ?o WHERE { <%s> ?p ?o . }", entity)

	res, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	stmts := make([]triples.Statement, 0, len(res.Results.Bindings))
	for _, row := range res.Results.Bindings {
		p, ok := row["p"]
		if !ok {
			continue
		}
		o, ok := row["o"]
		if !ok {
			continue
		}
		stmts = append(stmts, triples.Statement{
			Subject:   entity,
			Predicate: p.Value,
			Object:    o.Value,
			Literal:   o.Type == "literal" || o.Type == "typed-literal",
		})
	}
	return stmts, nil
}

// Publish implements Publisher. Additions become one INSERT DATA
// request, retractions one DELETE DATA request; the store applies each
// batch atomically.
func (c *SPARQLClient) Publish(ctx context.Context, batch *triples.Batch) error {
	if batch == nil || batch.Empty() {
		return nil
	}

	verb := "INSERT DATA"
	if batch.Kind == triples.Retraction {
		verb = "DELETE DATA"
	}
	update := fmt.Sprintf("%s {\n%s}", verb, batch.NTriples())

	form := url.Values{"update": {update}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.updateEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return errors.WrapPublish(c.updateEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapPublish(c.updateEndpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.WrapPublish(c.updateEndpoint,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}

// query posts a SELECT and decodes the JSON results envelope.
func (c *SPARQLClient) query(ctx context.Context, query string) (*sparqlResults, error) {
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WrapQuery(c.queryEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapQuery(c.queryEndpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.WrapQuery(c.queryEndpoint,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var res sparqlResults
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.WrapQuery(c.queryEndpoint, err)
	}
	return &res, nil
}
