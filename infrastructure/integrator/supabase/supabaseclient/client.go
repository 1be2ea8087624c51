package supabaseclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/margareth/analytics-api/internal/config"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 15 * time.Second

// Operadores de filtro do PostgREST
const (
	OpEq  = "eq"
	OpGte = "gte"
)

type Filter struct {
	Column   string
	Operator string
	Value    string
}

// SelectParams descreve uma consulta a uma tabela exposta pelo PostgREST
type SelectParams struct {
	Columns   []string
	Filters   []Filter
	OrderDesc string // coluna ordenada de forma decrescente
	Limit     uint64
}

type Client interface {
	Select(ctx context.Context, table string, params SelectParams, out any) error
}

type SupabaseClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient cria o cliente REST do Supabase; RequestsPerSecond zero desabilita o limite
func NewClient(cfg config.Supabase) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	return &SupabaseClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *SupabaseClient) Select(ctx context.Context, table string, params SelectParams, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limite de requisições ao supabase: %w", err)
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "/rest/v1", table)
	endpoint.RawQuery = buildQuery(params).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("requisição para %s falhou com status %s: %s", table, resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return nil
}

func buildQuery(params SelectParams) url.Values {
	query := url.Values{}

	columns := "*"
	if len(params.Columns) > 0 {
		columns = strings.Join(params.Columns, ",")
	}
	query.Set("select", columns)

	for _, filter := range params.Filters {
		query.Add(filter.Column, filter.Operator+"."+filter.Value)
	}

	if params.OrderDesc != "" {
		query.Set("order", params.OrderDesc+".desc")
	}

	if params.Limit > 0 {
		query.Set("limit", strconv.FormatUint(params.Limit, 10))
	}

	return query
}
