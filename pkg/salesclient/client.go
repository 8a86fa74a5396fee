package salesclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	ListSales(ctx context.Context, q domain.SalesQuery) (*Page, error)
	GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

// Record é uma venda como a API a devolve, com os valores monetários exatos
type Record struct {
	TransactionID   string          `json:"Transaction ID"`
	Date            string          `json:"Date"`
	CustomerID      *string         `json:"Customer ID"`
	CustomerName    string          `json:"Customer Name"`
	PhoneNumber     string          `json:"Phone Number"`
	Gender          *string         `json:"Gender"`
	Age             *int            `json:"Age"`
	ProductCategory string          `json:"Product Category"`
	ProductName     string          `json:"Product Name"`
	Quantity        int             `json:"Quantity"`
	TotalAmount     decimal.Decimal `json:"Total Amount"`
	FinalAmount     decimal.Decimal `json:"Final Amount"`
	CustomerRegion  *string         `json:"Customer Region"`
	ProductID       *string         `json:"Product ID"`
	EmployeeName    *string         `json:"Employee Name"`
}

type Page struct {
	Data       []Record          `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

type SalesClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient cria o cliente da API de vendas. baseURL aponta para a raiz do servidor.
func NewClient(baseURL string) Client {
	return &SalesClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *SalesClient) ListSales(ctx context.Context, q domain.SalesQuery) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/api/sales", EncodeQuery(q), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *SalesClient) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	var options domain.FilterOptions
	if err := c.get(ctx, "/api/sales/filters", nil, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

func (c *SalesClient) get(ctx context.Context, route string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, route)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrors.APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("requisição falhou com status: %s", resp.Status)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return nil
}

// EncodeQuery converte a consulta para os parâmetros aceitos por /api/sales
func EncodeQuery(q domain.SalesQuery) url.Values {
	values := url.Values{}

	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for key, list := range map[string][]string{
		"regions":        q.Regions,
		"genders":        q.Genders,
		"categories":     q.Categories,
		"paymentMethods": q.PaymentMethods,
		"tags":           q.Tags,
	} {
		for _, v := range list {
			values.Add(key, v)
		}
	}
	if q.AgeMin != nil {
		values.Set("ageMin", strconv.Itoa(*q.AgeMin))
	}
	if q.AgeMax != nil {
		values.Set("ageMax", strconv.Itoa(*q.AgeMax))
	}
	if q.DateFrom != nil {
		values.Set("dateFrom", *q.DateFrom)
	}
	if q.DateTo != nil {
		values.Set("dateTo", *q.DateTo)
	}
	if q.SortBy != "" {
		values.Set("sortBy", string(q.SortBy))
	}
	if q.SortOrder != "" {
		values.Set("sortOrder", string(q.SortOrder))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	return values
}
