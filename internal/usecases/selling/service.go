package selling

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/retail-sales-api/infrastructure/repository"
	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/query"
	"github.com/vfg2006/retail-sales-api/pkg/apiErrors"
	"github.com/vfg2006/retail-sales-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

type SalesService interface {
	ListSales(ctx context.Context, q domain.SalesQuery) (*domain.SalesPage, error)
	GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

type Service struct {
	repository      repository.SalesRepository
	defaultPageSize int
	maxPageSize     int
	timeout         time.Duration
}

func NewService(repo repository.SalesRepository, cfg config.Query) SalesService {
	return &Service{
		repository:      repo,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		timeout:         cfg.Timeout,
	}
}

// ListSales normaliza a requisição, compila um único plano e busca a página.
// Contagem e dados usam o mesmo plano.
func (s *Service) ListSales(ctx context.Context, q domain.SalesQuery) (*domain.SalesPage, error) {
	q.Normalize(s.defaultPageSize, s.maxPageSize)
	plan := query.NewPlan(q)

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	records, total, err := s.repository.FindPage(ctx, plan)
	if err != nil {
		return nil, s.storageError(ctx, err, "Falha ao consultar vendas")
	}

	return domain.NewSalesPage(records, domain.NewPagination(q.Page, q.PageSize, total)), nil
}

func (s *Service) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	options := &domain.FilterOptions{}
	dimensions := []struct {
		field  query.Field
		target *[]string
	}{
		{query.FieldRegion, &options.Regions},
		{query.FieldGender, &options.Genders},
		{query.FieldCategory, &options.Categories},
		{query.FieldPaymentMethod, &options.PaymentMethods},
	}

	for _, d := range dimensions {
		values, err := s.repository.ListDistinct(ctx, d.field)
		if err != nil {
			return nil, s.storageError(ctx, err, "Falha ao listar valores de "+d.field.Column)
		}
		*d.target = DistinctSorted(values)
	}

	rawTags, err := s.repository.ListRawTags(ctx)
	if err != nil {
		return nil, s.storageError(ctx, err, "Falha ao listar tags")
	}
	options.Tags = SplitTags(rawTags)

	return options, nil
}

func (s *Service) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// storageError classifica a falha do repositório. Nada é repetido automaticamente.
func (s *Service) storageError(ctx context.Context, err error, details string) error {
	logger := log.ForContext(ctx)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.WithError(err).Warn("Consulta de vendas excedeu o prazo")
		return NewSalesError(ErrQueryTimeout, apiErrors.ErrQueryTimeout, details, err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return err
	default:
		logger.WithError(err).Error("Fonte de dados de vendas indisponível")
		return NewSalesError(ErrDataSourceUnavailable, apiErrors.ErrDataSourceUnavailable, details, err)
	}
}

// DistinctSorted remove vazios e repetidos e ordena de forma crescente
func DistinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SplitTags separa cada string de tags por vírgula e retorna a união dos tokens
func SplitTags(raw []string) []string {
	tokens := make([]string, 0, len(raw))
	for _, tags := range raw {
		for _, tag := range strings.Split(tags, ",") {
			tokens = append(tokens, strings.TrimSpace(tag))
		}
	}
	return DistinctSorted(tokens)
}
