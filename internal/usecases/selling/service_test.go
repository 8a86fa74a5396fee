package selling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-sales-api/infrastructure/repository/mocks"
	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/query"
	"github.com/vfg2006/retail-sales-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

// fieldMatcher compara query.Field pela coluna; o acessor é uma função e não é comparável
type fieldMatcher string

func (m fieldMatcher) Matches(x any) bool {
	f, ok := x.(query.Field)
	return ok && f.Column == string(m)
}

func (m fieldMatcher) String() string {
	return fmt.Sprintf("campo %s", string(m))
}

var queryConfig = config.Query{DefaultPageSize: 10, MaxPageSize: 100, Timeout: time.Second}

func TestService_ListSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSalesRepository(ctrl)
	service := NewService(mockRepo, queryConfig)

	tests := []struct {
		name     string
		query    domain.SalesQuery
		total    int64
		setup    func(total int64)
		validate func(t *testing.T, page *domain.SalesPage)
	}{
		{
			name:  "página 1 de 25 itens",
			query: domain.SalesQuery{Page: 1, PageSize: 10},
			total: 25,
			validate: func(t *testing.T, page *domain.SalesPage) {
				assert.Equal(t, domain.Pagination{
					CurrentPage: 1, PageSize: 10, TotalItems: 25, TotalPages: 3,
					HasNextPage: true, HasPreviousPage: false,
				}, page.Pagination)
			},
		},
		{
			name:  "página 3 de 25 itens",
			query: domain.SalesQuery{Page: 3, PageSize: 10},
			total: 25,
			validate: func(t *testing.T, page *domain.SalesPage) {
				assert.Equal(t, 3, page.Pagination.CurrentPage)
				assert.False(t, page.Pagination.HasNextPage)
				assert.True(t, page.Pagination.HasPreviousPage)
			},
		},
		{
			name:  "página zero e tamanho inválido caem nos padrões",
			query: domain.SalesQuery{Page: 0, PageSize: -5},
			total: 3,
			validate: func(t *testing.T, page *domain.SalesPage) {
				assert.Equal(t, 1, page.Pagination.CurrentPage)
				assert.Equal(t, 10, page.Pagination.PageSize)
				assert.Equal(t, int64(1), page.Pagination.TotalPages)
			},
		},
		{
			name:  "tamanho acima do máximo é limitado",
			query: domain.SalesQuery{PageSize: 5000},
			total: 250,
			validate: func(t *testing.T, page *domain.SalesPage) {
				assert.Equal(t, 100, page.Pagination.PageSize)
				assert.Equal(t, int64(3), page.Pagination.TotalPages)
			},
		},
		{
			name:  "sem resultados",
			query: domain.SalesQuery{Regions: []string{"Nowhere"}},
			total: 0,
			validate: func(t *testing.T, page *domain.SalesPage) {
				assert.NotNil(t, page.Data)
				assert.Empty(t, page.Data)
				assert.Equal(t, int64(0), page.Pagination.TotalPages)
				assert.False(t, page.Pagination.HasNextPage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().
				FindPage(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, plan query.Plan) ([]*domain.SaleRecord, int64, error) {
					_, hasDeadline := ctx.Deadline()
					assert.True(t, hasDeadline)
					return []*domain.SaleRecord{}, tt.total, nil
				})

			page, err := service.ListSales(context.Background(), tt.query)
			require.NoError(t, err)
			tt.validate(t, page)
		})
	}
}

func TestService_ListSales_CompilesOnePlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSalesRepository(ctrl)
	service := NewService(mockRepo, queryConfig)

	age := 30
	mockRepo.EXPECT().
		FindPage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan query.Plan) ([]*domain.SaleRecord, int64, error) {
			assert.Len(t, plan.Clauses, 3)
			assert.Equal(t, uint64(20), plan.Offset)
			assert.Equal(t, uint64(10), plan.Limit)
			assert.Equal(t, domain.SortByDate, plan.Sort.Key)
			assert.Equal(t, domain.SortDesc, plan.Sort.Order)

			region := "North"
			return []*domain.SaleRecord{{TransactionID: "T1", CustomerRegion: &region, Age: &age}}, 21, nil
		})

	page, err := service.ListSales(context.Background(), domain.SalesQuery{
		Search:    "john",
		Regions:   []string{"North", ""},
		AgeMin:    &age,
		Genders:   []string{},
		SortBy:    "price",
		SortOrder: "asc",
		Page:      3,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "T1", page.Data[0].TransactionID)
	assert.Equal(t, "North", *page.Data[0].CustomerRegion)
}

func TestService_ListSales_StorageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSalesRepository(ctrl)
	service := NewService(mockRepo, queryConfig)

	t.Run("fonte indisponível", func(t *testing.T) {
		cause := errors.New("unable to open database file")
		mockRepo.EXPECT().FindPage(gomock.Any(), gomock.Any()).Return(nil, int64(0), cause)

		page, err := service.ListSales(context.Background(), domain.SalesQuery{})
		assert.Nil(t, page)
		assert.ErrorIs(t, err, ErrDataSourceUnavailable)

		var salesErr *SalesError
		require.ErrorAs(t, err, &salesErr)
		assert.Equal(t, apiErrors.ErrDataSourceUnavailable, salesErr.Code)
		assert.Equal(t, cause, salesErr.Cause)
	})

	t.Run("prazo excedido", func(t *testing.T) {
		mockRepo.EXPECT().FindPage(gomock.Any(), gomock.Any()).
			Return(nil, int64(0), fmt.Errorf("erro ao contar vendas: %w", context.DeadlineExceeded))

		_, err := service.ListSales(context.Background(), domain.SalesQuery{})
		assert.ErrorIs(t, err, ErrQueryTimeout)
	})

	t.Run("cliente cancelou", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		mockRepo.EXPECT().FindPage(gomock.Any(), gomock.Any()).Return(nil, int64(0), context.Canceled)

		_, err := service.ListSales(ctx, domain.SalesQuery{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrDataSourceUnavailable)
	})
}

func TestService_GetFilterOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSalesRepository(ctrl)
	service := NewService(mockRepo, queryConfig)

	mockRepo.EXPECT().ListDistinct(gomock.Any(), fieldMatcher("customer_region")).
		Return([]string{"North", "", "South", "North"}, nil)
	mockRepo.EXPECT().ListDistinct(gomock.Any(), fieldMatcher("gender")).
		Return([]string{"Male", "Female"}, nil)
	mockRepo.EXPECT().ListDistinct(gomock.Any(), fieldMatcher("product_category")).
		Return([]string{}, nil)
	mockRepo.EXPECT().ListDistinct(gomock.Any(), fieldMatcher("payment_method")).
		Return([]string{"UPI", "Cash", "Credit Card"}, nil)
	mockRepo.EXPECT().ListRawTags(gomock.Any()).
		Return([]string{"summer sale, clearance", "organic,skincare", "clearance", " ,gadgets"}, nil)

	options, err := service.GetFilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"North", "South"}, options.Regions)
	assert.Equal(t, []string{"Female", "Male"}, options.Genders)
	assert.NotNil(t, options.Categories)
	assert.Empty(t, options.Categories)
	assert.Equal(t, []string{"Cash", "Credit Card", "UPI"}, options.PaymentMethods)
	assert.Equal(t, []string{"clearance", "gadgets", "organic", "skincare", "summer sale"}, options.Tags)
}

func TestService_GetFilterOptions_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSalesRepository(ctrl)
	service := NewService(mockRepo, queryConfig)

	mockRepo.EXPECT().ListDistinct(gomock.Any(), fieldMatcher("customer_region")).
		Return(nil, errors.New("no such table: sales"))

	options, err := service.GetFilterOptions(context.Background())
	assert.Nil(t, options)
	assert.ErrorIs(t, err, ErrDataSourceUnavailable)
}

func TestDistinctSorted(t *testing.T) {
	assert.Equal(t, []string{"North", "South"}, DistinctSorted([]string{"North", "", "South", "North"}))
	assert.Equal(t, []string{}, DistinctSorted(nil))
}

func TestSplitTags(t *testing.T) {
	got := SplitTags([]string{"b, a", "a,c", "", " , "})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
