package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/usecases/selling"
	"github.com/vfg2006/retail-sales-api/pkg/apiErrors"
	"github.com/vfg2006/retail-sales-api/pkg/log"
	"github.com/vfg2006/retail-sales-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseSalesQuery lê os parâmetros da listagem. Valores malformados nunca rejeitam a requisição.
func ParseSalesQuery(r *http.Request) domain.SalesQuery {
	values := r.URL.Query()

	return domain.SalesQuery{
		Search:         values.Get("search"),
		Regions:        utils.QueryValues(values, "regions"),
		Genders:        utils.QueryValues(values, "genders"),
		Categories:     utils.QueryValues(values, "categories"),
		PaymentMethods: utils.QueryValues(values, "paymentMethods"),
		Tags:           utils.QueryValues(values, "tags"),
		AgeMin:         utils.QueryIntPtr(values, "ageMin"),
		AgeMax:         utils.QueryIntPtr(values, "ageMax"),
		DateFrom:       utils.QueryStringPtr(values, "dateFrom"),
		DateTo:         utils.QueryStringPtr(values, "dateTo"),
		SortBy:         domain.SortKey(values.Get("sortBy")),
		SortOrder:      domain.SortOrder(values.Get("sortOrder")),
		Page:           utils.QueryInt(values, "page", domain.DefaultPage),
		PageSize:       utils.QueryInt(values, "pageSize", 0),
	}
}

// ListSales retorna uma página de vendas com o envelope de paginação
func ListSales(service selling.SalesService, isDevelopment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := service.ListSales(r.Context(), ParseSalesQuery(r))
		if err != nil {
			writeSalesError(w, r, err, "Não foi possível consultar as vendas", isDevelopment)
			return
		}

		writeJSON(w, r, http.StatusOK, page)
	}
}

// GetFilterOptions retorna os valores disponíveis para cada filtro
func GetFilterOptions(service selling.SalesService, isDevelopment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := service.GetFilterOptions(r.Context())
		if err != nil {
			writeSalesError(w, r, err, "Não foi possível obter as opções de filtro", isDevelopment)
			return
		}

		writeJSON(w, r, http.StatusOK, options)
	}
}

type errorDetails struct {
	Hint  string `json:"hint,omitempty"`
	Cause string `json:"cause,omitempty"`
}

// writeSalesError traduz o erro do caso de uso para a resposta padronizada.
// A causa original só aparece em desenvolvimento.
func writeSalesError(w http.ResponseWriter, r *http.Request, err error, message string, isDevelopment bool) {
	logger := log.ForContext(r.Context())

	var salesErr *selling.SalesError
	if !errors.As(err, &salesErr) {
		if errors.Is(err, r.Context().Err()) {
			logger.WithError(err).Warn("Requisição cancelada pelo cliente")
			return
		}
		logger.WithError(err).Error("Erro inesperado nas vendas")
		details := errorDetails{}
		if isDevelopment {
			details.Cause = err.Error()
		}
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, message, detailsOrNil(details))
		return
	}

	details := errorDetails{}
	if errors.Is(err, selling.ErrDataSourceUnavailable) {
		details.Hint = selling.RemediationHint
	}
	if isDevelopment && salesErr.Cause != nil {
		details.Cause = salesErr.Cause.Error()
	}

	apiErrors.WriteError(w, salesErr.Code, message, detailsOrNil(details))
}

func detailsOrNil(d errorDetails) any {
	if d == (errorDetails{}) {
		return nil
	}
	return d
}
