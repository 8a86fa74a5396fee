package handler

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/vfg2006/retail-sales-api/internal/api/handler/router"
	"github.com/vfg2006/retail-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-sales-api/internal/usecases/selling"
	"github.com/vfg2006/retail-sales-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/api/health",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sales(service selling.SalesService, isDevelopment bool) []router.Route {
	return []router.Route{
		{
			Path:    "/api/sales",
			Method:  http.MethodGet,
			Handler: ListSales(service, isDevelopment),
		},
		{
			Path:    "/api/sales/filters",
			Method:  http.MethodGet,
			Handler: GetFilterOptions(service, isDevelopment),
		},
	}
}

// Snapshot registra as rotas administrativas. reloader nil responde SRV_008.
// Qualquer perfil consulta o status; só operadores disparam a recarga.
func Snapshot(reloader SnapshotReloader, authenticator authenticating.Authenticator) []router.Route {
	operatorOnly := []alice.Constructor{
		middleware.AuthMiddleware(authenticator),
		middleware.OperatorOnly(),
	}
	anyRole := []alice.Constructor{
		middleware.AuthMiddleware(authenticator),
		middleware.AllRoles(),
	}

	return []router.Route{
		{
			Path:        "/api/admin/snapshot/reload",
			Method:      http.MethodPost,
			Handler:     ReloadSnapshot(reloader),
			Middlewares: operatorOnly,
		},
		{
			Path:        "/api/admin/snapshot/status",
			Method:      http.MethodGet,
			Handler:     GetSnapshotStatus(reloader),
			Middlewares: anyRole,
		},
	}
}
