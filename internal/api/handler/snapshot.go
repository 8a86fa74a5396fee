package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/retail-sales-api/internal/scheduler"
	"github.com/vfg2006/retail-sales-api/pkg/apiErrors"
	"github.com/vfg2006/retail-sales-api/pkg/log"
	"github.com/vfg2006/retail-sales-api/pkg/middleware"
)

// SnapshotReloader é implementado por scheduler.SnapshotReloadService
type SnapshotReloader interface {
	TriggerManualSync() error
	GetStatus() scheduler.SnapshotReloadStatus
}

const reloadUnavailableMessage = "Recarga disponível apenas com DATA_SOURCE=csv"

// ReloadSnapshot dispara a recarga manual do snapshot em memória
func ReloadSnapshot(reloader SnapshotReloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reloader == nil {
			apiErrors.WriteError(w, apiErrors.ErrReloadUnavailable, reloadUnavailableMessage, nil)
			return
		}

		logger := log.ForContext(r.Context())
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			logger = logger.WithField("snapshot_requested_by", claims.Subject)
		}

		if err := reloader.TriggerManualSync(); err != nil {
			if errors.Is(err, scheduler.ErrReloadInProgress) {
				apiErrors.WriteError(w, apiErrors.ErrReloadInProgress, "Já existe uma recarga em andamento", nil)
				return
			}
			logger.WithError(err).Error("Erro ao disparar recarga do snapshot")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao disparar recarga", nil)
			return
		}

		logger.Info("Recarga do snapshot solicitada")
		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Recarga do snapshot iniciada",
		})
	}
}

// GetSnapshotStatus retorna o status do agendador e do snapshot publicado
func GetSnapshotStatus(reloader SnapshotReloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reloader == nil {
			apiErrors.WriteError(w, apiErrors.ErrReloadUnavailable, reloadUnavailableMessage, nil)
			return
		}

		writeJSON(w, r, http.StatusOK, reloader.GetStatus())
	}
}
