package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/snapshot"
	"github.com/vfg2006/retail-sales-api/pkg/log"
)

// ErrReloadInProgress indica que já existe uma recarga em execução
var ErrReloadInProgress = errors.New("recarga do snapshot já em andamento")

// Reloader é a parte do snapshot.Store usada pelo agendador
type Reloader interface {
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
	Current() *snapshot.Snapshot
}

// SnapshotReloadConfig representa a configuração do agendador de recarga
type SnapshotReloadConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// SnapshotReloadStatus é o retrato exposto em /api/admin/snapshot/status
type SnapshotReloadStatus struct {
	Enabled          bool       `json:"enabled"`
	CronSchedule     string     `json:"cron"`
	Running          bool       `json:"running"`
	LastStartedAt    *time.Time `json:"lastStartedAt,omitempty"`
	LastCompletedAt  *time.Time `json:"lastCompletedAt,omitempty"`
	LastError        string     `json:"lastError,omitempty"`
	SnapshotVersion  string     `json:"snapshotVersion,omitempty"`
	SnapshotLoadedAt *time.Time `json:"snapshotLoadedAt,omitempty"`
	SnapshotRows     int        `json:"snapshotRows"`
	UnparseableDates int        `json:"unparseableDates"`
}

// SnapshotReloadService agenda a recarga do snapshot em memória a partir do CSV
type SnapshotReloadService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotReloadConfig
	store               Reloader
	baseCtx             context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       error
}

func NewSnapshotReloadService(store Reloader, appConfig *config.Config) *SnapshotReloadService {
	reloadConfig := SnapshotReloadConfig{
		CronSchedule: appConfig.SnapshotReload.CronSchedule,
		SyncEnabled:  appConfig.SnapshotReload.Enabled,
	}

	log.L.WithFields(log.Fields{
		"snapshot_cron":    reloadConfig.CronSchedule,
		"snapshot_enabled": reloadConfig.SyncEnabled,
	}).Info("Configuração do agendador de recarga do snapshot carregada")

	return &SnapshotReloadService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    reloadConfig,
		store:     store,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador. Com a recarga desabilitada, só a recarga manual fica disponível.
func (s *SnapshotReloadService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		log.L.Info("Recarga agendada do snapshot desabilitada por configuração")
		return nil
	}

	log.L.WithField("snapshot_cron", s.config.CronSchedule).Info("Iniciando agendador de recarga do snapshot")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, ok := s.tryAcquire(); !ok {
			log.L.Info("Recarga do snapshot já em andamento, ignorando")
			return
		}
		s.reload(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recarga do snapshot: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de recarga do snapshot")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara uma recarga em segundo plano
func (s *SnapshotReloadService) TriggerManualSync() error {
	ctx, ok := s.tryAcquire()
	if !ok {
		log.L.Info("Recarga do snapshot já em andamento, ignorando solicitação manual")
		return ErrReloadInProgress
	}

	log.L.Info("Iniciando recarga manual do snapshot")
	go s.reload(ctx)

	return nil
}

// tryAcquire reserva a execução e devolve o contexto base lido sob o mesmo lock
func (s *SnapshotReloadService) tryAcquire() (context.Context, bool) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return nil, false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return s.baseCtx, true
}

// reload assume que tryAcquire já reservou a execução
func (s *SnapshotReloadService) reload(ctx context.Context) {
	_, err := s.store.Reload(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncError = err
	if err != nil {
		log.L.WithError(err).Error("Recarga do snapshot falhou, o snapshot anterior continua publicado")
		return
	}
	s.lastSyncCompletedAt = time.Now()
}

// GetStatus retorna o status atual do agendador e do snapshot publicado
func (s *SnapshotReloadService) GetStatus() SnapshotReloadStatus {
	s.syncMutex.Lock()
	status := SnapshotReloadStatus{
		Enabled:         s.config.SyncEnabled,
		CronSchedule:    s.config.CronSchedule,
		Running:         s.syncRunning,
		LastStartedAt:   timePtr(s.lastSyncStartedAt),
		LastCompletedAt: timePtr(s.lastSyncCompletedAt),
	}
	if s.lastSyncError != nil {
		status.LastError = s.lastSyncError.Error()
	}
	s.syncMutex.Unlock()

	if snap := s.store.Current(); snap != nil {
		status.SnapshotVersion = snap.Version()
		status.SnapshotLoadedAt = timePtr(snap.LoadedAt())
		status.SnapshotRows = snap.Len()
		status.UnparseableDates = snap.Report().UnparseableDates
	}

	return status
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
