package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-sales-api/infrastructure/loader"
	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/snapshot"
	"github.com/vfg2006/retail-sales-api/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

type blockingLoader struct {
	release chan struct{}
	err     error
}

func (l *blockingLoader) Load(ctx context.Context) ([]*domain.SaleRecord, loader.Report, error) {
	if l.release != nil {
		<-l.release
	}
	if l.err != nil {
		return nil, loader.Report{}, l.err
	}
	return []*domain.SaleRecord{
		{TransactionID: "1", Date: "2023-01-01"},
		{TransactionID: "2", Date: "2023-01-02"},
	}, loader.Report{Rows: 3, UnparseableDates: 1}, nil
}

func newService(l snapshot.Loader) (*SnapshotReloadService, *snapshot.Store) {
	store := snapshot.NewStore(l)
	cfg := &config.Config{SnapshotReload: config.SnapshotReload{CronSchedule: "0 3 * * *"}}
	return NewSnapshotReloadService(store, cfg), store
}

func TestSnapshotReloadService_TriggerManualSync(t *testing.T) {
	service, store := newService(&blockingLoader{})

	require.NoError(t, service.TriggerManualSync())

	assert.Eventually(t, func() bool {
		return store.Current() != nil && !service.GetStatus().Running
	}, time.Second, 10*time.Millisecond)

	status := service.GetStatus()
	assert.Equal(t, 2, status.SnapshotRows)
	assert.Equal(t, 1, status.UnparseableDates)
	assert.NotEmpty(t, status.SnapshotVersion)
	assert.NotNil(t, status.LastCompletedAt)
	assert.Empty(t, status.LastError)
	assert.False(t, status.Enabled)
}

func TestSnapshotReloadService_OnlyOneReloadAtATime(t *testing.T) {
	l := &blockingLoader{release: make(chan struct{})}
	service, _ := newService(l)

	require.NoError(t, service.TriggerManualSync())
	assert.ErrorIs(t, service.TriggerManualSync(), ErrReloadInProgress)
	assert.True(t, service.GetStatus().Running)

	close(l.release)

	assert.Eventually(t, func() bool {
		return !service.GetStatus().Running
	}, time.Second, 10*time.Millisecond)
	assert.NoError(t, service.TriggerManualSync())
}

func TestSnapshotReloadService_FailureKeepsPreviousSnapshot(t *testing.T) {
	l := &blockingLoader{}
	service, store := newService(l)

	_, err := store.Reload(context.Background())
	require.NoError(t, err)
	version := store.Current().Version()

	l.err = errors.New("arquivo indisponível")
	require.NoError(t, service.TriggerManualSync())

	assert.Eventually(t, func() bool {
		return service.GetStatus().LastError != ""
	}, time.Second, 10*time.Millisecond)

	status := service.GetStatus()
	assert.Equal(t, version, status.SnapshotVersion)
	assert.Contains(t, status.LastError, "arquivo indisponível")
	assert.Nil(t, status.LastCompletedAt)
}

func TestSnapshotReloadService_StartDisabled(t *testing.T) {
	service, _ := newService(&blockingLoader{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, service.Start(ctx))
}

func TestSnapshotReloadService_StartInvalidCron(t *testing.T) {
	store := snapshot.NewStore(&blockingLoader{})
	cfg := &config.Config{SnapshotReload: config.SnapshotReload{CronSchedule: "todo dia", Enabled: true}}
	service := NewSnapshotReloadService(store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, service.Start(ctx))
}

type contextKey string

type contextRecordingLoader struct {
	seen chan context.Context
}

func (l *contextRecordingLoader) Load(ctx context.Context) ([]*domain.SaleRecord, loader.Report, error) {
	l.seen <- ctx
	return nil, loader.Report{}, nil
}

func TestSnapshotReloadService_ManualSyncUsesStartContext(t *testing.T) {
	l := &contextRecordingLoader{seen: make(chan context.Context, 4)}
	service, _ := newService(l)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), contextKey("origem"), "start"))
	defer cancel()

	require.NoError(t, service.Start(ctx))
	require.NoError(t, service.TriggerManualSync())

	select {
	case got := <-l.seen:
		assert.Equal(t, "start", got.Value(contextKey("origem")))
	case <-time.After(time.Second):
		t.Fatal("recarga manual não chamou o loader")
	}
}

func TestSnapshotReloadService_StartRacesWithManualSync(t *testing.T) {
	l := &contextRecordingLoader{seen: make(chan context.Context, 4)}
	service, _ := newService(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = service.Start(ctx) }()
	require.NoError(t, service.TriggerManualSync())

	select {
	case got := <-l.seen:
		assert.NotNil(t, got)
	case <-time.After(time.Second):
		t.Fatal("recarga manual não chamou o loader")
	}
}
