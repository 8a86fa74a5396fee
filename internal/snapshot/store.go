// Package snapshot mantém o conjunto de vendas em memória para DATA_SOURCE=csv.
//
// Um Snapshot nunca é alterado depois de criado. A recarga constrói um novo e o
// troca atomicamente; leituras em andamento continuam com o snapshot que pegaram.
package snapshot

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vfg2006/retail-sales-api/infrastructure/loader"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/query"
	"github.com/vfg2006/retail-sales-api/pkg/log"
)

var ErrSnapshotNotLoaded = errors.New("snapshot: dados ainda não carregados")

type Loader interface {
	Load(ctx context.Context) ([]*domain.SaleRecord, loader.Report, error)
}

// dimensões pré-calculadas na criação do snapshot
var indexedFields = []query.Field{
	query.FieldRegion,
	query.FieldGender,
	query.FieldCategory,
	query.FieldPaymentMethod,
	query.FieldTags,
}

type Snapshot struct {
	version  string
	loadedAt time.Time
	records  []*domain.SaleRecord
	report   loader.Report
	distinct map[string][]string
}

// New cria um snapshot imutável. O slice é copiado.
func New(records []*domain.SaleRecord, report loader.Report) (*Snapshot, error) {
	version, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	owned := make([]*domain.SaleRecord, len(records))
	copy(owned, records)

	s := &Snapshot{
		version:  version,
		loadedAt: time.Now(),
		records:  owned,
		report:   report,
		distinct: make(map[string][]string, len(indexedFields)),
	}
	for _, f := range indexedFields {
		s.distinct[f.Column] = distinctValues(owned, f)
	}

	return s, nil
}

func (s *Snapshot) Version() string       { return s.version }
func (s *Snapshot) LoadedAt() time.Time   { return s.loadedAt }
func (s *Snapshot) Len() int              { return len(s.records) }
func (s *Snapshot) Report() loader.Report { return s.report }

// Page filtra, ordena e recorta os registros com a mesma semântica do SQL
func (s *Snapshot) Page(plan query.Plan) ([]*domain.SaleRecord, int64) {
	matched := make([]*domain.SaleRecord, 0, len(s.records)/4)
	for _, r := range s.records {
		if plan.Match(r) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return plan.Sort.Less(matched[i], matched[j])
	})

	total := int64(len(matched))
	start := plan.Offset
	if start >= uint64(len(matched)) {
		return []*domain.SaleRecord{}, total
	}

	end := uint64(len(matched))
	if plan.Limit > 0 && start+plan.Limit < end {
		end = start + plan.Limit
	}

	return matched[start:end], total
}

// Distinct retorna os valores distintos, não nulos e não vazios do campo
func (s *Snapshot) Distinct(f query.Field) []string {
	if values, ok := s.distinct[f.Column]; ok {
		return append([]string{}, values...)
	}
	return distinctValues(s.records, f)
}

func distinctValues(records []*domain.SaleRecord, f query.Field) []string {
	seen := map[string]struct{}{}
	values := []string{}
	for _, r := range records {
		v, ok := f.Value(r)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Store publica o snapshot atual e implementa o repositório de vendas sobre ele
type Store struct {
	loader  Loader
	current atomic.Pointer[Snapshot]
}

func NewStore(l Loader) *Store {
	return &Store{loader: l}
}

// Current retorna o snapshot publicado ou nil
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload carrega um novo snapshot e o publica. Em caso de erro o anterior permanece.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	logger := log.ForContext(ctx)
	start := time.Now()

	records, report, err := s.loader.Load(ctx)
	if err != nil {
		logger.WithError(err).Error("Erro ao carregar dados para o snapshot")
		return nil, err
	}

	next, err := New(records, report)
	if err != nil {
		return nil, err
	}

	previous := s.current.Swap(next)

	fields := log.Fields{
		"snapshot_version":     next.Version(),
		"snapshot_rows":        next.Len(),
		"snapshot_bad_dates":   report.UnparseableDates,
		"snapshot_duration_ms": time.Since(start).Milliseconds(),
	}
	if previous != nil {
		fields["snapshot_previous_version"] = previous.Version()
	}
	logger.WithFields(fields).Info("Snapshot de vendas publicado")

	if report.UnparseableDates > 0 {
		logger.WithField("snapshot_bad_dates", report.UnparseableDates).
			Warn("Datas fora do formato ISO ficam fora dos filtros de data")
	}

	return next, nil
}

func (s *Store) FindPage(ctx context.Context, plan query.Plan) ([]*domain.SaleRecord, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	snap := s.current.Load()
	if snap == nil {
		return nil, 0, ErrSnapshotNotLoaded
	}

	records, total := snap.Page(plan)
	return records, total, nil
}

func (s *Store) ListDistinct(ctx context.Context, field query.Field) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := s.current.Load()
	if snap == nil {
		return nil, ErrSnapshotNotLoaded
	}

	return snap.Distinct(field), nil
}

func (s *Store) ListRawTags(ctx context.Context) ([]string, error) {
	return s.ListDistinct(ctx, query.FieldTags)
}
