package shipments

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

const (
	datasetKey = "shipments"

	// buildTimeout bounds a rebuild that no longer follows its caller's context.
	buildTimeout = 5 * time.Minute
)

// Archiver stores the season aggregate of a successful refresh.
type Archiver interface {
	SaveSeasonSnapshot(ctx context.Context, snapshot models.SeasonSnapshot) error
}

// Service owns the cached dataset. A refresh outcome, failure included, is
// served until the TTL elapses or Invalidate is called.
type Service struct {
	loader   *Loader
	source   string
	archiver Archiver
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	current *outcome
}

type outcome struct {
	dataset *models.Dataset
	err     error
	at      time.Time
}

// NewService wires a shipment service. archiver may be nil.
func NewService(loader *Loader, archiver Archiver, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	source := ""
	if loader != nil && loader.source != nil {
		source = loader.source.Name()
	}
	return &Service{
		loader:   loader,
		source:   source,
		archiver: archiver,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Dataset returns the cached dataset, rebuilding it when the cache is empty
// or expired. Concurrent callers share a single rebuild, which keeps running
// when the caller that started it goes away. A rebuild cut short by its own
// timeout is not cached.
func (s *Service) Dataset(ctx context.Context) (*models.Dataset, error) {
	if o, ok := s.cached(); ok {
		return o.dataset, o.err
	}

	ch := s.group.DoChan(datasetKey, func() (interface{}, error) {
		if o, ok := s.cached(); ok {
			return o, nil
		}
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), buildTimeout)
		defer cancel()

		ds, err := s.build(buildCtx)
		if isContextError(err) {
			return outcome{err: err, at: s.now()}, nil
		}
		return s.store(ds, err), nil
	})

	select {
	case res := <-ch:
		o := res.Val.(outcome)
		return o.dataset, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh drops the cached outcome and rebuilds immediately.
func (s *Service) Refresh(ctx context.Context) (*models.Dataset, error) {
	s.Invalidate()
	return s.Dataset(ctx)
}

// Invalidate forgets the cached outcome.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *Service) cached() (outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.now().Sub(s.current.at) >= s.ttl {
		return outcome{}, false
	}
	return *s.current, true
}

func (s *Service) store(ds *models.Dataset, err error) outcome {
	o := outcome{dataset: ds, err: err, at: s.now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &o
	return o
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Service) build(ctx context.Context) (*models.Dataset, error) {
	start := s.now()

	rows, err := s.loader.Load(ctx)
	if err != nil {
		if errors.Is(err, models.ErrMissingInputFile) {
			s.logger.Error("shipment workbook missing", zap.String("source", s.source), zap.Error(err))
			return nil, err
		}
		s.logger.Error("shipment load failed", zap.String("source", s.source), zap.Error(err))
		return nil, &PipelineError{Stage: "load", Err: err}
	}

	ds, err := Derive(rows)
	if err != nil {
		s.logger.Error("shipment derivation failed", zap.Error(err))
		return nil, err
	}
	ds.LoadedAt = s.now()

	s.logger.Info("shipments refreshed",
		zap.String("source", s.source),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(ds.Records)),
		zap.Int("seasons", len(ds.SeasonVolumes)),
		zap.Duration("duration", s.now().Sub(start)))

	s.archive(ctx, ds)
	return ds, nil
}

func (s *Service) archive(ctx context.Context, ds *models.Dataset) {
	if s.archiver == nil {
		return
	}
	snapshot := models.SeasonSnapshot{
		RefreshedAt: ds.LoadedAt,
		Source:      s.source,
		Records:     len(ds.Records),
		TotalTonnes: ds.TotalTonnes(),
		Seasons:     ds.SeasonVolumes,
	}
	if err := s.archiver.SaveSeasonSnapshot(ctx, snapshot); err != nil {
		s.logger.Warn("failed archiving season snapshot", zap.Error(err))
	}
}
