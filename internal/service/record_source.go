package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/technician-sla-api/internal/models"
)

type recordFetcher interface {
	FetchAll(ctx context.Context) ([]models.RawRecord, error)
}

type snapshotFetcher interface {
	FetchAll() ([]models.RawRecord, error)
}

// RecordSource loads the raw technician table with a fixed fallback chain:
// live source, then static snapshot, then an empty table. It never returns an
// error; source trouble is logged and counted, and the dashboard renders
// empty rather than failing.
type RecordSource struct {
	primary  recordFetcher
	snapshot snapshotFetcher
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewRecordSource constructs a record source.
func NewRecordSource(primary recordFetcher, snapshot snapshotFetcher, metrics *MetricsService, logger *zap.Logger) *RecordSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordSource{primary: primary, snapshot: snapshot, metrics: metrics, logger: logger}
}

// Load fetches every raw record for one request-scoped computation.
func (s *RecordSource) Load(ctx context.Context) []models.RawRecord {
	if s.primary != nil {
		start := time.Now()
		records, err := s.primary.FetchAll(ctx)
		if s.metrics != nil {
			s.metrics.ObserveSourceFetch(time.Since(start), err == nil)
		}
		if err == nil {
			if len(records) == 0 {
				s.noteEmpty("source table returned no rows")
			}
			return records
		}
		s.logger.Warn("record source fetch failed, falling back to snapshot", zap.Error(err))
	}

	if s.snapshot != nil {
		records, err := s.snapshot.FetchAll()
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordSnapshotFallback()
			}
			s.logger.Info("serving records from snapshot", zap.Int("rows", len(records)))
			return records
		}
		s.logger.Warn("snapshot fetch failed", zap.Error(err))
	}

	s.noteEmpty("both record source and snapshot unavailable")
	return nil
}

func (s *RecordSource) noteEmpty(reason string) {
	if s.metrics != nil {
		s.metrics.RecordEmptyDataset()
	}
	s.logger.Warn("proceeding with empty dataset", zap.String("reason", reason))
}
