package engine

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mediadup/internal/bktree"
	"mediadup/internal/bucket"
	"mediadup/internal/candidate"
	"mediadup/internal/cluster"
	"mediadup/internal/config"
	"mediadup/internal/keeper"
	"mediadup/internal/logging"
	"mediadup/internal/media"
	"mediadup/internal/score"
)

// Result is the engine's output contract: an ordered, stable sequence of
// duplicate groups plus the similar-not-duplicate review ledger and run
// statistics.
type Result struct {
	ScanID     string                `json:"scanId"`
	CreatedAt  time.Time             `json:"createdAt"`
	Thresholds config.Thresholds     `json:"thresholds"`
	Groups     []cluster.Group       `json:"groups"`
	Similar    []cluster.SimilarPair `json:"similar,omitempty"`
	Stats      Stats                 `json:"stats"`
}

// Pressure is the caller-supplied resource hint. Higher pressure shrinks the
// worker pool toward sequential execution instead of failing.
type Pressure int

const (
	PressureNone Pressure = iota
	PressureModerate
	PressureHigh
)

type scanOptions struct {
	pressure Pressure
}

// ScanOption adjusts one scan invocation.
type ScanOption func(*scanOptions)

// WithPressure applies a resource pressure hint for this scan.
func WithPressure(p Pressure) ScanOption {
	return func(o *scanOptions) { o.pressure = p }
}

// Engine runs the detection pipeline. It holds no cross-scan state; every
// scan builds its buckets and indexes fresh.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
	ranker *keeper.Ranker
}

// New validates the configuration and constructs an engine. Configuration
// errors are fatal here, before any scan work begins.
func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, Wrap(ErrConfiguration, "engine", "new", "nil configuration", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Wrap(ErrConfiguration, "engine", "new", "invalid configuration", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		ranker: keeper.NewRanker(cfg.Keeper.FormatPreference),
	}, nil
}

// Scan runs the full pipeline over records and returns both the result and
// the snapshot a later Rerank can replay. Records must be complete before
// grouping begins; the engine never streams.
func (e *Engine) Scan(ctx context.Context, records []media.FileRecord, opts ...ScanOption) (*Result, *Snapshot, error) {
	options := scanOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	workers := e.workerBudget(options.pressure)

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, nil, Wrap(ErrConfiguration, "engine", "scan", "invalid input record", err)
		}
	}

	thresholds := e.cfg.Thresholds
	part := bucket.Build(records, thresholds.SizeTolerancePct)
	e.logger.Info("partitioned records",
		logging.Int("files", len(records)),
		logging.Int("buckets", len(part.Keys)),
		logging.Int("checksum_groups", len(part.ChecksumGroups)),
		logging.Int("workers", workers))

	indexes, degraded, err := e.buildIndexes(ctx, records, part, workers)
	if err != nil {
		return nil, nil, err
	}

	radius := thresholds.ConfirmBandUpper
	if primary := maxPrimaryDistance(thresholds); primary > radius {
		radius = primary
	}
	generator := candidate.NewGenerator(records, part, indexes, radius)

	var pairs []candidate.Pair
	for _, key := range part.Keys {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		pairs = append(pairs, generator.PairsFor(key)...)
	}
	e.logger.Info("generated candidate pairs", logging.Int("pairs", len(pairs)))

	measurements, err := e.measurePairs(ctx, records, pairs, workers)
	if err != nil {
		return nil, nil, err
	}

	snapshot := &Snapshot{
		CreatedAt:       time.Now().UTC(),
		Records:         records,
		ChecksumGroups:  part.ChecksumGroups,
		Measurements:    measurements,
		DegradedBuckets: degraded,
	}

	result, err := e.reduce(records, part.ChecksumGroups, measurements)
	if err != nil {
		return nil, nil, err
	}
	result.Stats = Stats{
		Files:           len(records),
		Buckets:         len(part.Keys),
		ChecksumGroups:  len(part.ChecksumGroups),
		CandidatePairs:  len(pairs),
		SimilarPairs:    len(result.Similar),
		Comparisons:     totalComparisons(indexes),
		DegradedBuckets: degraded,
		Workers:         workers,
	}
	e.logger.Info("scan complete",
		logging.String("scan_id", result.ScanID),
		logging.Int("groups", len(result.Groups)),
		logging.Int("similar_pairs", len(result.Similar)),
		logging.Uint64("comparisons", result.Stats.Comparisons))
	return result, snapshot, nil
}

// buildIndexes constructs one frozen neighbor index per bucket, in parallel
// across buckets. Each tree has a single writer; queries start only after
// every build returns.
func (e *Engine) buildIndexes(ctx context.Context, records []media.FileRecord, part *bucket.Partition, workers int) (map[bucket.Key]bktree.Index, []string, error) {
	indexes := make(map[bucket.Key]bktree.Index, len(part.Keys))
	var degraded []string
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, key := range part.Keys {
		if err := groupCtx.Err(); err != nil {
			break
		}
		key := key
		group.Go(func() error {
			entries := candidate.Entries(records, part.Buckets[key])
			if len(entries) == 0 {
				return nil
			}
			index, fellBack := bktree.Build(entries, e.cfg.Engine.BucketCeiling)
			mu.Lock()
			indexes[key] = index
			if fellBack {
				degraded = append(degraded, key.String())
			}
			mu.Unlock()
			if fellBack {
				e.logger.Warn("neighbor index degraded to linear scan",
					logging.String("bucket", key.String()),
					logging.Int("entries", len(entries)),
					logging.Int("ceiling", e.cfg.Engine.BucketCeiling),
					logging.Error(Wrap(ErrIndexOverflow, "bktree", "build", "bucket exceeds ceiling", nil)))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return indexes, degraded, nil
}

// measurePairs computes raw pair measurements in bounded parallel batches.
// Results land at fixed offsets, so no ordering is lost to scheduling.
func (e *Engine) measurePairs(ctx context.Context, records []media.FileRecord, pairs []candidate.Pair, workers int) ([]score.PairMeasurement, error) {
	measurements := make([]score.PairMeasurement, len(pairs))
	batchSize := e.cfg.Engine.PairBatchSize

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for start := 0; start < len(pairs); start += batchSize {
		if err := groupCtx.Err(); err != nil {
			break
		}
		start := start
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		group.Go(func() error {
			for i := start; i < end; i++ {
				measurements[i] = score.Measure(records, pairs[i].A, pairs[i].B)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return measurements, nil
}

// reduce is the single-threaded clustering stage: scoring output feeds the
// union-find builder sequentially, then groups are finalized and ranked.
func (e *Engine) reduce(records []media.FileRecord, checksumGroups []bucket.ChecksumGroup, measurements []score.PairMeasurement) (*Result, error) {
	thresholds := e.cfg.Thresholds
	builder := cluster.NewBuilder(records, thresholds, e.cfg.Keeper.GroupConfidence)

	for _, group := range checksumGroups {
		if err := builder.AddChecksumGroup(group); err != nil {
			return nil, err
		}
	}

	for _, m := range measurements {
		s := score.Score(m, thresholds, e.cfg.Weights)
		decision, err := builder.Observe(m, s)
		if err != nil {
			return nil, err
		}
		if decision == cluster.DecisionSimilar {
			e.logger.Debug("similar but not duplicate",
				logging.String("file_a", records[m.A].ID),
				logging.String("file_b", records[m.B].ID),
				logging.Float64("confidence", s.Confidence))
		}
	}

	groups, similar, err := builder.Finalize()
	if err != nil {
		return nil, err
	}

	for i := range groups {
		members := make([]media.FileRecord, 0, len(groups[i].Members))
		for _, member := range groups[i].Members {
			members = append(members, records[member.Ordinal])
		}
		groups[i].KeeperSuggestion = e.ranker.Suggest(members)
	}

	return &Result{
		ScanID:     uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Thresholds: thresholds,
		Groups:     groups,
		Similar:    similar,
	}, nil
}

// workerBudget derives the pool size from configuration and the pressure
// hint; under pressure the budget shrinks toward one rather than failing.
func (e *Engine) workerBudget(pressure Pressure) int {
	workers := e.cfg.Engine.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	switch pressure {
	case PressureModerate:
		workers = (workers + 1) / 2
	case PressureHigh:
		workers = 1
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func maxPrimaryDistance(thresholds config.Thresholds) int {
	if thresholds.VideoFrameDistance > thresholds.ImageDistance {
		return thresholds.VideoFrameDistance
	}
	return thresholds.ImageDistance
}

func totalComparisons(indexes map[bucket.Key]bktree.Index) uint64 {
	var total uint64
	for _, index := range indexes {
		total += index.Comparisons()
	}
	return total
}
