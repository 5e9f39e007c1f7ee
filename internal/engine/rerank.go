package engine

import (
	"context"

	"mediadup/internal/logging"
)

// Rerank replays a stored snapshot through the engine's current thresholds
// and weights, skipping bucketing, indexing, and candidate generation
// entirely. The snapshot's raw measurements are threshold-independent, so the
// result is identical to what a full scan with these thresholds would have
// produced for the same candidate set.
func (e *Engine) Rerank(ctx context.Context, snapshot *Snapshot) (*Result, error) {
	if snapshot == nil {
		return nil, Wrap(ErrConfiguration, "engine", "rerank", "nil snapshot", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, record := range snapshot.Records {
		if err := record.Validate(); err != nil {
			return nil, Wrap(ErrConfiguration, "engine", "rerank", "invalid snapshot record", err)
		}
	}

	result, err := e.reduce(snapshot.Records, snapshot.ChecksumGroups, snapshot.Measurements)
	if err != nil {
		return nil, err
	}
	result.Stats = Stats{
		Files:           len(snapshot.Records),
		ChecksumGroups:  len(snapshot.ChecksumGroups),
		CandidatePairs:  len(snapshot.Measurements),
		SimilarPairs:    len(result.Similar),
		DegradedBuckets: snapshot.DegradedBuckets,
		Workers:         1,
	}
	e.logger.Info("rerank complete",
		logging.String("scan_id", result.ScanID),
		logging.Int("groups", len(result.Groups)),
		logging.Int("pairs_rescored", len(snapshot.Measurements)))
	return result, nil
}
