// Package service provides the core analytics service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	datasetcsv "github.com/grcup/apexcoach/internal/adapters/dataset"
	"github.com/grcup/apexcoach/internal/adapters/repository"
	"github.com/grcup/apexcoach/internal/domain/coach"
	"github.com/grcup/apexcoach/internal/domain/features"
	"github.com/grcup/apexcoach/internal/domain/model"
	"github.com/grcup/apexcoach/internal/ml/cluster"
	"github.com/grcup/apexcoach/internal/ml/dataset"
	"github.com/grcup/apexcoach/internal/ml/forest"
	"github.com/grcup/apexcoach/pkg/logger"
	"github.com/grcup/apexcoach/pkg/metrics"
)

// modelFeatureNames is the forest feature layout, shared between
// training and prediction.
var modelFeatureNames = []string{
	"brake_delta",
	"apex_throttle_delta",
	"driver_brake",
	"driver_apex_throttle",
	"benchmark_brake",
	"benchmark_apex_throttle",
}

// Service orchestrates the analytics pipeline: load the corner dataset,
// derive driver stats, train the improvement model, cluster driving
// styles and publish the result as one immutable snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader *datasetcsv.Loader
	store  repository.Store
	ranker *coach.Ranker
	model  *forest.Forest

	// Configuration
	datasetPath  string
	tracks       []string
	strictTracks bool

	forestTrees       int
	forestMaxDepth    int
	forestMinSplit    int
	forestMaxFeatures int
	forestSeed        int64
	forestWorkers     int
	testRatio         float64

	clusterK       int
	clusterMaxIter int

	minCorners        int
	maxOpportunities  int
	maxCompareDrivers int

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath:       "data/master_corner_features.csv",
		strictTracks:      false,
		forestTrees:       200,
		forestMaxDepth:    12,
		forestMinSplit:    4,
		forestSeed:        42,
		forestWorkers:     runtime.NumCPU(),
		testRatio:         0.2,
		clusterK:          3,
		clusterMaxIter:    100,
		minCorners:        3,
		maxOpportunities:  3,
		maxCompareDrivers: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset, builds the first snapshot and publishes it.
// A load failure here is fatal; a training failure is not, the snapshot
// is published with an untrained model.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting analytics service...")

	s.loader = datasetcsv.New(
		datasetcsv.WithTracks(s.tracks),
		datasetcsv.WithStrict(s.strictTracks),
		datasetcsv.WithLogger(s.logger.Named("dataset")),
	)
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.ranker = coach.NewRanker(
		coach.WithMaxOpportunities(s.maxOpportunities),
		coach.WithMinCorners(s.minCorners),
	)

	snap, fr, err := s.rebuild(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	if err := s.store.Publish(ctx, snap); err != nil {
		return err
	}
	s.model = fr

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "analytics service started",
		logger.Int("rows", len(snap.Records)),
		logger.Int("tracks", len(snap.Tracks())),
		logger.Int("drivers", snap.DriverCount()),
		logger.Any("modelTrained", snap.Model.Trained),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

// Reload re-runs the full pipeline. The previous snapshot keeps serving
// if any stage fails.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	s.logger.Info(ctx, "reloading dataset...")
	snap, fr, err := s.rebuild(ctx)
	if err != nil {
		metrics.RecordReload(false)
		s.logger.Error(ctx, "reload failed, keeping previous snapshot", logger.Error(err))
		return err
	}
	if err := s.store.Publish(ctx, snap); err != nil {
		metrics.RecordReload(false)
		return err
	}
	s.model = fr

	metrics.RecordReload(true)
	s.logger.Info(ctx, "reload complete",
		logger.Int("rows", len(snap.Records)),
		logger.Int("skipped", snap.Skipped),
	)
	return nil
}

// rebuild runs load -> aggregate -> train -> cluster and returns the
// snapshot plus the fitted forest. Only the load stage is fatal.
func (s *Service) rebuild(ctx context.Context) (*repository.Snapshot, *forest.Forest, error) {
	rebuildStart := time.Now()

	res, err := s.loader.Load(ctx, s.datasetPath)
	if err != nil {
		return nil, nil, err
	}

	stats := features.DriverAggregates(res.Records)
	mi, fr := s.train(ctx, res.Records, stats)
	clusters := s.clusterStyles(ctx, res.Records, stats)

	snap := repository.NewSnapshot(res.Records, stats, mi, clusters, res.Skipped)

	elapsed := float64(time.Since(rebuildStart).Milliseconds())
	metrics.RecordSnapshotRebuild(elapsed, snap.LoadedAt.Unix())
	return snap, fr, nil
}

// train fits the improvement forest on driver-vs-fastest corner deltas.
// The target is the time lost to the track's fastest driver, clamped at
// zero so the model never learns negative gains.
func (s *Service) train(ctx context.Context, records []model.CornerRecord, stats []model.DriverStats) (model.ModelInfo, *forest.Forest) {
	X, y := s.trainingRows(records, stats)

	mi := model.ModelInfo{Trees: s.forestTrees}
	fail := func(err error) (model.ModelInfo, *forest.Forest) {
		metrics.RecordTrainingFailure()
		mi.Trained = false
		mi.Error = err.Error()
		s.logger.Warn(ctx, "model training skipped", logger.Error(err))
		return mi, nil
	}

	split, err := dataset.TrainTestSplit(X, y, s.testRatio, s.forestSeed)
	if err != nil {
		return fail(err)
	}

	fr := forest.New(
		forest.WithEstimators(s.forestTrees),
		forest.WithMaxDepth(s.forestMaxDepth),
		forest.WithMinSamplesSplit(s.forestMinSplit),
		forest.WithMaxFeatures(s.forestMaxFeatures),
		forest.WithSeed(s.forestSeed),
		forest.WithWorkers(s.forestWorkers),
		forest.WithFeatureNames(modelFeatureNames),
	)

	trainStart := time.Now()
	if err := fr.Fit(ctx, split.XTrain, split.YTrain); err != nil {
		return fail(err)
	}
	metrics.RecordTrainingDuration(float64(time.Since(trainStart).Milliseconds()))

	r2, mae, err := fr.Evaluate(split.XTest, split.YTest)
	if err != nil {
		return fail(err)
	}

	names, importance := fr.Importance()
	mi.Trained = true
	mi.Trees = fr.Trees()
	mi.R2 = r2
	mi.MAE = mae
	mi.TrainRows = len(split.XTrain)
	mi.TestRows = len(split.XTest)
	mi.Importance = make([]model.FeatureImportance, len(names))
	for i, n := range names {
		mi.Importance[i] = model.FeatureImportance{Feature: n, Importance: importance[i]}
	}
	metrics.UpdateModelQuality(r2, mae, fr.Trees())

	s.logger.Info(ctx, "model trained",
		logger.Int("trainRows", mi.TrainRows),
		logger.Int("testRows", mi.TestRows),
		logger.Float64("r2", r2),
		logger.Float64("mae", mae),
	)
	return mi, fr
}

// trainingRows builds one row per (track, non-fastest driver, corner)
// comparison against the track's fastest driver.
func (s *Service) trainingRows(records []model.CornerRecord, stats []model.DriverStats) ([][]float64, []float64) {
	var X [][]float64
	var y []float64

	byTrack := make(map[string][]model.CornerRecord)
	for _, r := range records {
		byTrack[r.Track] = append(byTrack[r.Track], r)
	}
	drivers := make(map[string][]string)
	for _, st := range stats {
		drivers[st.Track] = append(drivers[st.Track], st.Driver)
	}

	for track, trackRecords := range byTrack {
		bench, ok := features.FastestDriver(stats, track)
		if !ok {
			continue
		}
		for _, driver := range drivers[track] {
			if driver == bench {
				continue
			}
			for _, c := range features.Compare(trackRecords, track, driver, bench) {
				X = append(X, featureVector(c))
				y = append(y, math.Max(c.TimeLost, 0))
			}
		}
	}
	return X, y
}

// clusterStyles groups drivers by season braking/throttle/consistency
// aggregates and writes the style label back onto their stats.
func (s *Service) clusterStyles(ctx context.Context, records []model.CornerRecord, stats []model.DriverStats) []model.DriverCluster {
	type agg struct {
		brakeSum    float64
		throttleSum float64
		corners     int
		stdSum      float64
		tracks      int
		bestLap     float64
	}
	byDriver := make(map[string]*agg)
	for _, r := range records {
		a := byDriver[r.Driver]
		if a == nil {
			a = &agg{bestLap: math.MaxFloat64}
			byDriver[r.Driver] = a
		}
		a.brakeSum += r.MaxBrake
		a.throttleSum += r.ApexThrottle
		a.corners++
	}
	for _, st := range stats {
		a := byDriver[st.Driver]
		if a == nil {
			continue
		}
		a.stdSum += st.LapStdDev
		a.tracks++
		if st.BestLap < a.bestLap {
			a.bestLap = st.BestLap
		}
	}

	if len(byDriver) < s.clusterK {
		s.logger.Warn(ctx, "skipping style clustering",
			logger.Int("drivers", len(byDriver)),
			logger.Int("k", s.clusterK),
		)
		return nil
	}

	drivers := make([]string, 0, len(byDriver))
	for d := range byDriver {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)

	X := make([][]float64, len(drivers))
	for i, d := range drivers {
		a := byDriver[d]
		X[i] = []float64{
			a.brakeSum / float64(a.corners),
			a.throttleSum / float64(a.corners),
			a.stdSum / float64(a.tracks),
		}
	}

	km := cluster.New(
		cluster.WithK(s.clusterK),
		cluster.WithMaxIterations(s.clusterMaxIter),
		cluster.WithSeed(s.forestSeed),
	)
	assign, err := km.Fit(X)
	if err != nil {
		s.logger.Warn(ctx, "style clustering failed", logger.Error(err))
		return nil
	}

	labels := cluster.LabelStyles(km.Centroids(), []string{
		cluster.FeatureMaxBrake,
		cluster.FeatureApexThrottle,
		cluster.FeatureLapStdDev,
	})

	out := make([]model.DriverCluster, len(drivers))
	labelByDriver := make(map[string]string, len(drivers))
	for i, d := range drivers {
		out[i] = model.DriverCluster{
			Driver:  d,
			Cluster: assign[i],
			Label:   labels[assign[i]],
			BestLap: byDriver[d].bestLap,
		}
		labelByDriver[d] = labels[assign[i]]
	}
	for i := range stats {
		stats[i].StyleLabel = labelByDriver[stats[i].Driver]
	}
	return out
}

func featureVector(c model.CornerComparison) []float64 {
	return []float64{
		c.BrakeDelta,
		c.ApexThrottleDelta,
		c.DriverBrake,
		c.DriverApexThrottle,
		c.BenchmarkBrake,
		c.BenchmarkApexThrottle,
	}
}
