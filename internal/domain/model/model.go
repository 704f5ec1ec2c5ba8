// Package model contains domain models passed between layers.
package model

// CornerRecord is one observed corner traversal. Immutable once loaded.
type CornerRecord struct {
	Track    string // circuit name, must be in the configured calendar
	Driver   string // vehicle id
	Lap      int
	Corner   int // corner number within the lap, 1-based

	// Timing
	DurationSamples int     // corner length in telemetry samples
	LapTime         float64 // full lap time in seconds

	// Physics features extracted from raw telemetry
	EntryThrottle        float64
	ApexThrottle         float64
	MinThrottle          float64
	ExitThrottle         float64
	MaxBrake             float64
	BrakeDurationSamples int
	ApexLateralG         float64
	AvgSteeringAngle     float64
}

// DriverStats aggregates a driver's performance on one track.
type DriverStats struct {
	Track       string  `json:"track"`
	Driver      string  `json:"driver"`
	BestLap     float64 `json:"best_lap"`
	MeanLap     float64 `json:"mean_lap"`
	LapStdDev   float64 `json:"lap_std_dev"`
	Laps        int     `json:"laps"`
	Corners     int     `json:"corners"`
	Rank        int     `json:"rank"`
	Percentile  float64 `json:"percentile"`
	GapToLeader float64 `json:"gap_to_leader"`
	StyleLabel  string  `json:"style_label,omitempty"`
}

// CornerComparison holds per-corner deltas between a driver and a benchmark.
type CornerComparison struct {
	Track             string  `json:"track"`
	Corner            int     `json:"corner"`
	Driver            string  `json:"driver"`
	Benchmark         string  `json:"benchmark"`
	TimeLost          float64 `json:"time_lost_sec"`
	BrakeDelta        float64 `json:"brake_delta"`
	ApexThrottleDelta float64 `json:"apex_throttle_delta"`

	DriverBrake           float64 `json:"driver_brake"`
	BenchmarkBrake        float64 `json:"benchmark_brake"`
	DriverApexThrottle    float64 `json:"driver_apex_throttle"`
	BenchmarkApexThrottle float64 `json:"benchmark_apex_throttle"`
}

// Prediction is the model's estimated achievable gain for a driver/corner pair.
type Prediction struct {
	Track         string  `json:"track"`
	Corner        int     `json:"corner"`
	Driver        string  `json:"driver"`
	PredictedGain float64 `json:"predicted_gain_sec"`
}

// Opportunity is a coaching opportunity: a prediction plus diagnosis.
type Opportunity struct {
	Prediction
	TimeLost float64 `json:"time_lost_sec"`
	Issue    string  `json:"issue"`
	Advice   string  `json:"advice"`
}

// FeatureImportance pairs a model feature with its normalized importance.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelInfo describes the active predictive model.
type ModelInfo struct {
	Trained    bool                `json:"trained"`
	Trees      int                 `json:"trees"`
	R2         float64             `json:"r2"`
	MAE        float64             `json:"mae_sec"`
	TrainRows  int                 `json:"train_rows"`
	TestRows   int                 `json:"test_rows"`
	Importance []FeatureImportance `json:"importance,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// TrackSummary describes one circuit in the active snapshot.
type TrackSummary struct {
	Track   string `json:"track"`
	Records int    `json:"records"`
	Drivers int    `json:"drivers"`
	Corners int    `json:"corners"`
}

// DriverCluster assigns a driver to a style cluster.
type DriverCluster struct {
	Driver  string  `json:"driver"`
	Cluster int     `json:"cluster"`
	Label   string  `json:"label"`
	BestLap float64 `json:"best_lap"`
}
