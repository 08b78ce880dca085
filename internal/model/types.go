package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

type Run struct {
	VersionedRecord
	ID                  string  `json:"id"`
	Problem             string  `json:"problem"`
	Selection           string  `json:"selection"`
	PopulationSize      int     `json:"population_size"`
	MutationProbability float64 `json:"mutation_probability"`
	GenerationLimit     int     `json:"generation_limit"`
	Seed                int64   `json:"seed"`
	Generations         int     `json:"generations"`
	FinalBestFitness    float64 `json:"final_best_fitness"`
	FinalBestEncoding   string  `json:"final_best_encoding"`
	Status              string  `json:"status"`
	CreatedAtUTC        string  `json:"created_at_utc"`
}

type GenerationStats struct {
	VersionedRecord
	RunID        string  `json:"run_id"`
	Generation   int     `json:"generation"`
	BestFitness  float64 `json:"best_fitness"`
	MeanFitness  float64 `json:"mean_fitness"`
	BestEncoding string  `json:"best_encoding"`
}

// Projection is a primitive-form snapshot of one population: encoded
// genomes and fitness summaries only, never live solution references.
type Projection struct {
	BestEncoding string   `json:"best_encoding"`
	BestFitness  float64  `json:"best_fitness"`
	MeanFitness  float64  `json:"mean_fitness"`
	Encodings    []string `json:"encodings,omitempty"`
}
