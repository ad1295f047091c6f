// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// IngestConfig holds settings for the ingestion stage.
type IngestConfig struct {
	// DocsDir is the directory walked for source documents.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// DataDir is the directory holding the SQLite database and the index
	// snapshot (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// ChunkSize is the chunk window in characters (default 900).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive windows in characters
	// (default 150). Must be smaller than ChunkSize.
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// RetrievalConfig holds the BM25 parameters and result cap.
type RetrievalConfig struct {
	// TopK is the number of candidates retrieved per query (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// K1 is the BM25 term-saturation parameter (default 1.5).
	K1 float64 `json:"k1" yaml:"k1"`

	// B is the BM25 length-normalization parameter (default 0.75).
	B float64 `json:"b" yaml:"b"`
}

// FusionConfig holds the fixed weights combining ranking signals into one
// score per candidate. The weights are design constants, not learned.
type FusionConfig struct {
	// ScoreWeight multiplies the max-normalized BM25 score (default 0.75).
	ScoreWeight float64 `json:"score_weight" yaml:"score_weight"`

	// CoverageWeight multiplies query-term coverage (default 0.25).
	CoverageWeight float64 `json:"coverage_weight" yaml:"coverage_weight"`

	// TitleWeight is added when any query token hits the title (default 0.08).
	TitleWeight float64 `json:"title_weight" yaml:"title_weight"`
}

// GateConfig holds the admissibility thresholds and the hard-term vocabulary.
type GateConfig struct {
	// HardTerms is the vocabulary of domain-sensitive terms. A query
	// containing any of them may only be answered when every matched term
	// appears somewhere in the retrieved evidence.
	HardTerms []string `json:"hard_terms" yaml:"hard_terms"`

	// MinScore is the minimum raw BM25 score for a candidate to survive
	// threshold filtering (default 0.6).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// MinCoverage is the minimum query-term coverage for a candidate to
	// survive threshold filtering (default 0.10).
	MinCoverage float64 `json:"min_coverage" yaml:"min_coverage"`
}

// FallbackConfig holds the weights and excerpt cap for the deterministic
// excerpt answer used when the engine violates the citation contract.
type FallbackConfig struct {
	// HardOKWeight rewards candidates containing every applicable hard term
	// in their own title+text (default 10).
	HardOKWeight float64 `json:"hard_ok_weight" yaml:"hard_ok_weight"`

	// TitleWeight rewards title hits (default 2).
	TitleWeight float64 `json:"title_weight" yaml:"title_weight"`

	// CoverageWeight rewards query-term coverage (default 3).
	CoverageWeight float64 `json:"coverage_weight" yaml:"coverage_weight"`

	// ScoreWeight rewards the raw BM25 score (default 0.05).
	ScoreWeight float64 `json:"score_weight" yaml:"score_weight"`

	// ExcerptLimit caps the quoted excerpt length in characters (default 900).
	ExcerptLimit int `json:"excerpt_limit" yaml:"excerpt_limit"`
}

// EngineBackend identifies the text-generation engine invocation mechanism.
type EngineBackend string

const (
	BackendProcess EngineBackend = "process"
	BackendHTTP    EngineBackend = "http"
)

// EngineConfig holds settings for the external text-generation engine.
type EngineConfig struct {
	// Backend selects the invocation mechanism: process or http.
	Backend EngineBackend `json:"backend" yaml:"backend"`

	// BinPath is the local inference binary (process backend).
	BinPath string `json:"bin_path" yaml:"bin_path"`

	// ModelPath is the model file passed to the inference binary
	// (process backend).
	ModelPath string `json:"model_path" yaml:"model_path"`

	// Model is the remote model identifier (http backend).
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates the http backend. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single generation call (default 120s). A timed-out
	// call is treated as a citation-contract violation, not a hard failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for rate-limited HTTP
	// calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ServeConfig holds settings for the embedding-similarity demo service.
type ServeConfig struct {
	// Addr is the listen address (default "127.0.0.1:5000").
	Addr string `json:"addr" yaml:"addr"`

	// Dim is the vector dimension (default 128).
	Dim int `json:"dim" yaml:"dim"`

	// TopKMax caps the per-request neighbor count (default 20).
	TopKMax int `json:"topk_max" yaml:"topk_max"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Fusion    FusionConfig    `json:"fusion" yaml:"fusion"`
	Gate      GateConfig      `json:"gate" yaml:"gate"`
	Fallback  FallbackConfig  `json:"fallback" yaml:"fallback"`
	Engine    EngineConfig    `json:"engine" yaml:"engine"`
	Serve     ServeConfig     `json:"serve" yaml:"serve"`
}

// DefaultHardTerms is the built-in hard-term vocabulary. Override via the
// gate.hard_terms config key.
var DefaultHardTerms = []string{
	"bm25", "faiss", "rerank", "embedding", "vector",
	"flask", "python",
	"std::format", "format", "printf",
}

// DefaultPipelineConfig returns the documented defaults for every stage.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Ingest: IngestConfig{
			DocsDir:      "docs",
			DataDir:      "data",
			ChunkSize:    900,
			ChunkOverlap: 150,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
			K1:   1.5,
			B:    0.75,
		},
		Fusion: FusionConfig{
			ScoreWeight:    0.75,
			CoverageWeight: 0.25,
			TitleWeight:    0.08,
		},
		Gate: GateConfig{
			HardTerms:   DefaultHardTerms,
			MinScore:    0.6,
			MinCoverage: 0.10,
		},
		Fallback: FallbackConfig{
			HardOKWeight:   10,
			TitleWeight:    2,
			CoverageWeight: 3,
			ScoreWeight:    0.05,
			ExcerptLimit:   900,
		},
		Engine: EngineConfig{
			Backend:    BackendProcess,
			Timeout:    120 * time.Second,
			MaxRetries: 3,
		},
		Serve: ServeConfig{
			Addr:    "127.0.0.1:5000",
			Dim:     128,
			TopKMax: 20,
		},
	}
}
