// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// pipelineConfig layers viper settings over the documented defaults.
// Keys follow the config file structure, e.g. retrieval.top_k or
// engine.backend; every key can also come from the environment as
// ANSWER_ENGINE_<SECTION>_<KEY>.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	setString(&cfg.Ingest.DocsDir, "ingest.docs_dir")
	setString(&cfg.Ingest.DataDir, "ingest.data_dir")
	setInt(&cfg.Ingest.ChunkSize, "ingest.chunk_size")
	setInt(&cfg.Ingest.ChunkOverlap, "ingest.chunk_overlap")

	setInt(&cfg.Retrieval.TopK, "retrieval.top_k")
	setFloat(&cfg.Retrieval.K1, "retrieval.k1")
	setFloat(&cfg.Retrieval.B, "retrieval.b")

	setFloat(&cfg.Fusion.ScoreWeight, "fusion.score_weight")
	setFloat(&cfg.Fusion.CoverageWeight, "fusion.coverage_weight")
	setFloat(&cfg.Fusion.TitleWeight, "fusion.title_weight")

	if viper.IsSet("gate.hard_terms") {
		cfg.Gate.HardTerms = viper.GetStringSlice("gate.hard_terms")
	}
	setFloat(&cfg.Gate.MinScore, "gate.min_score")
	setFloat(&cfg.Gate.MinCoverage, "gate.min_coverage")

	setFloat(&cfg.Fallback.HardOKWeight, "fallback.hard_ok_weight")
	setFloat(&cfg.Fallback.TitleWeight, "fallback.title_weight")
	setFloat(&cfg.Fallback.CoverageWeight, "fallback.coverage_weight")
	setFloat(&cfg.Fallback.ScoreWeight, "fallback.score_weight")
	setInt(&cfg.Fallback.ExcerptLimit, "fallback.excerpt_limit")

	if viper.IsSet("engine.backend") {
		cfg.Engine.Backend = types.EngineBackend(viper.GetString("engine.backend"))
	}
	setString(&cfg.Engine.BinPath, "engine.bin_path")
	setString(&cfg.Engine.ModelPath, "engine.model_path")
	setString(&cfg.Engine.Model, "engine.model")
	if viper.IsSet("engine.timeout") {
		if d := viper.GetDuration("engine.timeout"); d > 0 {
			cfg.Engine.Timeout = d
		}
	}
	setInt(&cfg.Engine.MaxRetries, "engine.max_retries")
	cfg.Engine.APIKey = secretDefault("llm-api-key", viper.GetString("engine.api_key"))

	setString(&cfg.Serve.Addr, "serve.addr")
	setInt(&cfg.Serve.Dim, "serve.dim")
	setInt(&cfg.Serve.TopKMax, "serve.topk_max")

	return cfg
}

func setString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func setInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

func setFloat(dst *float64, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetFloat64(key)
	}
}
