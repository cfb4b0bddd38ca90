package archiverag

import (
	"os"
	"path/filepath"
)

// Config holds all configuration for the archive query engine.
type Config struct {
	// DBPath is the full path to the SQLite database file holding meeting
	// records and embeddings. If empty, defaults to ~/.archive-rag/<DBName>.db.
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName names the database file when DBPath is empty. Defaults to "archive".
	DBName string `json:"db_name" yaml:"db_name"`

	// EntityDir is the root of the JSON entity store (one directory per
	// entity kind). Defaults to ~/.archive-rag/entities.
	EntityDir string `json:"entity_dir" yaml:"entity_dir"`

	// AuditDir is where per-query audit records are appended.
	// Defaults to ~/.archive-rag/audit.
	AuditDir string `json:"audit_dir" yaml:"audit_dir"`

	// LLM providers
	Chat      LLMConfig `json:"chat" yaml:"chat"`
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`

	// Retrieval
	MaxResults   int `json:"max_results" yaml:"max_results"`
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`

	// MinQueryLen is the minimum query length accepted; shorter queries
	// are rejected before any collaborator call.
	MinQueryLen int `json:"min_query_len" yaml:"min_query_len"`

	// ResolveThreshold is the minimum similarity score for an entity name
	// to resolve to a canonical entity.
	ResolveThreshold float64 `json:"resolve_threshold" yaml:"resolve_threshold"`

	// CollaboratorTimeoutSec bounds each external call (embedding, vector
	// search, generation). On expiry the engine surfaces a timeout failure
	// rather than a generic error.
	CollaboratorTimeoutSec int `json:"collaborator_timeout_sec" yaml:"collaborator_timeout_sec"`

	// Workers sizes the pool that runs collaborator calls off the request path.
	Workers int `json:"workers" yaml:"workers"`

	// Seed is the reproducibility seed recorded with every query result and
	// passed to the generation collaborator. Zero means derive per process.
	Seed int64 `json:"seed" yaml:"seed"`

	// UpstreamIndexURL optionally points at the archive's published bulk
	// index; the quantitative aggregator cross-checks counts against it.
	UpstreamIndexURL string `json:"upstream_index_url" yaml:"upstream_index_url"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // openai, ollama
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config with sensible defaults for local inference.
func DefaultConfig() Config {
	return Config{
		DBName: "archive",
		Chat: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		MaxResults:             10,
		EmbeddingDim:           768,
		MinQueryLen:            3,
		ResolveThreshold:       0.8,
		CollaboratorTimeoutSec: 60,
		Workers:                8,
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	name := c.DBName
	if name == "" {
		name = "archive"
	}
	return filepath.Join(c.baseDir(), name+".db")
}

// resolveEntityDir computes the entity store root.
func (c *Config) resolveEntityDir() string {
	if c.EntityDir != "" {
		return c.EntityDir
	}
	return filepath.Join(c.baseDir(), "entities")
}

// resolveAuditDir computes the audit sink directory.
func (c *Config) resolveAuditDir() string {
	if c.AuditDir != "" {
		return c.AuditDir
	}
	return filepath.Join(c.baseDir(), "audit")
}

func (c *Config) baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." // fallback to cwd
	}
	return filepath.Join(home, ".archive-rag")
}
