package store

import "fmt"

// schemaSQL returns the DDL for all tables. embeddingDim controls the
// vec0 virtual table dimension.
func schemaSQL(embeddingDim int) string {
	return fmt.Sprintf(`
-- One row per completed analysis
CREATE TABLE IF NOT EXISTS analyses (
    id INTEGER PRIMARY KEY,
    domain TEXT NOT NULL,
    name TEXT NOT NULL,
    profile JSON NOT NULL,
    risk_score REAL NOT NULL,
    risk_category TEXT NOT NULL,
    extracted_score TEXT NOT NULL,
    extracted_category TEXT NOT NULL,
    narrative TEXT NOT NULL,
    report_key TEXT NOT NULL UNIQUE,
    download_name TEXT NOT NULL,
    page_count INTEGER DEFAULT 0,
    model TEXT,
    prompt_tokens INTEGER DEFAULT 0,
    completion_tokens INTEGER DEFAULT 0,
    total_tokens INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Narrative embeddings via sqlite-vec
CREATE VIRTUAL TABLE IF NOT EXISTS vec_analyses USING vec0(
    analysis_id INTEGER PRIMARY KEY,
    embedding float[%d]
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`, embeddingDim)
}
