package postgres

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
	seq           BIGSERIAL PRIMARY KEY,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	metadata      JSONB,
	created_at    TIMESTAMP WITH TIME ZONE NOT NULL,
	updated_at    TIMESTAMP WITH TIME ZONE NOT NULL,
	UNIQUE (resource_type, resource_id)
);

CREATE TABLE IF NOT EXISTS embedding_records (
	seq           BIGSERIAL PRIMARY KEY,
	id            TEXT NOT NULL UNIQUE,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL,
	content       TEXT NOT NULL,
	embedding     vector NOT NULL,
	created_at    TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_embedding_records_resource
	ON embedding_records (resource_type, resource_id);
`
