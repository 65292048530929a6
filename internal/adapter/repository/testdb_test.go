package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the schema the
// repositories expect. The Postgres column defaults in the entity tags
// do not translate to SQLite, so the schema is created with raw DDL.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// A fresh connection would see an empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'employee',
			company_id TEXT NOT NULL DEFAULT 'default-company',
			is_active BOOLEAN NOT NULL DEFAULT true,
			last_login_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE customers (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			alias TEXT,
			name TEXT,
			company TEXT,
			email TEXT,
			last_call_at DATETIME,
			total_calls INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (employee_id, phone_number)
		)`,
		`CREATE TABLE calls (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			customer_name TEXT,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'recording',
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			duration_sec INTEGER DEFAULT 0,
			audio_object_key TEXT,
			audio_bytes BLOB,
			audio_size INTEGER DEFAULT 0,
			audio_mime TEXT,
			stored_object BOOLEAN NOT NULL DEFAULT false,
			stored_inline BOOLEAN NOT NULL DEFAULT false,
			has_transcript BOOLEAN NOT NULL DEFAULT false,
			has_ai_summary BOOLEAN NOT NULL DEFAULT false,
			notes TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE transcripts (
			id TEXT PRIMARY KEY,
			call_id TEXT NOT NULL UNIQUE,
			full_text TEXT NOT NULL,
			segments TEXT DEFAULT '[]',
			language TEXT,
			confidence REAL DEFAULT 0,
			provider TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE ai_summaries (
			id TEXT PRIMARY KEY,
			call_id TEXT NOT NULL UNIQUE,
			summary TEXT NOT NULL,
			highlights TEXT DEFAULT '[]',
			sentiment TEXT DEFAULT 'neutral',
			sentiment_score REAL DEFAULT 0,
			next_steps TEXT DEFAULT '[]',
			concerns TEXT DEFAULT '[]',
			raw_response TEXT,
			model TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE chat_messages (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			content TEXT NOT NULL,
			sender TEXT NOT NULL,
			created_at DATETIME
		)`,
		`CREATE TABLE processing_jobs (
			id TEXT PRIMARY KEY,
			call_id TEXT NOT NULL,
			job_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INTEGER DEFAULT 0,
			max_retries INTEGER DEFAULT 3,
			last_error TEXT,
			started_at DATETIME,
			completed_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	return db
}
