package storage

import (
	"database/sql"
	"fmt"
)

// createSchema creates all tables and indexes for run persistence.
// Uses a transaction for atomicity - all schema creation succeeds or fails
// together. Must be called with SQLite PRAGMA foreign_keys = ON.
func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Enable foreign keys (must be set for each connection)
	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create all tables in dependency order
	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"files", createFilesTable},
		{"classes", createClassesTable},
		{"functions", createFunctionsTable},
		{"parameters", createParametersTable},
		{"variables", createVariablesTable},
		{"function_calls", createFunctionCallsTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range schemaIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	generator TEXT NOT NULL,
	version TEXT NOT NULL,
	root_dir TEXT NOT NULL,
	checksum TEXT NOT NULL,
	created_at TEXT NOT NULL,
	file_count INTEGER NOT NULL
)`

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	path TEXT NOT NULL,
	checksum TEXT NOT NULL,
	UNIQUE (run_id, path),
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
)`

const createClassesTable = `
CREATE TABLE IF NOT EXISTS classes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	position INTEGER NOT NULL,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
)`

const createFunctionsTable = `
CREATE TABLE IF NOT EXISTS functions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL,
	class_id INTEGER NULL,
	name TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	position INTEGER NOT NULL,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE,
	FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
)`

const createParametersTable = `
CREATE TABLE IF NOT EXISTS parameters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	function_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	type_annotation TEXT,
	default_value TEXT,
	FOREIGN KEY (function_id) REFERENCES functions(id) ON DELETE CASCADE
)`

const createVariablesTable = `
CREATE TABLE IF NOT EXISTS variables (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NULL,
	class_id INTEGER NULL,
	function_id INTEGER NULL,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	type_annotation TEXT,
	value TEXT,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE,
	FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
	FOREIGN KEY (function_id) REFERENCES functions(id) ON DELETE CASCADE
)`

const createFunctionCallsTable = `
CREATE TABLE IF NOT EXISTS function_calls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	function_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	called_name TEXT NOT NULL,
	FOREIGN KEY (function_id) REFERENCES functions(id) ON DELETE CASCADE
)`

var schemaIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_classes_file ON classes(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_functions_file ON functions(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_functions_class ON functions(class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_parameters_function ON parameters(function_id)`,
	`CREATE INDEX IF NOT EXISTS idx_variables_file ON variables(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_variables_class ON variables(class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_variables_function ON variables(function_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calls_function ON function_calls(function_id)`,
}
