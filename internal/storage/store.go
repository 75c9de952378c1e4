package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"codescope/internal/model"
)

// Store persists analysis runs to a SQLite database. Each run is a full
// snapshot of one document; unchanged documents are detected by checksum and
// not written twice.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a document as a new run and returns its ID. When the
// latest run for the same root carries the same content checksum, no new run
// is written and the existing ID is returned with created=false.
func (s *Store) SaveRun(rootDir string, doc *model.Document) (runID string, created bool, err error) {
	sum, fileSums, err := documentChecksum(doc)
	if err != nil {
		return "", false, err
	}

	var lastID, lastSum string
	row := s.db.QueryRow(
		`SELECT id, checksum FROM runs WHERE root_dir = ? ORDER BY rowid DESC LIMIT 1`, rootDir)
	switch err := row.Scan(&lastID, &lastSum); {
	case err == sql.ErrNoRows:
	case err != nil:
		return "", false, fmt.Errorf("failed to query latest run: %w", err)
	case lastSum == sum:
		return lastID, false, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", false, fmt.Errorf("failed to begin run transaction: %w", err)
	}
	defer tx.Rollback()

	runID = uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO runs (id, generator, version, root_dir, checksum, created_at, file_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, doc.Generator, doc.Version, rootDir, sum,
		time.Now().UTC().Format(time.RFC3339), len(doc.Files))
	if err != nil {
		return "", false, fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range doc.Files {
		if err := insertFile(tx, runID, &doc.Files[i], fileSums[i]); err != nil {
			return "", false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit run transaction: %w", err)
	}
	return runID, true, nil
}

func insertFile(tx *sql.Tx, runID string, record *model.FileRecord, checksum string) error {
	res, err := tx.Exec(
		`INSERT INTO files (run_id, path, checksum) VALUES (?, ?, ?)`,
		runID, record.FilePath, checksum)
	if err != nil {
		return fmt.Errorf("failed to insert file %s: %w", record.FilePath, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range record.TopLevelVariables {
		v := &record.TopLevelVariables[i]
		_, err := tx.Exec(
			`INSERT INTO variables (file_id, position, name, type_annotation, value)
			 VALUES (?, ?, ?, ?, ?)`,
			fileID, i, v.Name, v.Type, v.Value)
		if err != nil {
			return fmt.Errorf("failed to insert variable %s: %w", v.Name, err)
		}
	}

	for i := range record.Functions {
		if err := insertFunction(tx, fileID, nil, i, &record.Functions[i]); err != nil {
			return err
		}
	}

	for i := range record.Classes {
		if err := insertClass(tx, fileID, i, &record.Classes[i]); err != nil {
			return err
		}
	}
	return nil
}

func insertClass(tx *sql.Tx, fileID int64, position int, cls *model.ClassInfo) error {
	res, err := tx.Exec(
		`INSERT INTO classes (file_id, name, start_line, end_line, position)
		 VALUES (?, ?, ?, ?, ?)`,
		fileID, cls.Name, cls.StartLine, cls.EndLine, position)
	if err != nil {
		return fmt.Errorf("failed to insert class %s: %w", cls.Name, err)
	}
	classID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range cls.Attributes {
		attr := &cls.Attributes[i]
		_, err := tx.Exec(
			`INSERT INTO variables (class_id, position, name, type_annotation, value)
			 VALUES (?, ?, ?, ?, ?)`,
			classID, i, attr.Name, attr.Type, attr.Value)
		if err != nil {
			return fmt.Errorf("failed to insert attribute %s: %w", attr.Name, err)
		}
	}

	for i := range cls.Methods {
		if err := insertFunction(tx, fileID, &classID, i, &cls.Methods[i]); err != nil {
			return err
		}
	}
	return nil
}

func insertFunction(tx *sql.Tx, fileID int64, classID *int64, position int, fn *model.FunctionInfo) error {
	res, err := tx.Exec(
		`INSERT INTO functions (file_id, class_id, name, start_line, end_line, position)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fileID, classID, fn.Name, fn.StartLine, fn.EndLine, position)
	if err != nil {
		return fmt.Errorf("failed to insert function %s: %w", fn.Name, err)
	}
	functionID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range fn.Parameters {
		p := &fn.Parameters[i]
		_, err := tx.Exec(
			`INSERT INTO parameters (function_id, position, name, type_annotation, default_value)
			 VALUES (?, ?, ?, ?, ?)`,
			functionID, i, p.Name, p.Type, p.Default)
		if err != nil {
			return fmt.Errorf("failed to insert parameter %s: %w", p.Name, err)
		}
	}

	for i := range fn.LocalVars {
		v := &fn.LocalVars[i]
		_, err := tx.Exec(
			`INSERT INTO variables (function_id, position, name, type_annotation, value)
			 VALUES (?, ?, ?, ?, ?)`,
			functionID, i, v.Name, v.Type, v.Value)
		if err != nil {
			return fmt.Errorf("failed to insert local %s: %w", v.Name, err)
		}
	}

	for i, call := range fn.Calls {
		_, err := tx.Exec(
			`INSERT INTO function_calls (function_id, position, called_name) VALUES (?, ?, ?)`,
			functionID, i, call)
		if err != nil {
			return fmt.Errorf("failed to insert call %s: %w", call, err)
		}
	}
	return nil
}

// documentChecksum derives a content checksum for the whole document plus a
// per-file checksum for each record. Records serialize deterministically, so
// equal documents always hash equal.
func documentChecksum(doc *model.Document) (string, []string, error) {
	fileSums := make([]string, len(doc.Files))
	total := sha256.New()
	for i := range doc.Files {
		encoded, err := json.Marshal(&doc.Files[i])
		if err != nil {
			return "", nil, fmt.Errorf("failed to checksum %s: %w", doc.Files[i].FilePath, err)
		}
		sum := sha256.Sum256(encoded)
		fileSums[i] = hex.EncodeToString(sum[:])
		total.Write(sum[:])
	}
	return hex.EncodeToString(total.Sum(nil)), fileSums, nil
}
