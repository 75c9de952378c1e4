package storage

import (
	"database/sql"
	"fmt"

	"codescope/internal/model"
)

// LatestRunID returns the ID of the most recent run for a root directory.
// sql.ErrNoRows is returned when no run exists.
func (s *Store) LatestRunID(rootDir string) (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT id FROM runs WHERE root_dir = ? ORDER BY rowid DESC LIMIT 1`, rootDir).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// LoadRun reconstructs the full document of a run. Collections come back in
// their original order, so a loaded document round-trips byte-identically
// through the encoder.
func (s *Store) LoadRun(runID string) (*model.Document, error) {
	doc := &model.Document{}
	err := s.db.QueryRow(
		`SELECT generator, version FROM runs WHERE id = ?`, runID).Scan(&doc.Generator, &doc.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	rows, err := s.db.Query(
		`SELECT id, path FROM files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load files for run %s: %w", runID, err)
	}
	defer rows.Close()

	type fileRow struct {
		id   int64
		path string
	}
	var fileRows []fileRow
	for rows.Next() {
		var fr fileRow
		if err := rows.Scan(&fr.id, &fr.path); err != nil {
			return nil, err
		}
		fileRows = append(fileRows, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	doc.Files = make([]model.FileRecord, 0, len(fileRows))
	for _, fr := range fileRows {
		record, err := s.loadFile(fr.id, fr.path)
		if err != nil {
			return nil, err
		}
		doc.Files = append(doc.Files, *record)
	}
	return doc, nil
}

func (s *Store) loadFile(fileID int64, path string) (*model.FileRecord, error) {
	record := model.NewFileRecord(path)

	vars, err := s.loadVariables("file_id", fileID)
	if err != nil {
		return nil, err
	}
	record.TopLevelVariables = vars

	functions, err := s.loadFunctions(
		`SELECT id, name, start_line, end_line FROM functions
		 WHERE file_id = ? AND class_id IS NULL ORDER BY position`, fileID)
	if err != nil {
		return nil, err
	}
	record.Functions = functions

	classes, err := s.loadClasses(fileID)
	if err != nil {
		return nil, err
	}
	record.Classes = classes

	return record, nil
}

func (s *Store) loadClasses(fileID int64) ([]model.ClassInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, name, start_line, end_line FROM classes
		 WHERE file_id = ? ORDER BY position`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type classRow struct {
		id  int64
		cls model.ClassInfo
	}
	var classRows []classRow
	for rows.Next() {
		var cr classRow
		if err := rows.Scan(&cr.id, &cr.cls.Name, &cr.cls.StartLine, &cr.cls.EndLine); err != nil {
			return nil, err
		}
		classRows = append(classRows, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	classes := make([]model.ClassInfo, 0, len(classRows))
	for _, cr := range classRows {
		attrs, err := s.loadVariables("class_id", cr.id)
		if err != nil {
			return nil, err
		}
		cr.cls.Attributes = attrs

		methods, err := s.loadFunctions(
			`SELECT id, name, start_line, end_line FROM functions
			 WHERE class_id = ? ORDER BY position`, cr.id)
		if err != nil {
			return nil, err
		}
		cr.cls.Methods = methods

		classes = append(classes, cr.cls)
	}
	return classes, nil
}

func (s *Store) loadFunctions(query string, ownerID int64) ([]model.FunctionInfo, error) {
	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type funcRow struct {
		id int64
		fn model.FunctionInfo
	}
	var funcRows []funcRow
	for rows.Next() {
		var fr funcRow
		if err := rows.Scan(&fr.id, &fr.fn.Name, &fr.fn.StartLine, &fr.fn.EndLine); err != nil {
			return nil, err
		}
		funcRows = append(funcRows, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	functions := make([]model.FunctionInfo, 0, len(funcRows))
	for _, fr := range funcRows {
		params, err := s.loadParameters(fr.id)
		if err != nil {
			return nil, err
		}
		fr.fn.Parameters = params

		locals, err := s.loadVariables("function_id", fr.id)
		if err != nil {
			return nil, err
		}
		fr.fn.LocalVars = locals

		calls, err := s.loadCalls(fr.id)
		if err != nil {
			return nil, err
		}
		fr.fn.Calls = calls

		functions = append(functions, fr.fn)
	}
	return functions, nil
}

func (s *Store) loadParameters(functionID int64) ([]model.ParameterInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, type_annotation, default_value FROM parameters
		 WHERE function_id = ? ORDER BY position`, functionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := []model.ParameterInfo{}
	for rows.Next() {
		var p model.ParameterInfo
		var typ, def sql.NullString
		if err := rows.Scan(&p.Name, &typ, &def); err != nil {
			return nil, err
		}
		p.Type = nullableString(typ)
		p.Default = nullableString(def)
		params = append(params, p)
	}
	return params, rows.Err()
}

func (s *Store) loadVariables(ownerColumn string, ownerID int64) ([]model.VariableInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, type_annotation, value FROM variables
		 WHERE `+ownerColumn+` = ? ORDER BY position`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vars := []model.VariableInfo{}
	for rows.Next() {
		var v model.VariableInfo
		var typ, value sql.NullString
		if err := rows.Scan(&v.Name, &typ, &value); err != nil {
			return nil, err
		}
		v.Type = nullableString(typ)
		v.Value = nullableString(value)
		vars = append(vars, v)
	}
	return vars, rows.Err()
}

func (s *Store) loadCalls(functionID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT called_name FROM function_calls WHERE function_id = ? ORDER BY position`, functionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		calls = append(calls, name)
	}
	return calls, rows.Err()
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
