/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

const commonFixtureEnv = "common"

var fixtureOrderPattern = regexp.MustCompile(`^(\d+)_`)

// FixtureLoader seeds tables from files under root: first common/, then
// environments/<environment>/. Files are ordered by their numeric prefix
// ("010_spies.yaml") and each one is loaded in its own transaction.
//
// YAML files map table names to row lists:
//
//	spies:
//	  - {name: mark, age: 172}
//	  - {name: katrina, age: 57}
//
// .sql files are split on ';' line endings and executed as is. Both kinds
// are expanded as text/template with the process environment plus
// ENVIRONMENT and TIMESTAMP before use.
type FixtureLoader struct {
	db          bun.IDB
	environment string
	root        string
	logger      Logger
}

// FixtureFile describes one discovered fixture file.
type FixtureFile struct {
	Path        string
	Name        string
	Order       int
	Environment string
}

// TableFixture holds the rows destined for one table, in file order.
type TableFixture struct {
	Table string
	Rows  []map[string]interface{}
}

// FixtureResult is the outcome of loading a single file.
type FixtureResult struct {
	File         string
	Duration     time.Duration
	RowsAffected int64
}

func NewFixtureLoader(db bun.IDB, environment string) *FixtureLoader {
	return &FixtureLoader{
		db:          db,
		environment: environment,
		root:        DefaultFixtureConfig().Dir,
		logger:      GetLogger(),
	}
}

func (l *FixtureLoader) SetRoot(path string) *FixtureLoader {
	l.root = path
	return l
}

func (l *FixtureLoader) SetLogger(logger Logger) *FixtureLoader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Load loads every fixture file and stops at the first failure.
func (l *FixtureLoader) Load(ctx context.Context) error {
	l.logger.Info("Starting fixture loading", "environment", l.environment, "dir", l.root)

	files, err := l.Files()
	if err != nil {
		return fmt.Errorf("failed to list fixture files: %w", err)
	}
	if len(files) == 0 {
		l.logger.Info("No fixture files found")
		return nil
	}

	for _, file := range files {
		result, err := l.LoadFile(ctx, file)
		if err != nil {
			l.logger.Error("Fixture loading failed", "file", file.Path, "error", err)
			return fmt.Errorf("fixture %s: %w", file.Path, err)
		}
		l.logger.Info("Fixture loaded", "file", result.File, "duration", result.Duration.String(), "rows_affected", result.RowsAffected)
	}

	l.logger.Info("Fixture loading completed", "total_files", len(files), "environment", l.environment)
	return nil
}

// Files returns the fixture files in load order.
func (l *FixtureLoader) Files() ([]FixtureFile, error) {
	files, err := l.filesFromDir(filepath.Join(l.root, commonFixtureEnv), commonFixtureEnv)
	if err != nil {
		return nil, err
	}

	if l.environment != "" {
		envFiles, err := l.filesFromDir(filepath.Join(l.root, "environments", l.environment), l.environment)
		if err != nil {
			return nil, err
		}
		files = append(files, envFiles...)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Environment != files[j].Environment {
			return files[i].Environment == commonFixtureEnv
		}
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (l *FixtureLoader) filesFromDir(dir, environment string) ([]FixtureFile, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var files []FixtureFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isFixtureFile(d.Name()) {
			return nil
		}
		files = append(files, FixtureFile{
			Path:        path,
			Name:        d.Name(),
			Order:       parseFixtureOrder(d.Name()),
			Environment: environment,
		})
		return nil
	})
	return files, err
}

func isFixtureFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".sql":
		return true
	default:
		return false
	}
}

// parseFixtureOrder reads the numeric prefix; unprefixed files sort last.
func parseFixtureOrder(name string) int {
	matches := fixtureOrderPattern.FindStringSubmatch(name)
	if len(matches) > 1 {
		if n, err := strconv.Atoi(matches[1]); err == nil {
			return n
		}
	}
	return 999
}

// LoadFile loads one file inside a transaction.
func (l *FixtureLoader) LoadFile(ctx context.Context, file FixtureFile) (FixtureResult, error) {
	start := time.Now()
	result := FixtureResult{File: file.Path}

	content, err := os.ReadFile(file.Path)
	if err != nil {
		return result, fmt.Errorf("failed to read file: %w", err)
	}
	content, err = l.expand(content)
	if err != nil {
		return result, err
	}

	defer silenceBootstrap()()
	err = l.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var n int64
		var err error
		if strings.EqualFold(filepath.Ext(file.Name), ".sql") {
			n, err = execStatements(ctx, tx, SplitSQLStatements(string(content)))
		} else {
			var tables []TableFixture
			if tables, err = ParseFixtures(content); err == nil {
				n, err = insertFixtures(ctx, tx, tables)
			}
		}
		result.RowsAffected = n
		return err
	})
	result.Duration = time.Since(start)
	return result, err
}

func (l *FixtureLoader) expand(content []byte) ([]byte, error) {
	tmpl, err := template.New("fixture").Option("missingkey=zero").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		if k, v, ok := strings.Cut(env, "="); ok {
			vars[k] = v
		}
	}
	vars["ENVIRONMENT"] = l.environment
	vars["TIMESTAMP"] = time.Now().Format("2006-01-02 15:04:05")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseFixtures decodes a YAML fixture document keeping the table order of
// the file.
func ParseFixtures(data []byte) ([]TableFixture, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid fixture yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("invalid fixture yaml: line %d: expected a mapping of table names", root.Line)
	}

	tables := make([]TableFixture, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var rows []map[string]interface{}
		if err := root.Content[i+1].Decode(&rows); err != nil {
			return nil, fmt.Errorf("invalid fixture yaml: table %s: %w", name, err)
		}
		tables = append(tables, TableFixture{Table: name, Rows: rows})
	}
	return tables, nil
}

func insertFixtures(ctx context.Context, db bun.IDB, tables []TableFixture) (int64, error) {
	var total int64
	for _, t := range tables {
		for _, row := range t.Rows {
			if len(row) == 0 {
				continue
			}
			values := row
			res, err := db.NewInsert().
				Model(&values).
				TableExpr("?", bun.Ident(t.Table)).
				Exec(ctx)
			if err != nil {
				return total, fmt.Errorf("failed to insert into %s: %w", t.Table, err)
			}
			n, _ := res.RowsAffected()
			total += n
		}
	}
	return total, nil
}

func execStatements(ctx context.Context, db bun.IDB, statements []string) (int64, error) {
	var total int64
	for _, stmt := range statements {
		res, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return total, fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// SplitSQLStatements splits content into statements ending with ';' at the
// end of a line, skipping blank lines and "--" comments.
func SplitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
