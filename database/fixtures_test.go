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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseFixturesKeepsTableOrder(t *testing.T) {
	tables, err := ParseFixtures([]byte(`
spies:
  - {name: mark, xp: 172}
  - {name: katrina, xp: 57}
missions:
  - {spy_id: 1, code: alpha}
agents: []
`))
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "spies", tables[0].Table)
	assert.Equal(t, "missions", tables[1].Table)
	assert.Equal(t, "agents", tables[2].Table)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, "katrina", tables[0].Rows[1]["name"])
	assert.Equal(t, 57, tables[0].Rows[1]["xp"])
	assert.Empty(t, tables[2].Rows)
}

func TestParseFixturesErrors(t *testing.T) {
	tables, err := ParseFixtures(nil)
	require.NoError(t, err)
	assert.Empty(t, tables)

	_, err = ParseFixtures([]byte("- spies\n- missions\n"))
	assert.Error(t, err)

	_, err = ParseFixtures([]byte("spies: mark\n"))
	assert.Error(t, err)
}

func TestSplitSQLStatements(t *testing.T) {
	statements := SplitSQLStatements(`
-- seed
INSERT INTO spies (name, xp)
VALUES ('mark', 172);

INSERT INTO spies (name, xp) VALUES ('katrina', 57);
UPDATE spies SET xp = 58 WHERE name = 'katrina'
`)
	assert.Equal(t, []string{
		"INSERT INTO spies (name, xp) VALUES ('mark', 172);",
		"INSERT INTO spies (name, xp) VALUES ('katrina', 57);",
		"UPDATE spies SET xp = 58 WHERE name = 'katrina'",
	}, statements)
	assert.Empty(t, SplitSQLStatements("-- nothing\n\n"))
}

func TestParseFixtureOrder(t *testing.T) {
	assert.Equal(t, 10, parseFixtureOrder("010_spies.yaml"))
	assert.Equal(t, 2, parseFixtureOrder("2_missions.sql"))
	assert.Equal(t, 999, parseFixtureOrder("spies.yaml"))
}

func TestFixtureFilesOrder(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "common/020_missions.yaml", "missions: []\n")
	writeFixture(t, root, "common/010_spies.yaml", "spies: []\n")
	writeFixture(t, root, "common/README.md", "ignored")
	writeFixture(t, root, "environments/test/001_extra.sql", "")
	writeFixture(t, root, "environments/prod/001_prod.sql", "")

	files, err := NewFixtureLoader(newTestDB(t), "test").SetRoot(root).Files()
	require.NoError(t, err)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"010_spies.yaml", "020_missions.yaml", "001_extra.sql"}, names)
	assert.Equal(t, "test", files[2].Environment)
	assert.Equal(t, 1, files[2].Order)
}

func TestFixtureLoaderMissingDir(t *testing.T) {
	loader := NewFixtureLoader(newTestDB(t), "dev").SetRoot(filepath.Join(t.TempDir(), "none"))
	files, err := loader.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NoError(t, loader.Load(context.Background()))
}

func TestFixtureLoaderLoad(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTables(ctx, db, (*testMission)(nil)))

	root := t.TempDir()
	writeFixture(t, root, "common/001_schema.sql", `
CREATE TABLE IF NOT EXISTS spies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name VARCHAR NOT NULL,
  xp INTEGER,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	writeFixture(t, root, "common/010_spies.yaml", `
spies:
  - {name: mark, xp: 172}
  - {name: katrina, xp: 57}
missions:
  - {spy_id: 1, code: alpha}
`)
	writeFixture(t, root, "environments/test/020_spies.yaml", `
spies:
  - {name: "{{.ENVIRONMENT}}-janelle", xp: 352}
`)

	require.NoError(t, NewFixtureLoader(db, "test").SetRoot(root).Load(ctx))
	assert.Equal(t, 3, countRows(t, db, (*testSpy)(nil)))
	assert.Equal(t, 1, countRows(t, db, (*testMission)(nil)))

	var spy testSpy
	require.NoError(t, db.NewSelect().Model(&spy).Where("xp = ?", 352).Scan(ctx))
	assert.Equal(t, "test-janelle", spy.Name)
	assert.False(t, spy.CreatedAt.IsZero())
}

func TestFixtureLoaderRollsBackFailedFile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, CreateTables(ctx, db, (*testSpy)(nil)))

	root := t.TempDir()
	writeFixture(t, root, "common/010_spies.yaml", `
spies:
  - {name: mark, xp: 172}
  - {xp: 57}
`)

	err := NewFixtureLoader(db, "").SetRoot(root).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "010_spies.yaml")
	assert.Equal(t, 0, countRows(t, db, (*testSpy)(nil)))
}
