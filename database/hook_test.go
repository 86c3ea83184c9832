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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"

	"github.com/tomoncle/branchrepo/branch"
)

func queryEvent(query string, err error) *bun.QueryEvent {
	return &bun.QueryEvent{Query: query, StartTime: time.Now().Add(-time.Millisecond), Err: err}
}

func TestQueryHookVerbose(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, "", true)

	ctx := branch.WithContext(context.Background(), 7)
	hook.AfterQuery(hook.BeforeQuery(ctx, nil), queryEvent(`SELECT * FROM "spies"`, nil))

	out := buf.String()
	assert.Contains(t, out, "[BUN]")
	assert.Contains(t, out, "branch=7")
	assert.Contains(t, out, `SELECT * FROM "spies"`)
}

func TestQueryHookFailuresOnly(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, "", false)
	ctx := context.Background()

	hook.AfterQuery(ctx, queryEvent("SELECT 1", nil))
	hook.AfterQuery(ctx, queryEvent("SELECT 1", sql.ErrNoRows))
	assert.Empty(t, buf.String())

	hook.AfterQuery(ctx, queryEvent("INSERT INTO spies DEFAULT VALUES", errors.New("NOT NULL constraint failed: spies.name")))
	out := buf.String()
	assert.Contains(t, out, "INSERT INTO spies")
	assert.Contains(t, out, "NOT NULL constraint failed")
	assert.NotContains(t, out, "branch=")
}

func TestQueryHookEnvironment(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, "BRANCHREPO_TEST_QUERY_LOG", true)

	t.Setenv("BRANCHREPO_TEST_QUERY_LOG", "0")
	hook.AfterQuery(context.Background(), queryEvent("SELECT 1", errors.New("boom")))
	assert.Empty(t, buf.String())

	t.Setenv("BRANCHREPO_TEST_QUERY_LOG", "1")
	hook.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	assert.Empty(t, buf.String())

	t.Setenv("BRANCHREPO_TEST_QUERY_LOG", "2")
	hook.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestQueryHookSilent(t *testing.T) {
	t.Cleanup(func() { EnableBunSqlSilent(false) })
	var buf bytes.Buffer
	hook := NewQueryHook(&buf, "", true)

	EnableBunSqlSilent(true)
	hook.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	assert.Empty(t, buf.String())
}

func TestOperationColor(t *testing.T) {
	assert.Same(t, selectColor, operationColor("SELECT"))
	assert.Same(t, insertColor, operationColor("INSERT"))
	assert.Same(t, updateColor, operationColor("UPDATE"))
	assert.Same(t, deleteColor, operationColor("DELETE"))
	assert.Same(t, otherColor, operationColor("CREATE TABLE"))
}

func TestQueryHookOnDB(t *testing.T) {
	var buf bytes.Buffer
	db := newTestDB(t)
	db.AddQueryHook(NewQueryHook(&buf, "", true))

	ctx := branch.WithContext(context.Background(), 3)
	_, err := db.NewSelect().ColumnExpr("1").Exec(ctx)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "branch=3")
	assert.Contains(t, buf.String(), "SELECT 1")
}
