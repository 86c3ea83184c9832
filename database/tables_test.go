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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndDropTables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, CreateTables(ctx, db, (*testSpy)(nil), (*testMission)(nil)))
	// IF NOT EXISTS makes a second run harmless
	require.NoError(t, CreateTables(ctx, db, (*testSpy)(nil), (*testMission)(nil)))

	_, err := db.NewInsert().Model(&testSpy{Name: "mark", XP: 172}).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db, (*testSpy)(nil)))

	require.NoError(t, ResetTables(ctx, db, (*testSpy)(nil)))
	assert.Equal(t, 0, countRows(t, db, (*testSpy)(nil)))

	require.NoError(t, DropTables(ctx, db, (*testSpy)(nil), (*testMission)(nil)))
	_, err = db.NewSelect().Model((*testSpy)(nil)).Count(ctx)
	require.Error(t, err)
	_, kind := IsSqlError(err)
	assert.Equal(t, NoTableErr, kind)
}

func TestBootstrapRestoresQueryLog(t *testing.T) {
	restore := silenceBootstrap()
	assert.True(t, bunSqlSilentMode.Load())
	restore()
	assert.False(t, bunSqlSilentMode.Load())

	t.Setenv("BUNDEBUG_BOOTSTRAP", "1")
	silenceBootstrap()()
	assert.False(t, bunSqlSilentMode.Load())
}

func TestModelRegistry(t *testing.T) {
	t.Cleanup(ResetRegisteredModels)
	ResetRegisteredModels()

	RegisterModel((*testMission)(nil), 20)
	RegisterModel((*testSpy)(nil), 10)
	RegisteredModel(NewModelAdapter((*testMission)(nil), 5))
	RegisterModel(nil, 1)

	models := GetRegisteredModels()
	require.Len(t, models, 2)
	assert.Equal(t, 5, models[0].Priority())
	assert.IsType(t, (*testMission)(nil), models[0].Instance())
	assert.IsType(t, (*testSpy)(nil), models[1].Instance())

	instances := RegisteredModelInstances()
	require.Len(t, instances, 2)
	assert.IsType(t, (*testSpy)(nil), instances[1])

	db := newTestDB(t)
	require.NoError(t, CreateRegisteredTables(context.Background(), db))
	assert.Equal(t, 0, countRows(t, db, (*testMission)(nil)))

	ResetRegisteredModels()
	assert.Empty(t, GetRegisteredModels())
}
