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
	"fmt"
	"os"

	"github.com/uptrace/bun"
)

// silenceBootstrap mutes the colored query hook during table bootstrap
// unless BUNDEBUG_BOOTSTRAP is set. The returned func restores it.
func silenceBootstrap() func() {
	if _, ok := os.LookupEnv("BUNDEBUG_BOOTSTRAP"); ok {
		return func() {}
	}
	EnableBunSqlSilent(true)
	return func() { EnableBunSqlSilent(false) }
}

// CreateTables runs CREATE TABLE IF NOT EXISTS for every model, in order.
func CreateTables(ctx context.Context, db bun.IDB, models ...interface{}) error {
	defer silenceBootstrap()()
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table %T: %w", model, err)
		}
	}
	return nil
}

// DropTables runs DROP TABLE IF EXISTS for every model, in reverse order.
func DropTables(ctx context.Context, db bun.IDB, models ...interface{}) error {
	defer silenceBootstrap()()
	for i := len(models) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().
			Model(models[i]).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table %T: %w", models[i], err)
		}
	}
	return nil
}

// ResetTables drops and recreates the tables of models.
func ResetTables(ctx context.Context, db bun.IDB, models ...interface{}) error {
	if err := DropTables(ctx, db, models...); err != nil {
		return err
	}
	return CreateTables(ctx, db, models...)
}

// CreateRegisteredTables creates the tables of every registered model.
func CreateRegisteredTables(ctx context.Context, db bun.IDB) error {
	return CreateTables(ctx, db, RegisteredModelInstances()...)
}
