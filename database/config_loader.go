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
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConfigEnvPrefix prefixes environment variables read by LoadConfig, e.g.
// BRANCHREPO_CONNECTION_HOST.
const ConfigEnvPrefix = "BRANCHREPO"

// LoadConfig reads a YAML (or any viper supported) config file and applies
// BRANCHREPO_* environment variables on top of it. An empty path loads
// defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.SetEnvPrefix(ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// setConfigDefaults registers every key so AutomaticEnv can override it.
func setConfigDefaults(v *viper.Viper) {
	d := DefaultConnectionConfig()
	fx := DefaultFixtureConfig()

	v.SetDefault("connection.type", "sqlite")
	v.SetDefault("connection.host", "127.0.0.1")
	v.SetDefault("connection.port", 0)
	v.SetDefault("connection.username", "")
	v.SetDefault("connection.password", "")
	v.SetDefault("connection.dbname", "")
	v.SetDefault("connection.sslmode", "")
	v.SetDefault("connection.max_idle_conns", d.MaxIdleConns)
	v.SetDefault("connection.max_open_conns", d.MaxOpenConns)
	v.SetDefault("connection.conn_max_lifetime", d.ConnMaxLifetime)
	v.SetDefault("connection.conn_max_idle_time", d.ConnMaxIdleTime)
	v.SetDefault("connection.connect_timeout", d.ConnectTimeout)
	v.SetDefault("connection.read_timeout", d.ReadTimeout)
	v.SetDefault("connection.write_timeout", d.WriteTimeout)
	v.SetDefault("connection.enable_reconnect", d.EnableReconnect)
	v.SetDefault("connection.reconnect_interval", d.ReconnectInterval)
	v.SetDefault("connection.max_reconnect_tries", d.MaxReconnectTries)
	v.SetDefault("connection.health_check_interval", d.HealthCheckInterval)
	v.SetDefault("connection.enable_query_log", d.EnableQueryLog)
	v.SetDefault("connection.query_log_format", d.QueryLogFormat)
	v.SetDefault("connection.slow_query_time", d.SlowQueryTime)

	v.SetDefault("schema.create_tables_on_startup", false)

	v.SetDefault("fixtures.load_on_startup", false)
	v.SetDefault("fixtures.dir", fx.Dir)
	v.SetDefault("fixtures.environment", fx.Environment)
}
