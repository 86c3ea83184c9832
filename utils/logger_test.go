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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLoggerWritesToConsoleOutput(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	SetConsoleOutput(&buf)
	t.Cleanup(func() { SetConsoleOutput(nil) })

	l := NewLogger("UTILS-TEST")
	registered, ok := GetRegisteredLogger("UTILS-TEST")
	require.True(t, ok)
	assert.Same(t, l, registered)

	require.True(t, SetLoggerLevel("UTILS-TEST", "info"))
	l.WithField("table", "spies").Info("created")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "UTILS-TEST")
	assert.Contains(t, out, "created table=spies")
	assert.NotContains(t, out, "hidden")

	assert.False(t, SetLoggerLevel("MISSING", "info"))
}

func TestLog4jColorFormatter(t *testing.T) {
	noColor(t)
	f := &Log4jColorFormatter{LoggerName: "REPOSITORY", NameWidth: 4}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"b": 2, "a": 1},
	}
	b, err := f.Format(entry)
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "2025-01-02 03:04:05.000")
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "REPO")
	assert.NotContains(t, out, "REPOSITORY")
	assert.Contains(t, out, "slow query a=1 b=2")
	assert.True(t, bytes.HasSuffix(b, []byte("\n")))
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DATABASE"}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.ErrorLevel,
		Message: "insert failed",
		Data:    logrus.Fields{"error": errors.New("duplicate key"), "table": "spies"},
	}
	b, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "DATABASE", rec["model"])
	assert.Equal(t, "insert failed", rec["message"])
	assert.Equal(t, "2025-01-02 03:04:05.000", rec["time"])
	assert.Equal(t, map[string]interface{}{"error": "duplicate key", "table": "spies"}, rec["fields"])
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("BRANCHREPO_TEST_STRING", "value")
	t.Setenv("BRANCHREPO_TEST_BOOL", "true")
	t.Setenv("BRANCHREPO_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "value", EnvDefaultString("BRANCHREPO_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("BRANCHREPO_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("BRANCHREPO_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("BRANCHREPO_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("BRANCHREPO_TEST_UNSET", false))
}
