// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lostluck.dev/props-go"
)

func quietLogger() props.Options {
	return props.Logger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "propsgo dev\n", stdout)
}

func TestConvertScript(t *testing.T) {
	t.Setenv(configEnv, "")
	src, dst := t.TempDir(), t.TempDir()
	writeFiles(t, src, map[string]string{
		"en.properties": "greeting = Hello\nfarewell = Bye",
		"notes.txt":     "ignored",
	})

	_, stderr, err := execute(t, "convert", "--src", "file://"+src, "--dst", "file://"+dst, "-n", "i18n.en")
	require.NoError(t, err)
	assert.Equal(t, "var i18n_en = i18n_en || {};\ni18n_en['greeting'] = 'Hello';\ni18n_en['farewell'] = 'Bye';\n",
		readFile(t, filepath.Join(dst, "en.js")))
	assert.NoFileExists(t, filepath.Join(dst, "notes.js"))
	assert.Contains(t, stderr, "namespace option was renamed")
	assert.Contains(t, stderr, "conversion finished")
}

func TestConvertConfigFile(t *testing.T) {
	t.Setenv(configEnv, "")
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"en.properties": "greeting = Hello\nfarewell = Bye",
	})

	// The destination defaults to the source bucket.
	_, _, err := execute(t, "convert", "-c", "testdata/json.yaml", "--src", "file://"+src)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"greeting\": \"Hello\"\n}", readFile(t, filepath.Join(src, "en.json")))

	// Flags override the configuration.
	_, _, err = execute(t, "convert", "-c", "testdata/json.yaml", "--src", "file://"+src, "-s", "0", "--append-ext")
	require.NoError(t, err)
	assert.Equal(t, `{"greeting":"Hello"}`, readFile(t, filepath.Join(src, "en.properties.json")))
}

func TestConvertStringSpace(t *testing.T) {
	t.Setenv(configEnv, "")
	src, dst := t.TempDir(), t.TempDir()
	writeFiles(t, src, map[string]string{"en.properties": "greeting = Hello"})

	_, _, err := execute(t, "convert", "--src", "file://"+src, "--dst", "file://"+dst, "--json", "-s", "abc")
	require.NoError(t, err)
	assert.Equal(t, "{\nabc\"greeting\": \"Hello\"\n}", readFile(t, filepath.Join(dst, "en.json")))
}

func TestConvertEnvConfig(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFiles(t, src, map[string]string{
		"fr.properties": "caf\xe9 = cr\xe8me",
	})
	t.Setenv(configEnv, "namespace: app\ncharset: iso-8859-1\nsource: file://"+src+"\ndestination: file://"+dst)

	_, _, err := execute(t, "convert")
	require.NoError(t, err)
	assert.Equal(t, "var app = app || {};\napp['café'] = 'crème';\n", readFile(t, filepath.Join(dst, "fr.js")))
}

func TestConvertFailures(t *testing.T) {
	t.Setenv(configEnv, "")
	src, dst := t.TempDir(), t.TempDir()
	writeFiles(t, src, map[string]string{
		"good.properties": "a = 1",
		"bad.properties":  "a = \\uZZZZ",
	})

	_, stderr, err := execute(t, "convert", "--src", "file://"+src, "--dst", "file://"+dst, "--json")
	assert.ErrorContains(t, err, "1 of 2 files failed to convert")
	assert.Contains(t, stderr, "bad.properties")
	assert.Equal(t, `{"a":"1"}`, readFile(t, filepath.Join(dst, "good.json")))
	assert.NoFileExists(t, filepath.Join(dst, "bad.json"))
}

func TestConvertUsageErrors(t *testing.T) {
	t.Setenv(configEnv, "")

	_, _, err := execute(t, "convert")
	assert.ErrorContains(t, err, "no source bucket")

	_, _, err = execute(t, "convert", "--src", "mem://", "--json", "-n", "x")
	assert.Error(t, err)

	_, _, err = execute(t, "convert", "-c", "testdata/unknown.yaml", "--src", "mem://")
	assert.ErrorContains(t, err, "configuration parse error")

	_, _, err = execute(t, "convert", "-c", "testdata/missing.yaml", "--src", "mem://")
	assert.Error(t, err)

	_, _, err = execute(t, "convert", "--src", "mem://", "-n", "class")
	assert.ErrorContains(t, err, "reserved word")
}
