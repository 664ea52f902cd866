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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lostluck.dev/props-go"
	"lostluck.dev/props-go/properties"
)

func TestParseConfig(t *testing.T) {
	config, err := parseConfig(`
source: file:///srv/i18n
destination: mem://
namespace: messages
space: "\t"
append_ext: true
allow_keys: [a, b]
charset: latin1
`)
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/i18n", config.Source)
	assert.Equal(t, "mem://", config.Destination)
	assert.Equal(t, defaultPattern, config.Pattern)
	require.NotNil(t, config.Namespace)
	assert.Equal(t, "messages", *config.Namespace)
	assert.Equal(t, Space{set: true, s: "\t", str: true}, config.Space)
	assert.True(t, config.AppendExt)
	assert.Equal(t, []string{"a", "b"}, config.AllowKeys)
	assert.Equal(t, "latin1", config.Charset)
}

func TestParseConfigEmpty(t *testing.T) {
	config, err := parseConfig("")
	require.NoError(t, err)
	assert.Nil(t, config.Namespace)
	assert.False(t, config.Space.set)
	assert.Empty(t, config.options())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := parseConfig("space: [1, 2]")
	assert.ErrorContains(t, err, "configuration parse error")

	_, err = parseConfig("namspace: typo")
	assert.ErrorContains(t, err, "namspace")
}

func TestSpace(t *testing.T) {
	tests := []struct {
		yaml string
		want Space
	}{
		{"space: 4", Space{set: true, n: 4}},
		{"space: -1", Space{set: true, n: -1}},
		{`space: "4"`, Space{set: true, s: "4", str: true}},
		{"space: '--'", Space{set: true, s: "--", str: true}},
	}
	for _, test := range tests {
		config, err := parseConfig(test.yaml)
		require.NoError(t, err, test.yaml)
		assert.Equal(t, test.want, config.Space, test.yaml)
	}

	assert.Equal(t, Space{set: true, n: 3}, parseSpace("3"))
	assert.Equal(t, Space{set: true, s: "ab", str: true}, parseSpace("ab"))
}

func TestConfigOptions(t *testing.T) {
	m := properties.New()
	m.Set("b", "2")
	m.Set("a", "1")

	config, err := parseConfig("namespace: ''\nspace: 1\nallow_keys: [a]")
	require.NoError(t, err)
	got, err := props.Convert(m, append(config.options(), quietLogger())...)
	require.NoError(t, err)
	assert.Equal(t, "{\n \"a\": \"1\"\n}", string(got))

	config, err = parseConfig("namespace: ns")
	require.NoError(t, err)
	got, err = props.Convert(m, append(config.options(), quietLogger())...)
	require.NoError(t, err)
	assert.Equal(t, "var ns = ns || {};\nns['b'] = '2';\nns['a'] = '1';\n", string(got))
}

func TestReadConfig(t *testing.T) {
	t.Setenv(configEnv, "")

	raw, err := readConfig("testdata/json.yaml", true)
	require.NoError(t, err)
	assert.Contains(t, raw, "allow_keys")

	raw, err = readConfig("testdata/missing.yaml", false)
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = readConfig("testdata/missing.yaml", true)
	assert.Error(t, err)

	raw, err = readConfig("testdata/script.yaml", true)
	require.NoError(t, err)
	config, err := parseConfig(raw)
	require.NoError(t, err)
	require.NotNil(t, config.Namespace)
	assert.Equal(t, "app.i18n", *config.Namespace)
	assert.True(t, config.AppendExt)
	assert.Equal(t, "iso-8859-1", config.Charset)
	assert.Equal(t, "*.properties", config.Pattern)

	t.Setenv(configEnv, "namespace: fromenv")
	raw, err = readConfig("testdata/json.yaml", true)
	require.NoError(t, err)
	assert.Equal(t, "namespace: fromenv", raw)
}
