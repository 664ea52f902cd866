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
	"fmt"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v2"
	"lostluck.dev/props-go"
)

const (
	configEnv      = "PROPSGO_CONFIG"
	defaultConfig  = "propsgo.yaml"
	defaultPattern = "*.properties"
)

// Config maps the configuration in propsgo.yaml.
type Config struct {
	Source      string
	Destination string
	Pattern     string
	// Namespace is nil when unset. An empty namespace selects JSON output.
	Namespace *string
	Space     Space
	AppendExt bool     `yaml:"append_ext"`
	AllowKeys []string `yaml:"allow_keys"`
	Charset   string
	// MetricsFile, if set, receives the run counters in the Prometheus text format.
	MetricsFile string `yaml:"metrics_file"`
}

// Space is the JSON indentation, either a count of spaces or a literal string.
type Space struct {
	set bool
	n   int
	s   string
	str bool
}

// UnmarshalYAML accepts a number or a string.
func (sp *Space) UnmarshalYAML(unmarshal func(any) error) error {
	var n int
	if err := unmarshal(&n); err == nil {
		*sp = Space{set: true, n: n}
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("space must be a number or a string")
	}
	*sp = Space{set: true, s: s, str: true}
	return nil
}

// parseSpace interprets a command line value. Anything that isn't an
// integer is used as the indent string.
func parseSpace(v string) Space {
	if n, err := strconv.Atoi(v); err == nil {
		return Space{set: true, n: n}
	}
	return Space{set: true, s: v, str: true}
}

func (sp Space) option() props.Options {
	if sp.str {
		return props.IndentString(sp.s)
	}
	return props.Indent(sp.n)
}

// readConfig returns the raw configuration, preferring the environment.
// A missing file is only an error when it was explicitly requested.
func readConfig(path string, explicit bool) (string, error) {
	if ev := os.Getenv(configEnv); ev != "" {
		return ev, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return "", nil
		}
		return "", err
	}
	return string(bytes), nil
}

func parseConfig(configString string) (Config, error) {
	config := Config{}
	if err := yaml.UnmarshalStrict([]byte(configString), &config); err != nil {
		return config, fmt.Errorf("configuration parse error: %v", err)
	}
	if config.Pattern == "" {
		config.Pattern = defaultPattern
	}
	return config, nil
}

// options returns the conversion options the configuration selects.
func (c Config) options() []props.Options {
	var opts []props.Options
	if c.Namespace != nil {
		opts = append(opts, props.Namespace(*c.Namespace))
	}
	if c.Space.set {
		opts = append(opts, c.Space.option())
	}
	if c.AppendExt {
		opts = append(opts, props.AppendExt(true))
	}
	if c.AllowKeys != nil {
		opts = append(opts, props.AllowKeys(c.AllowKeys...))
	}
	if c.Charset != "" {
		opts = append(opts, props.Charset(c.Charset))
	}
	return opts
}
