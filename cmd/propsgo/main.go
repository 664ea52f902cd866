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

// propsgo converts .properties files into JSON documents or namespaced
// JavaScript scripts.
//
// Files are read from and written to blob storage buckets, addressed by URL:
//
//	propsgo convert --src file:///srv/i18n --dst file:///srv/www/i18n -n messages
//
// Settings may also come from a YAML file (propsgo.yaml, or the --config flag)
// or inline from the PROPSGO_CONFIG environment variable. Flags take precedence.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jba/slog/handlers/loghandler"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootFlags are shared by all sub-commands.
type rootFlags struct {
	config  string
	verbose bool
}

func (f *rootFlags) load(cmd *cobra.Command) (Config, error) {
	raw, err := readConfig(f.config, cmd.Flags().Changed("config"))
	if err != nil {
		return Config{}, err
	}
	return parseConfig(raw)
}

func (f *rootFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(loghandler.New(w, &slog.HandlerOptions{Level: level}))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "propsgo",
		Short:         "Convert .properties files to JSON or JavaScript",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", defaultConfig, "config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newConvertCmd(&flags), &cobra.Command{
		Use:   "version",
		Short: "Print the propsgo version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propsgo %s\n", version)
		},
	})
	return root
}
