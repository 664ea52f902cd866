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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"lostluck.dev/props-go"
	"lostluck.dev/props-go/transforms/io/blobio"
)

func newConvertCmd(root *rootFlags) *cobra.Command {
	var (
		cfg       Config
		namespace string
		asJSON    bool
		space     string
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the matching files in a bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := root.load(cmd)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("src") {
				base.Source = cfg.Source
			}
			if fs.Changed("dst") {
				base.Destination = cfg.Destination
			}
			if fs.Changed("pattern") {
				base.Pattern = cfg.Pattern
			}
			if fs.Changed("namespace") {
				base.Namespace = &namespace
			}
			if asJSON {
				empty := ""
				base.Namespace = &empty
			}
			if fs.Changed("space") {
				base.Space = parseSpace(space)
			}
			if fs.Changed("append-ext") {
				base.AppendExt = cfg.AppendExt
			}
			if fs.Changed("allow-key") {
				base.AllowKeys = cfg.AllowKeys
			}
			if fs.Changed("charset") {
				base.Charset = cfg.Charset
			}
			if fs.Changed("metrics-file") {
				base.MetricsFile = cfg.MetricsFile
			}
			return convert(cmd.Context(), base, root.logger(cmd.ErrOrStderr()))
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&cfg.Source, "src", "", "URL of the bucket to read from")
	fs.StringVar(&cfg.Destination, "dst", "", "URL of the bucket to write to (default is the source)")
	fs.StringVar(&cfg.Pattern, "pattern", defaultPattern, "pattern matching the base names of files to convert")
	fs.StringVarP(&namespace, "namespace", "n", props.DefaultNamespace, "namespace of the generated script")
	fs.BoolVar(&asJSON, "json", false, "write JSON instead of a script")
	fs.StringVarP(&space, "space", "s", "", "JSON indentation, a number of spaces or a string")
	fs.BoolVar(&cfg.AppendExt, "append-ext", false, "append the new extension instead of replacing the old one")
	fs.StringArrayVar(&cfg.AllowKeys, "allow-key", nil, "only output this key, may be repeated")
	fs.StringVar(&cfg.Charset, "charset", "", "character set of the source files (default utf-8)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "write run counters to this file in the Prometheus text format")
	cmd.MarkFlagsMutuallyExclusive("namespace", "json")
	return cmd
}

// convert runs the conversion described by cfg. It fails if any file
// couldn't be converted.
func convert(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if cfg.Source == "" {
		return fmt.Errorf("no source bucket: set --src or source in the config")
	}
	if cfg.Destination == "" {
		cfg.Destination = cfg.Source
	}
	opts := cfg.options()
	if err := props.CheckOptions(opts...); err != nil {
		return err
	}
	src, err := blobio.OpenBucket(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := blobio.OpenBucket(ctx, cfg.Destination)
	if err != nil {
		return err
	}
	defer dst.Close()

	keys, err := blobio.List(ctx, src, cfg.Pattern)
	if err != nil {
		return err
	}
	logger.Debug("listed source files", "source", cfg.Source, "pattern", cfg.Pattern, "count", len(keys))

	pr, err := props.Run(ctx, func(s *props.Scope) error {
		files, _ := blobio.Read(s, src, props.Create(s, keys...))
		converted, _ := props.ConvertFiles(s, files, opts...)
		blobio.Write(s, dst, converted)
		return nil
	}, props.Name("propsgo"), props.Logger(logger))
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile, pr.Counters, time.Now()); err != nil {
			return err
		}
	}

	failed := pr.Counters["read.Failed"] + pr.Counters["props.Failed"] + pr.Counters["write.Failed"]
	logger.Info("conversion finished",
		"written", pr.Counters["write.Written"],
		"skipped", pr.Counters["props.Skipped"],
		"failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", failed, len(keys))
	}
	return nil
}
