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

// Package props converts Java style .properties files into JSON documents or
// namespaced JavaScript, for use in build pipelines.
//
// A single file is converted with [ConvertFile]. Parsed properties can be
// serialized directly with [Convert]. Batches of files move through a small
// single threaded pipeline built from DoFns:
//
//	pr, err := props.Run(ctx, func(s *props.Scope) error {
//		files := props.Create(s, inputs...)
//		out, failed := props.ConvertFiles(s, files, props.Namespace("i18n"))
//		results = props.Collect(s, out)
//		failures = props.Collect(s, failed)
//		return nil
//	})
//
// Things to know.
// - A namespace of "" selects JSON output, any other namespace selects a
// script assigning each property onto that namespace object.
// - Options are never mutated by a conversion. Each file derives its own
// sanitized namespace.
// - A failing file is reported on its own and never stops its siblings.
package props
