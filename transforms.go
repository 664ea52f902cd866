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

package props

import (
	"log/slog"

	"lostluck.dev/props-go/internal/propsopts"
)

// convertFn converts each file, routing failures to their own output so one
// bad file never stops its siblings.
type convertFn struct {
	opts propsopts.Struct

	Output   PCol[File]
	Failures PCol[*ConversionError]

	Converted, Failed, Skipped CounterInt64
}

func (fn *convertFn) ProcessBundle(dfc *DFC[File]) error {
	opts := fn.opts
	if opts.Logger == nil {
		opts.Logger = dfc.Logger()
	}
	return dfc.Process(func(ec ElmC, f File) error {
		if f.IsNull() {
			fn.Skipped.Inc(dfc, 1)
			fn.Output.Emit(ec, f)
			return nil
		}
		out, cerr := convertFile(f, opts)
		if cerr != nil {
			fn.Failed.Inc(dfc, 1)
			dfc.Logger().Error("conversion failed", slog.String("path", f.Path), slog.Any("error", cerr.Err))
			fn.Failures.Emit(ec, cerr)
			return nil
		}
		fn.Converted.Inc(dfc, 1)
		fn.Output.Emit(ec, out)
		return nil
	})
}

// ConvertFiles converts every file in files per opts. Converted files, and
// files without contents, are in the first output. Files that failed to
// convert are reported in the second.
//
// The transform is named "props" unless a Name option is given.
// Its counters are Converted, Failed, and Skipped.
func ConvertFiles(s *Scope, files PCol[File], opts ...Options) (PCol[File], PCol[*ConversionError]) {
	var opt propsopts.Struct
	opt.Join(append([]Options{Name(component)}, opts...)...)
	fn := ParDo(s, files, &convertFn{opts: opt}, Name(opt.Name))
	return fn.Output, fn.Failures
}
