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

type mapper[I, O Element] struct {
	fn func(I) O

	Output PCol[O]
}

func (fn *mapper[I, O]) ProcessBundle(dfc *DFC[I]) error {
	return dfc.Process(func(ec ElmC, in I) error {
		out := fn.fn(in)
		fn.Output.Emit(ec, out)
		return nil
	})
}

// Map applies lambda to every element of input.
func Map[I, O Element](s *Scope, input PCol[I], lambda func(I) O, opts ...Options) PCol[O] {
	out := ParDo(s, input, &mapper[I, O]{fn: lambda}, opts...)
	return out.Output
}
