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

// Create adds a source to the graph, which emits the given elements in
// order to downstream transforms, allowing processing to begin.
func Create[E Element](s *Scope, elms ...E) PCol[E] {
	edgeID := s.g.curEdgeIndex()
	var out PCol[E]
	out.initNode(s.g, edgeID)
	s.g.edges = append(s.g.edges, &edgeCreate[E]{index: edgeID, elms: elms, output: out})
	return out
}

// edgeCreate represents a Create transform.
type edgeCreate[E Element] struct {
	index  edgeIndex
	elms   []E
	output PCol[E]
}

func (e *edgeCreate[E]) edgeID() edgeIndex {
	return e.index
}

// start is a no-op, sources have no inputs.
func (e *edgeCreate[E]) start(*bundle) error {
	return nil
}

func (e *edgeCreate[E]) produce(b *bundle) {
	ec := ElmC{ctx: b.ctx}
	for _, elm := range e.elms {
		e.output.Emit(ec, elm)
	}
}

var _ sourceEdge = (*edgeCreate[int])(nil)

// Collector holds the elements of a PCol once the pipeline has run.
type Collector[E Element] struct {
	elms []E
}

// Elements returns the collected elements in the order they arrived.
func (c *Collector[E]) Elements() []E {
	return c.elms
}

type collectFn[E Element] struct {
	c *Collector[E]

	Collected CounterInt64
}

func (fn *collectFn[E]) ProcessBundle(dfc *DFC[E]) error {
	return dfc.Process(func(_ ElmC, elm E) error {
		fn.c.elms = append(fn.c.elms, elm)
		fn.Collected.Inc(dfc, 1)
		return nil
	})
}

// Collect gathers the elements of input, to be read after Run returns.
func Collect[E Element](s *Scope, input PCol[E], opts ...Options) *Collector[E] {
	c := &Collector[E]{}
	ParDo(s, input, &collectFn[E]{c: c}, append([]Options{Name("collect")}, opts...)...)
	return c
}
