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
	"context"
	"fmt"
	"log/slog"
)

// dofns.go is about the types DoFns are built from, and the mix-ins that can be added.

// Element is any value that can flow through a pipeline.
type Element any

// Transform is the interface DoFns implement. ProcessBundle is called once
// when the pipeline starts, and must register the per element function
// with [DFC.Process].
type Transform[E Element] interface {
	ProcessBundle(dfc *DFC[E]) error
}

// ElmC is the per element context, passed along to downstream DoFns when
// elements are emitted.
type ElmC struct {
	ctx context.Context
}

// Context returns the context the pipeline is running under.
func (ec ElmC) Context() context.Context {
	return ec.ctx
}

// PCol or PCollection represents a logical collection of elements produced,
// or consumed by a DoFn.
//
// Used as an Exported value field of a DoFn struct, they represent the outputs
// from the DoFn. After the DoFn is added to the graph with ParDo, the DoFn's
// PCol fields are initialized and can be passed around by value, to further
// build the pipeline graph.
type PCol[E Element] struct {
	valid bool
	n     *typedNode[E]
}

type emitIface interface {
	initNode(g *graph, parent edgeIndex)
}

var _ emitIface = (*PCol[any])(nil)

func (emt *PCol[E]) initNode(g *graph, parent edgeIndex) {
	n := &typedNode[E]{index: g.curNodeIndex(), parentEdge: parent}
	g.nodes = append(g.nodes, n)
	emt.valid = true
	emt.n = n
}

// Emit the element within the current element's context.
//
// Downstream DoFns process the element before Emit returns.
func (emt *PCol[E]) Emit(ec ElmC, elm E) {
	if !emt.valid {
		panic(fmt.Sprintf("Emit called on an uninitialized PCol[%T], was the DoFn added with ParDo?", elm))
	}
	for _, consume := range emt.n.consumers {
		if err := consume(ec, elm); err != nil {
			panic(transformFailure{err})
		}
	}
}

// transformFailure carries a DoFn error up through the Emit calls that led to it.
type transformFailure struct {
	err error
}

// DFC or DoFnContext, is the per bundle context for a DoFn.
type DFC[E Element] struct {
	id   edgeIndex
	name string
	dofn any

	b      *bundle
	logger *slog.Logger

	perElm       func(ElmC, E) error
	finishBundle func() error
}

// Process registers the function called for every element of the bundle.
func (c *DFC[E]) Process(perElm func(ElmC, E) error) error {
	c.perElm = perElm
	return nil
}

// Name returns the name of the transform.
func (c *DFC[E]) Name() string {
	return c.name
}

// Logger returns a logger attributed to this transform.
func (c *DFC[E]) Logger() *slog.Logger {
	return c.logger
}

// ToElmC returns an element context, for emitting outside of the per
// element function, such as when finishing a bundle.
func (c *DFC[E]) ToElmC() ElmC {
	return ElmC{ctx: c.b.ctx}
}

func (c *DFC[E]) regBundleFinisher(finishBundle func() error) {
	c.finishBundle = finishBundle
}

func (c *DFC[E]) counters() map[string]int64 {
	return c.b.counters
}

// OnBundleFinish allows a DoFn to register a function that runs just before
// a bundle finishes. Elements may be emitted downstream, if an ElmC is retrieved
// from the DFC.
type OnBundleFinish struct{}

type bundleFinisher interface {
	regBundleFinisher(finishBundle func() error)
}

// Do registers a callback to execute after all bundle elements have been processed.
//
// Only a single callback may be registered, and it will be the last one passed to Do.
func (*OnBundleFinish) Do(dfc bundleFinisher, finishBundle func() error) {
	dfc.regBundleFinisher(finishBundle)
}

// CounterInt64 is a named counter, reported in the [PipelineResult].
// Used as an Exported field of a DoFn, it's named after the transform and
// the field, such as "props.Converted".
type CounterInt64 struct {
	name string
}

type counterIface interface {
	setName(name string)
}

type metricSource interface {
	counters() map[string]int64
}

func (c *CounterInt64) setName(name string) {
	c.name = name
}

// Inc adds diff to the counter.
func (c *CounterInt64) Inc(dfc metricSource, diff int64) {
	if c.name == "" {
		panic("CounterInt64 used in a DoFn that wasn't added with ParDo")
	}
	dfc.counters()[c.name] += diff
}
