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

	"github.com/google/uuid"
	"lostluck.dev/props-go/internal/propsopts"
)

type nodeIndex int

func (i nodeIndex) String() string {
	return fmt.Sprintf("n%d", int(i))
}

type edgeIndex int

func (i edgeIndex) String() string {
	return fmt.Sprintf("e%d", int(i))
}

type node interface {
	nodeID() nodeIndex
}

// typedNode is a PCollection in the graph. Consumers are the per element
// functions of the DoFns reading it, in the order they were added.
type typedNode[E Element] struct {
	index      nodeIndex
	parentEdge edgeIndex
	consumers  []func(ElmC, E) error
}

func (n *typedNode[E]) nodeID() nodeIndex {
	return n.index
}

type edge interface {
	edgeID() edgeIndex
	// start prepares the edge for the bundle, connecting it to its input.
	start(b *bundle) error
}

// sourceEdge is an edge without inputs, that produces the elements of the bundle.
type sourceEdge interface {
	edge
	produce(b *bundle)
}

type graph struct {
	nodes []node
	edges []edge
}

func (g *graph) curNodeIndex() nodeIndex {
	return nodeIndex(len(g.nodes))
}

func (g *graph) curEdgeIndex() edgeIndex {
	return edgeIndex(len(g.edges))
}

// Scope is used to construct a pipeline.
type Scope struct {
	g *graph
}

// bundle holds the state of a single execution of the graph.
type bundle struct {
	ctx       context.Context
	logger    *slog.Logger
	counters  map[string]int64
	finishers []func() error
}

// PipelineResult holds the outcome of a pipeline run.
type PipelineResult struct {
	Counters map[string]int64
}

// Run constructs the pipeline with expand, and executes it.
//
// Execution is single threaded. Every source element is pushed through
// all its downstream DoFns before the next one is produced. A DoFn that
// returns an error fails the whole run, so DoFns that can fail per element
// should emit their failures instead.
func Run(ctx context.Context, expand func(*Scope) error, opts ...Options) (PipelineResult, error) {
	var opt propsopts.Struct
	opt.Join(opts...)

	s := &Scope{g: &graph{}}
	if err := expand(s); err != nil {
		return PipelineResult{}, fmt.Errorf("pipeline construction failed: %w", err)
	}

	name := opt.Name
	if name == "" {
		name = "pipeline"
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &bundle{
		ctx:      ctx,
		logger:   logger.With(slog.String("pipeline", name), slog.String("run", uuid.NewString())),
		counters: map[string]int64{},
	}
	err := s.g.execute(b)
	return PipelineResult{Counters: b.counters}, err
}

func (g *graph) execute(b *bundle) (err error) {
	defer func() {
		if e := recover(); e != nil {
			f, ok := e.(transformFailure)
			if !ok {
				panic(e)
			}
			err = f.err
		}
	}()
	for _, e := range g.edges {
		if err := e.start(b); err != nil {
			return err
		}
	}
	b.logger.Debug("bundle started", slog.Int("transforms", len(g.edges)), slog.Int("pcollections", len(g.nodes)))
	for _, e := range g.edges {
		if src, ok := e.(sourceEdge); ok {
			src.produce(b)
		}
	}
	for _, finish := range b.finishers {
		if err := finish(); err != nil {
			return err
		}
	}
	b.logger.Debug("bundle finished")
	return nil
}
