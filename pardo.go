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
	"fmt"
	"log/slog"
	"reflect"

	"lostluck.dev/props-go/internal/propsopts"
)

// ParDo takes the users's DoFn and returns the same type for downstream pipeline construction.
//
// The returned DoFn's PCol fields can then be used as inputs into other DoFns.
// The DoFn must be passed as a pointer for its fields to be initialized.
func ParDo[E Element, DF Transform[E]](s *Scope, input PCol[E], dofn DF, opts ...Options) DF {
	if !input.valid {
		panic(fmt.Sprintf("ParDo input for %T is an uninitialized PCol", dofn))
	}
	var opt propsopts.Struct
	opt.Join(opts...)

	edgeID := s.g.curEdgeIndex()
	name := opt.Name
	if name == "" {
		name = reflect.Indirect(reflect.ValueOf(dofn)).Type().Name()
	}
	s.g.deferDoFn(dofn, edgeID, name)
	s.g.edges = append(s.g.edges, &edgeDoFn[E]{index: edgeID, name: name, dofn: dofn, input: input.n})
	return dofn
}

// deferDoFn initializes the output and counter fields of dofn.
func (g *graph) deferDoFn(dofn any, global edgeIndex, name string) {
	rv := reflect.ValueOf(dofn)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	efaceRT := reflect.TypeOf((*emitIface)(nil)).Elem()
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		fv := rv.Field(i)
		sf := rt.Field(i)
		if !fv.CanAddr() || !sf.IsExported() {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Array, reflect.Slice:
			ptrEt := reflect.PointerTo(sf.Type.Elem())
			if !ptrEt.Implements(efaceRT) {
				continue
			}
			for j := 0; j < fv.Len(); j++ {
				fv.Index(j).Addr().Interface().(emitIface).initNode(g, global)
			}
		case reflect.Struct:
			switch feature := fv.Addr().Interface().(type) {
			case emitIface:
				feature.initNode(g, global)
			case counterIface:
				feature.setName(name + "." + sf.Name)
			}
		case reflect.Chan:
			panic(fmt.Sprintf("field %v of %v is a channel", sf.Name, rt))
		default:
			// Don't do anything with pointers, or other types.
		}
	}
}

type edgeDoFn[E Element] struct {
	index edgeIndex
	name  string

	dofn  Transform[E]
	input *typedNode[E]
}

func (e *edgeDoFn[E]) edgeID() edgeIndex {
	return e.index
}

func (e *edgeDoFn[E]) start(b *bundle) error {
	dfc := &DFC[E]{
		id:     e.index,
		name:   e.name,
		dofn:   e.dofn,
		b:      b,
		logger: b.logger.With(slog.String("transform", e.name)),
	}
	if err := e.dofn.ProcessBundle(dfc); err != nil {
		return fmt.Errorf("doFn id %v %T failed to start: %w", e.index, e.dofn, err)
	}
	if dfc.perElm == nil {
		return fmt.Errorf("doFn id %v %T didn't call DFC.Process in ProcessBundle", e.index, e.dofn)
	}
	e.input.consumers = append(e.input.consumers, func(ec ElmC, elm E) error {
		if err := dfc.perElm(ec, elm); err != nil {
			return fmt.Errorf("doFn id %v %T failed: %w", e.index, e.dofn, err)
		}
		return nil
	})
	if dfc.finishBundle != nil {
		b.finishers = append(b.finishers, func() error {
			if err := dfc.finishBundle(); err != nil {
				return fmt.Errorf("doFn id %v %T failed to finish bundle: %w", e.index, e.dofn, err)
			}
			return nil
		})
	}
	return nil
}

var _ edge = (*edgeDoFn[int])(nil)
