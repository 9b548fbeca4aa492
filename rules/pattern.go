// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rules implements the declarative pattern matcher, binding
// enumeration, and the transformation/implementation rule library
// (spec.md §4.3 "Rule Engine"). It is grounded on the teacher's xform
// package philosophy of pattern-driven plan rewriting, generalized from
// the teacher's single fixed join-reorder pass into a registrable rule
// set the scheduler (package cascades) drives.
package rules

import "github.com/dolthub/optd/plan"

// PatternKind is the closed variant set spec.md §9 calls for: "a
// general-purpose pattern language" is deliberately avoided in favor of
// four shapes.
type PatternKind int

const (
	// PatMatch recurses into a specific node kind (and, optionally, an
	// exact payload match for enum discriminants like join type),
	// matching each child against its own sub-pattern.
	PatMatch PatternKind = iota
	// PatPickOne binds the child group verbatim as a group placeholder,
	// without recursing into it.
	PatPickOne
	// PatPickMany binds a List-kind child group as a list-node of group
	// placeholders, one per item, without recursing into the items.
	PatPickMany
	// PatIgnore matches any child group without producing a binding.
	PatIgnore
)

// Pattern is a tree of matcher variants, optionally annotating sub-trees
// the rewriter consumes (spec.md §9 "Pattern"). A PatMatch pattern may
// itself carry a Bind name, in which case the matched (and recursively
// rewritten) sub-tree is bound in addition to being matched structurally
// -- this is MatchAndPickNode; a bare Bind-less PatMatch is MatchNode.
type Pattern struct {
	PKind    PatternKind
	Kind     plan.Kind
	Data     *plan.Value
	Bind     string
	Children []*Pattern
}

// MatchNode matches kind structurally, recursing into children, without
// binding the matched sub-tree itself.
func MatchNode(kind plan.Kind, children ...*Pattern) *Pattern {
	return &Pattern{PKind: PatMatch, Kind: kind, Children: children}
}

// MatchNodeData is MatchNode plus an exact payload equality requirement,
// used to pin an enum discriminant such as join type.
func MatchNodeData(kind plan.Kind, data plan.Value, children ...*Pattern) *Pattern {
	return &Pattern{PKind: PatMatch, Kind: kind, Data: &data, Children: children}
}

// MatchAndPickNode is MatchNode plus binding the matched (rewritten)
// sub-tree under name.
func MatchAndPickNode(name string, kind plan.Kind, children ...*Pattern) *Pattern {
	return &Pattern{PKind: PatMatch, Kind: kind, Bind: name, Children: children}
}

// PickOne binds the child group as an opaque group placeholder.
func PickOne(name string) *Pattern {
	return &Pattern{PKind: PatPickOne, Bind: name}
}

// PickMany binds a List-kind child group as a list of group placeholders.
func PickMany(name string) *Pattern {
	return &Pattern{PKind: PatPickMany, Bind: name}
}

// Ignore matches any child group, producing no binding.
func Ignore() *Pattern {
	return &Pattern{PKind: PatIgnore}
}

// Binding is a concrete extraction of picked sub-trees from the memo
// satisfying a pattern (spec.md §9 "Binding"): pick name -> sub-tree,
// where a sub-tree's own children may be group placeholders.
type Binding map[string]*plan.Node

func mergeBinding(a, b Binding) Binding {
	out := make(Binding, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
