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

// Package props implements per-property derivation over the memo
// (spec.md §4: PropertyBuilder). Each registered Builder is invoked once
// per group, at group-creation time, with the node's own payload, its raw
// (pre-canonicalization) child nodes, and the already-derived properties
// of the canonical child groups — mirroring how the teacher's
// getProjectColset walks raw sql.Expression trees directly (rather than
// through memoized group properties) to recover column references.
package props

import "github.com/dolthub/optd/plan"

// SchemaProperty is the index at which cascades registers SchemaBuilder
// in every Memo's builder list. Rules that need a bound sub-tree's
// output width (e.g. JoinCommute, to shift column indices) rely on this
// convention rather than threading a property index through every rule
// constructor.
const SchemaProperty = 0

// Builder derives one property value for a group from its node kind,
// optional payload, raw children, and the corresponding child groups'
// already-derived property values (indexed the same way Builder is
// registered in the memo's builder list — property indices are positional
// and stable across a session per spec.md §6).
type Builder interface {
	// Name identifies the property for diagnostics (spec.md §4.5 dump).
	Name() string
	// Build computes this property's value for a newly created group.
	Build(kind plan.Kind, data *plan.Value, rawChildren []*plan.Node, childProps []interface{}) (interface{}, error)
}
