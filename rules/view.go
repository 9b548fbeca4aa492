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

package rules

import "github.com/dolthub/optd/plan"

// View is the optimizer-facing surface a Rule's Apply sees (spec.md §4.3
// "Optimizer view for rules"). Its implementation lives in package
// cascades, which owns both the memo and the registered property
// builders; rules only depends on the interface to stay free of a
// rules -> cascades import cycle.
type View interface {
	// Property re-derives property index's value for node, which may be
	// a group placeholder (read straight from the memo) or a freshly
	// built sub-plan not yet inserted anywhere (derived on the fly by
	// re-running the property builder down through node's children).
	Property(node *plan.Node, index int) (interface{}, error)

	// Expand returns a fully concrete plan tree for node: every group
	// placeholder reachable from node is replaced by one representative
	// member of that group, recursively. Rules use this to rewrite
	// column references embedded in an otherwise-opaque bound sub-tree
	// (e.g. a join condition) when commuting or associating joins.
	Expand(node *plan.Node) (*plan.Node, error)
}
