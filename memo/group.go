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

package memo

import (
	"fmt"

	"github.com/dolthub/optd/plan"
)

// GroupId and ExprId are opaque nonces drawn from plan's id space so that a
// Node of KindGroupPlaceholder (declared in package plan) can carry one
// without an import cycle (spec.md §3). Id 0 is reserved/invalid, mirroring
// the teacher's "group ID 0 is invalid" convention in sql/memo.Memo, which
// lets a zero-valued GroupId field mean "not yet set" without an extra bool.
type GroupId = plan.GroupId
type ExprId = plan.ExprId

// memoNode is the content-addressable key for deduplication (spec.md §3
// "Memo node"): {kind, children: canonical group ids, data}.
type memoNode struct {
	kind     plan.Kind
	children []GroupId
	data     plan.Value
	hasData  bool
}

func (n memoNode) fingerprint() string {
	s := fmt.Sprintf("%d|", n.kind)
	for _, c := range n.children {
		s += fmt.Sprintf("%d,", c)
	}
	if n.hasData {
		s += fmt.Sprintf("|%v:%v", n.data.Kind(), n.data.HashKey())
	}
	return s
}

// Winner is the lowest-cost realizable member found so far for a group, or
// a marker that the group is impossible (spec.md §3 "GroupInfo").
type Winner struct {
	Impossible bool
	ExprId     ExprId
	Cost       Cost
}

// GroupInfo is the mutable, per-group bookkeeping outside the member set:
// currently just the optional Winner (spec.md §3).
type GroupInfo struct {
	Winner *Winner
}

// group holds one equivalence class of plans (spec.md §3 "Group"):
// {members, info, properties}. Properties are frozen when the group is
// created and never recomputed, since every member of an equivalence class
// must satisfy the same logical properties by construction.
type group struct {
	id         GroupId
	members    []ExprId
	info       GroupInfo
	properties []interface{} // indexed positionally by registered PropertyBuilder
	explored   bool          // has ExploreGroupTask already run for this group
}

func (g *group) addMember(e ExprId) {
	for _, m := range g.members {
		if m == e {
			return
		}
	}
	g.members = append(g.members, e)
}
