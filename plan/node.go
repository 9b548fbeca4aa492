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

package plan

import "fmt"

// GroupId is an opaque, monotonically increasing nonce identifying a memo
// group. It is defined in this package (rather than in package memo) so
// that a Node of KindGroupPlaceholder can carry one without memo importing
// plan creating a cycle — matches spec.md §3's "Group placeholder (carrying
// a group id; used only at rule input/output boundaries)".
type GroupId uint32

// ExprId is an opaque, monotonically increasing nonce identifying a group
// expression (memo-node) within the memo.
type ExprId uint32

// Node is the uniform, dynamically-tagged plan node (spec.md §2, §9
// "Polymorphic plan nodes"): a node-kind tag, an ordered sequence of
// children, and an optional immutable scalar payload. Logical, physical,
// and scalar-expression trees are all built from this one structural
// type; typed views in views.go are thin adapters that do not own new
// storage.
//
// A Node of kind KindGroupPlaceholder carries no children; its Group
// field is the only meaningful payload. It appears only at rule
// input/output boundaries (bindings produced by the matcher, replacement
// plans returned by a rule).
type Node struct {
	Kind     Kind
	Children []*Node
	Data     *Value
	Group    GroupId // meaningful only when Kind == KindGroupPlaceholder
}

// NewNode builds a plan node with the given children and no scalar payload.
func NewNode(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewValueNode builds a plan node carrying a scalar payload.
func NewValueNode(kind Kind, data Value, children ...*Node) *Node {
	v := data
	return &Node{Kind: kind, Children: children, Data: &v}
}

// GroupPlaceholder builds a Node of the reserved KindGroupPlaceholder kind
// referencing the given group. The memo accepts such a node verbatim at
// insertion time (spec.md §4.1 step 1): its group id is taken as-is, after
// canonicalization, rather than being recursively inserted.
func GroupPlaceholder(g GroupId) *Node {
	return &Node{Kind: KindGroupPlaceholder, Group: g}
}

// List builds a Node of the reserved KindList kind, a variadic scalar
// container used e.g. to hold a Projection's output expressions or an
// Aggregate's group-by keys.
func List(items ...*Node) *Node {
	return &Node{Kind: KindList, Children: items}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind == KindGroupPlaceholder {
		return fmt.Sprintf("#%d", n.Group)
	}
	s := fmt.Sprintf("(%s", n.Kind)
	if n.Data != nil {
		s += fmt.Sprintf(" %s", n.Data.String())
	}
	for _, c := range n.Children {
		s += " " + c.String()
	}
	return s + ")"
}
