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

package cascades

import (
	"fmt"

	"github.com/dolthub/optd/memo"
	"github.com/dolthub/optd/plan"
	"github.com/dolthub/optd/props"
	"github.com/dolthub/optd/rules"
)

// memoView implements rules.View on top of one Optimizer's memo and
// registered property builders (spec.md §4.3 "Optimizer view for
// rules"). It lives in this package, rather than package rules, because
// it needs both the memo and the builder list cascades already owns.
type memoView struct {
	m        *memo.Memo
	builders []props.Builder
}

func (v *memoView) Property(node *plan.Node, index int) (interface{}, error) {
	if index < 0 || index >= len(v.builders) {
		return nil, fmt.Errorf("property index %d out of range", index)
	}
	return v.deriveProperty(node, index)
}

func (v *memoView) deriveProperty(node *plan.Node, index int) (interface{}, error) {
	if node.Kind == plan.KindGroupPlaceholder {
		propVals := v.m.Properties(node.Group)
		if index >= len(propVals) {
			return nil, nil
		}
		return propVals[index], nil
	}
	childProps := make([]interface{}, len(node.Children))
	for i, c := range node.Children {
		p, err := v.deriveProperty(c, index)
		if err != nil {
			return nil, err
		}
		childProps[i] = p
	}
	return v.builders[index].Build(node.Kind, node.Data, node.Children, childProps)
}

// Expand replaces every group placeholder reachable from node with one
// representative member of that group, recursively, so a rule can
// rewrite column references buried inside an otherwise-opaque bound
// sub-tree (spec.md §4.3). Scalar-expression groups are expected to hold
// exactly one member in this reference implementation, so picking the
// first member is not a heuristic choice here, just a deterministic one.
func (v *memoView) Expand(node *plan.Node) (*plan.Node, error) {
	if node.Kind == plan.KindGroupPlaceholder {
		members := v.m.Members(node.Group)
		if len(members) == 0 {
			return nil, fmt.Errorf("expand: group %d has no members", node.Group)
		}
		en := v.m.ExprNodeOf(members[0])
		children := make([]*plan.Node, len(en.Children))
		for i, cg := range en.Children {
			children[i] = plan.GroupPlaceholder(cg)
		}
		expanded, err := v.Expand(&plan.Node{Kind: en.Kind, Data: en.Data, Children: children})
		if err != nil {
			return nil, err
		}
		return expanded, nil
	}
	if len(node.Children) == 0 {
		return node, nil
	}
	children := make([]*plan.Node, len(node.Children))
	for i, c := range node.Children {
		ec, err := v.Expand(c)
		if err != nil {
			return nil, err
		}
		children[i] = ec
	}
	var data *plan.Value
	if node.Data != nil {
		d := *node.Data
		data = &d
	}
	return &plan.Node{Kind: node.Kind, Data: data, Children: children}, nil
}

var _ rules.View = (*memoView)(nil)
