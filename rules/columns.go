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

import (
	"github.com/dolthub/optd/catalog"
	"github.com/dolthub/optd/plan"
)

// remapColumnRefs rewrites every ColumnRef leaf reachable from node by
// applying fn to its index, rebuilding every ancestor along the way.
// node must already be fully expanded (no group placeholders); see
// View.Expand.
func remapColumnRefs(node *plan.Node, fn func(int) int) *plan.Node {
	if node == nil {
		return nil
	}
	if node.Kind == plan.KindColumnRef {
		return plan.NewColumnRef(fn(plan.AsColumnRef(node).Index()))
	}
	if len(node.Children) == 0 {
		return node
	}
	children := make([]*plan.Node, len(node.Children))
	for i, c := range node.Children {
		children[i] = remapColumnRefs(c, fn)
	}
	var data *plan.Value
	if node.Data != nil {
		v := *node.Data
		data = &v
	}
	return &plan.Node{Kind: node.Kind, Data: data, Children: children}
}

// schemaWidth extracts a column count from a property value produced by
// props.SchemaBuilder, defaulting to 0 for anything else (e.g. a
// property not yet populated for a scalar-expression group).
func schemaWidth(prop interface{}) int {
	s, ok := prop.(catalog.Schema)
	if !ok {
		return 0
	}
	return len(s)
}
