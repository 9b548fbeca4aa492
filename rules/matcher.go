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
	"github.com/dolthub/optd/memo"
	"github.com/dolthub/optd/plan"
)

// matchResult pairs a concrete (or placeholder-bearing) sub-tree built
// for one matcher position with the bindings accumulated along the way.
type matchResult struct {
	node *plan.Node
	b    Binding
}

// matchAtGroup matches pat against every member of the canonical group
// gid, expanding recursively (spec.md §4.3 "Binding set": "the bindings
// of a group is the union over each member expression's bindings").
func matchAtGroup(mem *memo.Memo, gid memo.GroupId, pat *Pattern) []matchResult {
	switch pat.PKind {
	case PatPickOne:
		ph := plan.GroupPlaceholder(gid)
		return []matchResult{{node: ph, b: Binding{pat.Bind: ph}}}

	case PatIgnore:
		return []matchResult{{node: plan.GroupPlaceholder(gid), b: Binding{}}}

	case PatPickMany:
		var out []matchResult
		for _, e := range mem.Members(gid) {
			en := mem.ExprNodeOf(e)
			if en.Kind != plan.KindList {
				continue
			}
			items := make([]*plan.Node, len(en.Children))
			for i, cg := range en.Children {
				items[i] = plan.GroupPlaceholder(cg)
			}
			list := plan.List(items...)
			out = append(out, matchResult{node: list, b: Binding{pat.Bind: list}})
		}
		return out

	case PatMatch:
		var out []matchResult
		for _, e := range mem.Members(gid) {
			out = append(out, matchExpr(mem, e, pat)...)
		}
		return out

	default:
		return nil
	}
}

// matchExpr matches pat against one already-known expression, recursing
// into its children's groups (spec.md §4.3 "the bindings of an
// expression are the Cartesian product of its children's bindings
// filtered by the child sub-patterns").
func matchExpr(mem *memo.Memo, e memo.ExprId, pat *Pattern) []matchResult {
	if pat.PKind != PatMatch {
		panic("matchExpr: top-level pattern must be PatMatch")
	}
	en := mem.ExprNodeOf(e)
	if en.Kind != pat.Kind {
		return nil
	}
	if pat.Data != nil {
		if en.Data == nil || !en.Data.Equal(*pat.Data) {
			return nil
		}
	}
	if len(pat.Children) != len(en.Children) {
		return nil
	}

	childOptions := make([][]matchResult, len(pat.Children))
	for i, cp := range pat.Children {
		opts := matchAtGroup(mem, en.Children[i], cp)
		if len(opts) == 0 {
			return nil
		}
		childOptions[i] = opts
	}

	var data *plan.Value
	if en.Data != nil {
		v := *en.Data
		data = &v
	}

	var out []matchResult
	for _, combo := range cartesianMatch(childOptions) {
		node := &plan.Node{Kind: en.Kind, Data: data, Children: combo.children}
		b := combo.b
		if pat.Bind != "" {
			b = mergeBinding(b, Binding{pat.Bind: node})
		}
		out = append(out, matchResult{node: node, b: b})
	}
	return out
}

type childCombo struct {
	children []*plan.Node
	b        Binding
}

func cartesianMatch(options [][]matchResult) []childCombo {
	result := []childCombo{{b: Binding{}}}
	for _, opts := range options {
		var next []childCombo
		for _, prefix := range result {
			for _, o := range opts {
				children := append(append([]*plan.Node(nil), prefix.children...), o.node)
				next = append(next, childCombo{children: children, b: mergeBinding(prefix.b, o.b)})
			}
		}
		result = next
	}
	return result
}

// MatchExpr matches pat against one specific, already-known expression
// without expanding over its own group's members -- ApplyRuleTask already
// knows which expression it is applying the rule to; only the pattern's
// child positions expand over their groups' members (spec.md §4.2
// "ApplyRuleTask").
func MatchExpr(mem *memo.Memo, e memo.ExprId, pat *Pattern) []Binding {
	results := matchExpr(mem, e, pat)
	out := make([]Binding, len(results))
	for i, r := range results {
		out[i] = r.b
	}
	return out
}
