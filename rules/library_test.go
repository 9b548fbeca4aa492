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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/optd/catalog"
	"github.com/dolthub/optd/memo"
	"github.com/dolthub/optd/plan"
	"github.com/dolthub/optd/props"
)

// testView is a minimal, test-only implementation of the View interface
// over a bare *memo.Memo, mirroring the logic package cascades' memoView
// uses in production (property derivation through placeholders, full
// expansion of bound sub-trees).
type testView struct {
	m        *memo.Memo
	builders []props.Builder
}

func (v *testView) Property(node *plan.Node, index int) (interface{}, error) {
	return v.deriveProperty(node, index)
}

func (v *testView) deriveProperty(node *plan.Node, index int) (interface{}, error) {
	if node.Kind == plan.KindGroupPlaceholder {
		vals := v.m.Properties(node.Group)
		if index >= len(vals) {
			return nil, nil
		}
		return vals[index], nil
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

func (v *testView) Expand(node *plan.Node) (*plan.Node, error) {
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
		return v.Expand(&plan.Node{Kind: en.Kind, Data: en.Data, Children: children})
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

func newTestMemoAndView() (*memo.Memo, *testView) {
	cat := catalog.NewMapCatalog().
		AddTable("t1", catalog.Schema{
			{Name: "a", Type: catalog.ColumnTypeInt},
			{Name: "b", Type: catalog.ColumnTypeInt},
		}, 10).
		AddTable("t2", catalog.Schema{
			{Name: "c", Type: catalog.ColumnTypeInt},
		}, 20)
	builders := []props.Builder{props.NewSchemaBuilder(cat)}
	m := memo.New(builders, nil)
	return m, &testView{m: m, builders: builders}
}

func TestJoinCommuteSwapsChildrenAndRemapsCondition(t *testing.T) {
	m, v := newTestMemoAndView()

	// cond references column 0 (from t1, the left side).
	cond := plan.NewColumnRef(0)
	join := plan.NewJoin(plan.NewScan("t1"), plan.NewScan("t2"), cond, plan.JoinInner)
	_, eid, err := m.Insert(join, nil)
	require.NoError(t, err)

	rule := JoinCommute{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Len(t, out, 1)

	commuted := out[0]
	require.Equal(t, plan.KindLogicalJoin, commuted.Kind)
	// left/right swapped: t2 is now the left child.
	leftGroup := commuted.Children[0]
	require.Equal(t, plan.KindGroupPlaceholder, leftGroup.Kind)

	// column 0 referred to t1 (width 2), now lives at index rightWidth(1)+0=1.
	remappedCond := commuted.Children[2]
	require.Equal(t, 1, plan.AsColumnRef(remappedCond).Index())
}

func TestJoinCommuteDeclinesNonCommutableJoinTypes(t *testing.T) {
	m, v := newTestMemoAndView()
	join := plan.NewJoin(plan.NewScan("t1"), plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinLeft)
	_, eid, err := m.Insert(join, nil)
	require.NoError(t, err)

	rule := JoinCommute{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestJoinAssocLeftReassociates(t *testing.T) {
	m, v := newTestMemoAndView()
	ab := plan.NewJoin(plan.NewScan("t1"), plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinInner)
	top := plan.NewJoin(ab, plan.NewScan("t1"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinInner)
	_, eid, err := m.Insert(top, nil)
	require.NoError(t, err)

	rule := JoinAssocLeft{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Len(t, out, 1)
	newTop := out[0]
	require.Equal(t, plan.KindLogicalJoin, newTop.Kind)
	require.Equal(t, plan.KindLogicalJoin, newTop.Children[1].Kind)
}

func TestJoinAssocLeftDeclinesNonInnerJoins(t *testing.T) {
	m, v := newTestMemoAndView()
	ab := plan.NewJoin(plan.NewScan("t1"), plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinLeft)
	top := plan.NewJoin(ab, plan.NewScan("t1"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinInner)
	_, eid, err := m.Insert(top, nil)
	require.NoError(t, err)

	rule := JoinAssocLeft{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)
	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestFilterJoinPullUp(t *testing.T) {
	m, v := newTestMemoAndView()
	filter := plan.NewFilter(plan.NewScan("t1"), plan.NewColumnRef(0))
	join := plan.NewJoin(filter, plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinInner)
	_, eid, err := m.Insert(join, nil)
	require.NoError(t, err)

	rule := FilterJoinPullUp{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, plan.KindLogicalFilter, out[0].Kind)
	require.Equal(t, plan.KindLogicalJoin, out[0].Children[0].Kind)
}

func TestFilterJoinPullUpDoesNotMatchOuterJoins(t *testing.T) {
	m, _ := newTestMemoAndView()
	filter := plan.NewFilter(plan.NewScan("t1"), plan.NewColumnRef(0))
	join := plan.NewJoin(filter, plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinLeft)
	_, eid, err := m.Insert(join, nil)
	require.NoError(t, err)

	bindings := MatchExpr(m, eid, FilterJoinPullUp{}.Matcher())
	require.Empty(t, bindings)
}

func TestProjectionPullUpJoinRewritesConditionIndices(t *testing.T) {
	m, v := newTestMemoAndView()
	// Project t1 down to just column 1 ("b"), then join against t2 on a
	// condition that references the projected output (index 0).
	proj := plan.NewProjection(plan.NewScan("t1"), plan.NewColumnRef(1))
	cond := plan.NewColumnRef(0)
	join := plan.NewJoin(proj, plan.NewScan("t2"), cond, plan.JoinInner)
	_, eid, err := m.Insert(join, nil)
	require.NoError(t, err)

	rule := ProjectionPullUpJoin{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Len(t, out, 1)

	newProj := out[0]
	require.Equal(t, plan.KindLogicalProjection, newProj.Kind)
	newJoin := newProj.Children[0]
	require.Equal(t, plan.KindLogicalJoin, newJoin.Kind)
	// index 0 mapped back through exprs[0] (ColumnRef(1)) to pre-projection index 1.
	require.Equal(t, 1, plan.AsColumnRef(newJoin.Children[2]).Index())
}

func TestProjectionPullUpJoinDeclinesNonColumnRefExprs(t *testing.T) {
	m, v := newTestMemoAndView()
	proj := plan.NewProjection(plan.NewScan("t1"), plan.NewBinOp(plan.BinOpAdd, plan.NewColumnRef(0), plan.NewLiteral(plan.IntValue(1))))
	join := plan.NewJoin(proj, plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinInner)
	_, eid, err := m.Insert(join, nil)
	require.NoError(t, err)

	rule := ProjectionPullUpJoin{}
	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(v, bindings[0])
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestLogicalToPhysicalRelabelsKindOnly(t *testing.T) {
	m, _ := newTestMemoAndView()
	scan := plan.NewScan("t1")
	_, eid, err := m.Insert(scan, nil)
	require.NoError(t, err)

	rule := Standard()[5] // scan_to_physical_scan
	require.Equal(t, "scan_to_physical_scan", rule.Name())
	require.True(t, rule.IsImplementationRule())

	bindings := MatchExpr(m, eid, rule.Matcher())
	require.Len(t, bindings, 1)

	out, err := rule.Apply(nil, bindings[0])
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, plan.KindPhysicalScan, out[0].Kind)
	require.Equal(t, "t1", out[0].Data.String())
}

func TestStandardRuleSetOrderingAndShape(t *testing.T) {
	rs := Standard()
	require.Len(t, rs, 12)
	transformCount, implCount := 0, 0
	for _, r := range rs {
		if r.IsImplementationRule() {
			implCount++
		} else {
			transformCount++
		}
	}
	require.Equal(t, 5, transformCount)
	require.Equal(t, 7, implCount)
}
