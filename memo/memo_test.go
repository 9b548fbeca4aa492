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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/optd/catalog"
	"github.com/dolthub/optd/plan"
	"github.com/dolthub/optd/props"
)

func newTestMemo() *Memo {
	cat := catalog.NewMapCatalog().
		AddTable("t1", catalog.Schema{{Name: "a", Type: catalog.ColumnTypeInt}}, 10).
		AddTable("t2", catalog.Schema{{Name: "b", Type: catalog.ColumnTypeInt}}, 20)
	return New([]props.Builder{props.NewSchemaBuilder(cat)}, nil)
}

func TestInsertDedupsIdenticalTrees(t *testing.T) {
	m := newTestMemo()
	g1, e1, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	g2, e2, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	require.Equal(t, g1, g2)
	require.Equal(t, e1, e2)
}

func TestInsertDistinguishesDifferentPayloads(t *testing.T) {
	m := newTestMemo()
	g1, _, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	g2, _, err := m.Insert(plan.NewScan("t2"), nil)
	require.NoError(t, err)
	require.NotEqual(t, g1, g2)
}

func TestInsertRecursesIntoChildrenAndDedups(t *testing.T) {
	m := newTestMemo()
	scanGid, _, err := m.Insert(plan.NewScan("t2"), nil)
	require.NoError(t, err)

	join := plan.NewJoin(plan.NewScan("t1"), plan.NewScan("t2"), plan.NewLiteral(plan.BoolValue(true)), plan.JoinInner)
	joinGid, joinEid, err := m.Insert(join, nil)
	require.NoError(t, err)

	en := m.ExprNodeOf(joinEid)
	require.Equal(t, plan.KindLogicalJoin, en.Kind)
	require.Equal(t, scanGid, en.Children[1])
	require.NotEqual(t, joinGid, scanGid)
}

func TestInsertWithIntoMergesGroups(t *testing.T) {
	m := newTestMemo()
	g1, _, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	g2, _, err := m.Insert(plan.NewScan("t2"), nil)
	require.NoError(t, err)

	merged, _, err := m.Insert(plan.NewScan("t2"), &g1)
	require.NoError(t, err)

	require.Equal(t, m.Canonical(g1), merged)
	require.Equal(t, m.Canonical(g1), m.Canonical(g2))
}

func TestMembersAggregatesAcrossMergedGroups(t *testing.T) {
	m := newTestMemo()
	g1, e1, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	g2, e2, err := m.Insert(plan.NewScan("t2"), nil)
	require.NoError(t, err)

	_, _, err = m.Insert(plan.NewScan("t2"), &g1)
	require.NoError(t, err)

	members := m.Members(g1)
	require.ElementsMatch(t, []ExprId{e1, e2}, members)
	require.ElementsMatch(t, m.Members(g2), members)
	_ = g2
}

func TestAllGroupsDedupesCanonicalIds(t *testing.T) {
	m := newTestMemo()
	g1, _, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	g2, _, err := m.Insert(plan.NewScan("t2"), nil)
	require.NoError(t, err)
	_, _, err = m.Insert(plan.NewScan("t2"), &g1)
	require.NoError(t, err)

	groups := m.AllGroups()
	seen := map[GroupId]bool{}
	for _, g := range groups {
		require.False(t, seen[g], "duplicate canonical group %d", g)
		seen[g] = true
	}
	require.Contains(t, groups, m.Canonical(g1))
	require.NotContains(t, groups, g1)
}

func TestWinnerAndSetWinner(t *testing.T) {
	m := newTestMemo()
	g, e, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)

	require.Nil(t, m.Winner(g))
	m.SetWinner(g, Winner{ExprId: e, Cost: Cost{Weighted: 10}})
	w := m.Winner(g)
	require.NotNil(t, w)
	require.Equal(t, e, w.ExprId)
	require.Equal(t, 10.0, w.Cost.Weighted)
}

func TestClearWinnersResetsEveryGroup(t *testing.T) {
	m := newTestMemo()
	g, e, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	m.SetWinner(g, Winner{ExprId: e, Cost: Cost{Weighted: 10}})
	m.ClearWinners()
	require.Nil(t, m.Winner(g))
}

func TestMergeCarriesOverTheBetterWinner(t *testing.T) {
	m := newTestMemo()
	gA, eA, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	gB, eB, err := m.Insert(plan.NewPhysicalScan("t2"), nil)
	require.NoError(t, err)

	m.SetWinner(gA, Winner{ExprId: eA, Cost: Cost{Weighted: 5}})
	m.SetWinner(gB, Winner{ExprId: eB, Cost: Cost{Weighted: 50}})

	merged := m.merge(gA, gB)
	require.Equal(t, gB, merged)
	w := m.Winner(gB)
	require.Equal(t, eA, w.ExprId)
	require.Equal(t, 5.0, w.Cost.Weighted)
}

func TestBestReconstructsPhysicalTreeFollowingWinners(t *testing.T) {
	m := newTestMemo()
	scan1, _, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	scan2, _, err := m.Insert(plan.NewPhysicalScan("t2"), nil)
	require.NoError(t, err)
	cond, _, err := m.Insert(plan.NewLiteral(plan.BoolValue(true)), nil)
	require.NoError(t, err)

	join := plan.NewPhysicalHashJoin(plan.GroupPlaceholder(scan1), plan.GroupPlaceholder(scan2), plan.GroupPlaceholder(cond), plan.JoinInner)
	joinGid, joinEid, err := m.Insert(join, nil)
	require.NoError(t, err)

	_, scan1Eid, _ := m.Insert(plan.NewPhysicalScan("t1"), nil)
	_, scan2Eid, _ := m.Insert(plan.NewPhysicalScan("t2"), nil)
	_, condEid, _ := m.Insert(plan.NewLiteral(plan.BoolValue(true)), nil)

	m.SetWinner(scan1, Winner{ExprId: scan1Eid, Cost: Cost{Weighted: 1}})
	m.SetWinner(scan2, Winner{ExprId: scan2Eid, Cost: Cost{Weighted: 1}})
	m.SetWinner(cond, Winner{ExprId: condEid, Cost: Cost{Weighted: 1}})
	m.SetWinner(joinGid, Winner{ExprId: joinEid, Cost: Cost{Weighted: 3}})

	best, err := m.Best(joinGid, nil)
	require.NoError(t, err)
	require.Equal(t, plan.KindPhysicalHashJoin, best.Kind)
	require.Equal(t, plan.KindPhysicalScan, best.Children[0].Kind)
	require.Equal(t, "t1", plan.AsPhysicalScan(best.Children[0]).Table())
	require.Equal(t, "t2", plan.AsPhysicalScan(best.Children[1]).Table())
}

func TestBestFailsWithoutAWinner(t *testing.T) {
	m := newTestMemo()
	g, _, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	_, err = m.Best(g, nil)
	require.True(t, ErrNoWinner.Is(err))
}

func TestBestFailsWhenWinnerIsImpossible(t *testing.T) {
	m := newTestMemo()
	g, _, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	m.SetWinner(g, Winner{Impossible: true})
	_, err = m.Best(g, nil)
	require.True(t, ErrNoWinner.Is(err))
}

func TestBestAppliesOnProduceToEveryNode(t *testing.T) {
	m := newTestMemo()
	g, e, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	m.SetWinner(g, Winner{ExprId: e, Cost: Cost{Weighted: 1}})

	var seen []GroupId
	best, err := m.Best(g, func(n *plan.Node, gid GroupId) *plan.Node {
		seen = append(seen, gid)
		return n
	})
	require.NoError(t, err)
	require.NotNil(t, best)
	require.Equal(t, []GroupId{g}, seen)
}

func TestBindingsRespectsLevelAndPhysicalOnly(t *testing.T) {
	m := newTestMemo()
	scan1, _, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	_, _, err = m.Insert(plan.NewPhysicalScan("t1"), &scan1)
	require.NoError(t, err)

	all := m.Bindings(scan1, false, true, 1)
	require.Len(t, all, 2)

	physicalOnly := m.Bindings(scan1, true, true, 1)
	require.Len(t, physicalOnly, 1)
	require.Equal(t, plan.KindPhysicalScan, physicalOnly[0].Kind)

	atZeroLevel := m.Bindings(scan1, false, false, 0)
	require.Len(t, atZeroLevel, 1)
	require.Equal(t, plan.KindGroupPlaceholder, atZeroLevel[0].Kind)
}

func TestExploredFlag(t *testing.T) {
	m := newTestMemo()
	g, _, err := m.Insert(plan.NewScan("t1"), nil)
	require.NoError(t, err)
	require.False(t, m.Explored(g))
	m.SetExplored(g)
	require.True(t, m.Explored(g))
}

func TestCanonicalResolvesThroughMergeChain(t *testing.T) {
	m := newTestMemo()
	gA, _, err := m.Insert(plan.NewPhysicalScan("t1"), nil)
	require.NoError(t, err)
	gB, _, err := m.Insert(plan.NewPhysicalScan("t2"), nil)
	require.NoError(t, err)
	gC, _, err := m.Insert(plan.NewPhysicalScan("unknown"), nil)
	require.NoError(t, err)

	m.merge(gA, gB)
	m.merge(gB, gC)

	require.Equal(t, gC, m.Canonical(gA))
	require.Equal(t, gC, m.Canonical(gB))
}

func TestInsertRootSetsRoot(t *testing.T) {
	m := newTestMemo()
	gid, err := m.InsertRoot(plan.NewScan("t1"))
	require.NoError(t, err)
	require.Equal(t, gid, m.Root())
}
