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

// Package memo implements the Cascades memo: content-addressed storage of
// group expressions, group formation and merging, property derivation,
// binding enumeration, and best-plan extraction (spec.md §4.1). It is
// grounded on the teacher's sql/memo.Memo (exprMap fingerprint -> group,
// groups []memoGroup, ExprGroup linked list of RelExpr), generalized from
// the teacher's single-normalized-expression-per-group model to full
// group merging with union-find-style canonicalization, which the
// teacher's package does not need because its factory normalizes before
// insertion.
package memo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/optd/cost"
	"github.com/dolthub/optd/plan"
	"github.com/dolthub/optd/props"
)

// OnProduce lets a caller wrap each node produced by Best, e.g. to splice
// in a runtime-statistics collector (spec.md §4.1, §6).
type OnProduce func(n *plan.Node, g GroupId) *plan.Node

// Memo is the search space: a forest of groups and group expressions.
type Memo struct {
	builders []props.Builder
	log      *logrus.Entry

	nextId uint32

	groups     map[GroupId]*group
	groupOrder []GroupId // creation order, for deterministic Members/Bindings

	exprNode  map[ExprId]memoNode
	exprGroup map[ExprId]GroupId // group that owns this expression (as created; resolve via Canonical to get the live owner)
	exprIndex map[string]ExprId  // fingerprint -> expr id, for dedup

	merged map[GroupId]GroupId // union-find forest: a -> b means a merged into b

	winners map[GroupId]*Winner // keyed by canonical group id

	root GroupId
}

func New(builders []props.Builder, log *logrus.Entry) *Memo {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Memo{
		builders:  builders,
		log:       log,
		nextId:    1, // id 0 is reserved/invalid, mirroring the teacher's memo group 0
		groups:    make(map[GroupId]*group),
		exprNode:  make(map[ExprId]memoNode),
		exprGroup: make(map[ExprId]GroupId),
		exprIndex: make(map[string]ExprId),
		merged:    make(map[GroupId]GroupId),
		winners:   make(map[GroupId]*Winner),
	}
}

func (m *Memo) allocId() uint32 {
	id := m.nextId
	m.nextId++
	return id
}

// Canonical resolves a possibly-stale group id to its current
// representative by walking the merge forest, with path compression
// (spec.md §3 invariant: merge(A,B) leaves every external reference to A
// resolvable to B's canonical id in O(path-length) time).
func (m *Memo) Canonical(g GroupId) GroupId {
	path := []GroupId{}
	for {
		next, ok := m.merged[g]
		if !ok {
			break
		}
		path = append(path, g)
		g = next
	}
	for _, p := range path {
		m.merged[p] = g
	}
	return g
}

// Root returns the canonical root group, set by InsertRoot.
func (m *Memo) Root() GroupId { return m.Canonical(m.root) }

// AllGroups returns every distinct canonical group id currently live in
// the memo, in creation order of first appearance (spec.md §6 "dump").
func (m *Memo) AllGroups() []GroupId {
	seen := make(map[GroupId]bool)
	var out []GroupId
	for _, id := range m.groupOrder {
		c := m.Canonical(id)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ExprNode is the dereferenced content of a memo-ized expression: its
// kind, optional payload, and ordered canonical child group ids.
type ExprNode struct {
	Kind     plan.Kind
	Data     *plan.Value
	Children []GroupId
}

// ExprNodeOf returns the content of the given expression id.
func (m *Memo) ExprNodeOf(e ExprId) ExprNode {
	n, ok := m.exprNode[e]
	if !ok {
		panic(ErrUnknownExpr.New(e))
	}
	en := ExprNode{Kind: n.kind, Children: append([]GroupId(nil), n.children...)}
	if n.hasData {
		v := n.data
		en.Data = &v
	}
	return en
}

// ExprGroup returns the canonical group that owns expression e.
func (m *Memo) ExprGroup(e ExprId) GroupId {
	g, ok := m.exprGroup[e]
	if !ok {
		panic(ErrUnknownExpr.New(e))
	}
	return m.Canonical(g)
}

// Members returns every expression id belonging to the canonical group
// identified by gid, aggregated across every raw group that has since
// been merged into it (spec.md §4.1 "Merging": "Physically moving
// expressions is unnecessary because canonicalization resolves references
// at read time"). Order is deterministic for a given memo state (creation
// order of the contributing raw groups, then within-group member order).
func (m *Memo) Members(gid GroupId) []ExprId {
	target := m.Canonical(gid)
	var out []ExprId
	for _, id := range m.groupOrder {
		if m.Canonical(id) != target {
			continue
		}
		out = append(out, m.groups[id].members...)
	}
	return out
}

// Properties returns the frozen property values of the canonical group,
// indexed positionally by registered PropertyBuilder.
func (m *Memo) Properties(gid GroupId) []interface{} {
	g, ok := m.groups[m.Canonical(gid)]
	if !ok {
		panic(ErrUnknownGroup.New(gid))
	}
	return g.properties
}

// Explored / SetExplored track the "each group is explored at most once"
// invariant for ExploreGroupTask (spec.md §4.2).
func (m *Memo) Explored(gid GroupId) bool {
	return m.groups[m.Canonical(gid)].explored
}

func (m *Memo) SetExplored(gid GroupId) {
	m.groups[m.Canonical(gid)].explored = true
}

// Winner returns the canonical group's current winner, or nil.
func (m *Memo) Winner(gid GroupId) *Winner {
	return m.winners[m.Canonical(gid)]
}

// SetWinner installs w as the canonical group's winner.
func (m *Memo) SetWinner(gid GroupId, w Winner) {
	m.winners[m.Canonical(gid)] = &w
}

// ClearWinners resets every group's winner to empty, used between
// adaptive iterations under the step_clear_winner policy (spec.md §3,
// §4.5). Explored flags and fired-rule bookkeeping are left untouched:
// the transformation work that produced the memo's current members is
// still valid, only costing needs to redo -- that is the point of
// step_clear_winner over step_clear.
func (m *Memo) ClearWinners() {
	m.winners = make(map[GroupId]*Winner)
}

// InsertRoot inserts node as a fresh tree (or dedups into existing
// content) and records the resulting group as the memo's root.
func (m *Memo) InsertRoot(node *plan.Node) (GroupId, error) {
	gid, _, err := m.Insert(node, nil)
	if err != nil {
		return 0, err
	}
	m.root = gid
	return gid, nil
}

// Insert is the memo's single insertion primitive (spec.md §4.1):
//
//  1. Recursively insert each child that is not already a group
//     placeholder, obtaining canonical child group ids. A group
//     placeholder is accepted verbatim.
//  2. Build the memo-node key.
//  3. If the key already exists, optionally merge `into` and return the
//     existing (group, expr) pair.
//  4. Otherwise allocate a fresh expression id (and a fresh group id
//     unless `into` was supplied), derive properties if a new group was
//     created, and record the expression as a member.
func (m *Memo) Insert(node *plan.Node, into *GroupId) (GroupId, ExprId, error) {
	if node.Kind == plan.KindGroupPlaceholder {
		return 0, 0, ErrInvalidBinding.New("<insert>", 0, "cannot insert a bare group placeholder as a plan node")
	}

	childGroups := make([]GroupId, len(node.Children))
	for i, c := range node.Children {
		if c.Kind == plan.KindGroupPlaceholder {
			childGroups[i] = m.Canonical(c.Group)
			continue
		}
		gid, _, err := m.Insert(c, nil)
		if err != nil {
			return 0, 0, err
		}
		childGroups[i] = gid
	}

	key := memoNode{kind: node.Kind, children: childGroups}
	if node.Data != nil {
		key.data = *node.Data
		key.hasData = true
	}
	fp := key.fingerprint()

	if eid, ok := m.exprIndex[fp]; ok {
		gid := m.Canonical(m.exprGroup[eid])
		if into != nil {
			target := m.Canonical(*into)
			if target != gid {
				gid = m.merge(target, gid)
			}
		}
		return gid, eid, nil
	}

	eid := ExprId(m.allocId())
	isNewGroup := into == nil
	var gid GroupId
	if isNewGroup {
		gid = GroupId(m.allocId())
	} else {
		gid = m.Canonical(*into)
	}

	m.exprNode[eid] = key
	m.exprGroup[eid] = gid
	m.exprIndex[fp] = eid

	if isNewGroup {
		grp := &group{id: gid, members: []ExprId{eid}}
		props, err := m.deriveProperties(node, childGroups)
		if err != nil {
			return 0, 0, ErrInvalidBinding.New("<property>", eid, err.Error())
		}
		grp.properties = props
		m.groups[gid] = grp
		m.groupOrder = append(m.groupOrder, gid)
	} else {
		m.groups[gid].addMember(eid)
	}

	m.log.WithFields(logrus.Fields{"expr": eid, "group": gid, "kind": node.Kind.String()}).Trace("memo: inserted expression")
	return gid, eid, nil
}

func (m *Memo) deriveProperties(node *plan.Node, childGroups []GroupId) ([]interface{}, error) {
	out := make([]interface{}, len(m.builders))
	for j, b := range m.builders {
		childProps := make([]interface{}, len(childGroups))
		for i, cg := range childGroups {
			cgProps := m.groups[cg].properties
			if j < len(cgProps) {
				childProps[i] = cgProps[j]
			}
		}
		val, err := b.Build(node.Kind, node.Data, node.Children, childProps)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", b.Name(), err)
		}
		out[j] = val
	}
	return out, nil
}

// merge folds group a into group b (spec.md §4.1 "Merging"): a's
// existing members are not moved; Members/Canonical resolve the fold at
// read time. Returns the resulting canonical id (b).
func (m *Memo) merge(a, b GroupId) GroupId {
	a = m.Canonical(a)
	b = m.Canonical(b)
	if a == b {
		return a
	}
	m.merged[a] = b
	if wa := m.winners[a]; wa != nil {
		if wb := m.winners[b]; wb == nil || (!wa.Impossible && (wb.Impossible || wa.Cost.Less(wb.Cost))) {
			m.winners[b] = wa
		}
	}
	delete(m.winners, a)
	m.log.WithFields(logrus.Fields{"from": a, "to": b}).Debug("memo: merged groups")
	return b
}

// Best requires every reachable group to have a non-impossible winner; it
// returns the physical tree obtained by replacing each group id with its
// winner's expression and recursing, passing every produced node through
// onProduce (spec.md §4.1 "Best-plan extraction").
func (m *Memo) Best(gid GroupId, onProduce OnProduce) (*plan.Node, error) {
	gid = m.Canonical(gid)
	w := m.winners[gid]
	if w == nil || w.Impossible {
		return nil, ErrNoWinner.New(gid)
	}
	en := m.ExprNodeOf(w.ExprId)
	children := make([]*plan.Node, len(en.Children))
	for i, cg := range en.Children {
		c, err := m.Best(cg, onProduce)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	var data *plan.Value
	if en.Data != nil {
		v := *en.Data
		data = &v
	}
	node := &plan.Node{Kind: en.Kind, Children: children, Data: data}
	if onProduce != nil {
		node = onProduce(node, gid)
	}
	return node, nil
}

// Bindings returns the (deterministic, for a given memo state) set of
// concrete plan trees rooted at gid, per spec.md §4.1: bounded by level
// (at depth 0, children become group placeholders unless excluded),
// optionally restricted to physical members only.
func (m *Memo) Bindings(gid GroupId, physicalOnly, excludePlaceholder bool, level int) []*plan.Node {
	gid = m.Canonical(gid)
	var out []*plan.Node
	for _, e := range m.Members(gid) {
		en := m.ExprNodeOf(e)
		if physicalOnly && plan.IsLogical(en.Kind) {
			continue
		}
		if level <= 0 {
			if excludePlaceholder {
				continue
			}
			// The group as a whole is one placeholder, not one per member.
			return []*plan.Node{plan.GroupPlaceholder(gid)}
		}
		childOptions := make([][]*plan.Node, len(en.Children))
		for i, cg := range en.Children {
			opts := m.Bindings(cg, physicalOnly, excludePlaceholder, level-1)
			if len(opts) == 0 {
				opts = []*plan.Node{plan.GroupPlaceholder(cg)}
			}
			childOptions[i] = opts
		}
		for _, combo := range cartesian(childOptions) {
			var data *plan.Value
			if en.Data != nil {
				v := *en.Data
				data = &v
			}
			out = append(out, &plan.Node{Kind: en.Kind, Data: data, Children: combo})
		}
	}
	return out
}

func cartesian(options [][]*plan.Node) [][]*plan.Node {
	result := [][]*plan.Node{{}}
	for _, opts := range options {
		var next [][]*plan.Node
		for _, prefix := range result {
			for _, o := range opts {
				combo := append(append([]*plan.Node(nil), prefix...), o)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}

// cost.Cost re-exported as Cost so callers of this package do not need a
// second import just to spell Winner.Cost's type.
type Cost = cost.Cost
