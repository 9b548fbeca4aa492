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

// The views in this file are thin, storage-free adapters over Node: each
// wraps a *Node and exposes typed accessors, matching spec.md §9's
// "Polymorphic plan nodes" design note. A view never allocates new plan
// storage; it only interprets an existing node's Children/Data.

// Scan is the logical view over a table scan: LogicalScan(tableName).
type Scan struct{ N *Node }

func NewScan(table string) *Node {
	return NewValueNode(KindLogicalScan, StringValue(table))
}

func AsScan(n *Node) Scan { return Scan{N: n} }

func (s Scan) Table() string { return s.N.Data.s }

// Filter is the logical view over a Filter(child, predicate).
type Filter struct{ N *Node }

func NewFilter(child, predicate *Node) *Node {
	return NewNode(KindLogicalFilter, child, predicate)
}

func AsFilter(n *Node) Filter { return Filter{N: n} }

func (f Filter) Child() *Node     { return f.N.Children[0] }
func (f Filter) Predicate() *Node { return f.N.Children[1] }

// Join is the logical view over Join(left, right, cond), with JoinType
// riding in the Value payload as an Int (spec.md §9: enum discriminants
// must participate in matcher/memo equality).
type Join struct{ N *Node }

func NewJoin(left, right, cond *Node, jt JoinType) *Node {
	return NewValueNode(KindLogicalJoin, IntValue(int64(jt)), left, right, cond)
}

func AsJoin(n *Node) Join { return Join{N: n} }

func (j Join) Left() *Node       { return j.N.Children[0] }
func (j Join) Right() *Node      { return j.N.Children[1] }
func (j Join) Cond() *Node       { return j.N.Children[2] }
func (j Join) Type() JoinType    { return JoinType(j.N.Data.Int()) }

// Projection is the logical view over Projection(child, list-of-exprs).
type Projection struct{ N *Node }

func NewProjection(child *Node, exprs ...*Node) *Node {
	return NewNode(KindLogicalProjection, child, List(exprs...))
}

func AsProjection(n *Node) Projection { return Projection{N: n} }

func (p Projection) Child() *Node   { return p.N.Children[0] }
func (p Projection) Exprs() []*Node { return p.N.Children[1].Children }

// Aggregate is the logical view over Aggregate(child, group-by-list, agg-list).
type Aggregate struct{ N *Node }

func NewAggregate(child *Node, groupBy, aggs []*Node) *Node {
	return NewNode(KindLogicalAggregate, child, List(groupBy...), List(aggs...))
}

func AsAggregate(n *Node) Aggregate { return Aggregate{N: n} }

func (a Aggregate) Child() *Node     { return a.N.Children[0] }
func (a Aggregate) GroupBy() []*Node { return a.N.Children[1].Children }
func (a Aggregate) Aggs() []*Node    { return a.N.Children[2].Children }

// Sort is the logical view over Sort(child, list-of-sort-keys).
type Sort struct{ N *Node }

func NewSort(child *Node, keys ...*Node) *Node {
	return NewNode(KindLogicalSort, child, List(keys...))
}

func AsSort(n *Node) Sort { return Sort{N: n} }

func (s Sort) Child() *Node { return s.N.Children[0] }
func (s Sort) Keys() []*Node { return s.N.Children[1].Children }

// SortKey wraps a column reference with a descending flag.
func NewSortKey(col *Node, desc bool) *Node {
	return NewValueNode(KindSortKey, BoolValue(desc), col)
}

func AsSortKey(n *Node) (col *Node, desc bool) { return n.Children[0], n.Data.Bool() }

// ColumnRef is the scalar-expression view over a column-ordinal reference.
type ColumnRef struct{ N *Node }

func NewColumnRef(index int) *Node {
	return NewValueNode(KindColumnRef, IntValue(int64(index)))
}

func AsColumnRef(n *Node) ColumnRef { return ColumnRef{N: n} }

func (c ColumnRef) Index() int { return int(c.N.Data.Int()) }

// Literal is the scalar-expression view over a constant value.
func NewLiteral(v Value) *Node {
	return NewValueNode(KindLiteral, v)
}

func AsLiteral(n *Node) Value { return *n.Data }

// BinOp is the scalar-expression view over a binary operator application.
type BinOp struct{ N *Node }

func NewBinOp(op BinOpKind, left, right *Node) *Node {
	return NewValueNode(KindBinOp, IntValue(int64(op)), left, right)
}

func AsBinOp(n *Node) BinOp { return BinOp{N: n} }

func (b BinOp) Op() BinOpKind { return BinOpKind(b.N.Data.Int()) }
func (b BinOp) Left() *Node   { return b.N.Children[0] }
func (b BinOp) Right() *Node  { return b.N.Children[1] }

// FuncCall is the scalar-expression view over a named function application.
type FuncCall struct{ N *Node }

func NewFuncCall(name string, args ...*Node) *Node {
	return NewValueNode(KindFuncCall, StringValue(name), args...)
}

func AsFuncCall(n *Node) FuncCall { return FuncCall{N: n} }

func (f FuncCall) Name() string { return f.N.Data.s }
func (f FuncCall) Args() []*Node { return f.N.Children }

// JSONExtract is the scalar-expression view over a JSON_EXTRACT(path, doc)
// call; the path is validated and compiled at memo-insertion time by the
// property builder (see props.SchemaBuilder), grounded on the teacher's use
// of github.com/dolthub/jsonpath for JSON column support.
type JSONExtract struct{ N *Node }

func NewJSONExtract(path string, doc *Node) *Node {
	return NewValueNode(KindJSONExtract, StringValue(path), doc)
}

func AsJSONExtract(n *Node) JSONExtract { return JSONExtract{N: n} }

func (j JSONExtract) Path() string { return j.N.Data.s }
func (j JSONExtract) Doc() *Node   { return j.N.Children[0] }

// --- Physical views ---

// PhysicalScan is the physical view over a table scan by name.
func NewPhysicalScan(table string) *Node {
	return NewValueNode(KindPhysicalScan, StringValue(table))
}

func AsPhysicalScan(n *Node) Scan { return Scan{N: n} }

// PhysicalFilter mirrors Filter but tags the physical kind.
func NewPhysicalFilter(child, predicate *Node) *Node {
	return NewNode(KindPhysicalFilter, child, predicate)
}

// PhysicalNestedLoopJoin mirrors Join but tags the physical kind.
func NewPhysicalNestedLoopJoin(left, right, cond *Node, jt JoinType) *Node {
	return NewValueNode(KindPhysicalNestedLoopJoin, IntValue(int64(jt)), left, right, cond)
}

// PhysicalHashJoin mirrors Join but tags the physical kind.
func NewPhysicalHashJoin(left, right, cond *Node, jt JoinType) *Node {
	return NewValueNode(KindPhysicalHashJoin, IntValue(int64(jt)), left, right, cond)
}

// PhysicalProjection mirrors Projection but tags the physical kind.
func NewPhysicalProjection(child *Node, exprs ...*Node) *Node {
	return NewNode(KindPhysicalProjection, child, List(exprs...))
}

// PhysicalAggregate mirrors Aggregate but tags the physical kind.
func NewPhysicalAggregate(child *Node, groupBy, aggs []*Node) *Node {
	return NewNode(KindPhysicalAggregate, child, List(groupBy...), List(aggs...))
}

// PhysicalSort mirrors Sort but tags the physical kind.
func NewPhysicalSort(child *Node, keys ...*Node) *Node {
	return NewNode(KindPhysicalSort, child, List(keys...))
}
