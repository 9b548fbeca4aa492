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

package cost

import (
	"fmt"
	"math"

	"github.com/dolthub/optd/catalog"
	"github.com/dolthub/optd/plan"
)

// Selectivity constants from spec.md §4.4 "Reference row-cost model".
const (
	filterSelectivity = 0.001
	joinSelectivity    = 0.01
)

// BaselineModel is the reference row-count/IO/compute cost model
// (spec.md §4.4). It is grounded on the teacher's sql/memo.Coster
// interface, generalized to the tuple Cost spec.md requires and wired to
// a catalog.Catalog for table-cardinality estimates instead of the
// teacher's sql.StatsProvider.
//
// Every plan.Kind is handled uniformly, including scalar-expression and
// the reserved List kind: in this reference implementation a scalar
// expression group always has exactly one member, so it is costed the
// same way a physical relational node is.
type BaselineModel struct {
	Catalog catalog.Catalog
}

func NewBaselineModel(cat catalog.Catalog) *BaselineModel {
	return &BaselineModel{Catalog: cat}
}

func (m *BaselineModel) Zero() Cost { return Cost{} }

func (m *BaselineModel) Accumulate(total Cost, c Cost) Cost {
	// Row-count is never summed: a plan's row-count is the root's, not an
	// aggregate over the tree (spec.md §4.4).
	return Cost{
		Weighted: total.Weighted + c.Weighted,
		RowCount: c.RowCount,
		Compute:  total.Compute + c.Compute,
		IO:       total.IO + c.IO,
	}
}

func (m *BaselineModel) Explain(c Cost) string {
	return fmt.Sprintf("weighted=%.3f (compute=%.3f + 10*io=%.3f), rows=%.1f",
		c.Weighted, c.Compute, c.IO, c.RowCount)
}

func weighted(compute, io float64) float64 { return compute + 10*io }

func (m *BaselineModel) ComputeCost(kind plan.Kind, data *plan.Value, children []Cost, ctx Context) (Cost, error) {
	switch kind {
	case plan.KindPhysicalScan:
		rowCnt := 1.0
		if data != nil && m.Catalog != nil {
			if st, ok := m.Catalog.Stat(data.String()); ok && st.RowCount > 0 {
				rowCnt = st.RowCount
			}
		}
		return Cost{Weighted: weighted(0, rowCnt), RowCount: rowCnt, Compute: 0, IO: rowCnt}, nil

	case plan.KindPhysicalFilter:
		child := childCost(children, 0)
		pred := childCost(children, 1)
		rowCnt := max1(child.RowCount * filterSelectivity)
		compute := child.RowCount * pred.Compute
		return Cost{Weighted: weighted(compute, 0), RowCount: rowCnt, Compute: compute, IO: 0}, nil

	case plan.KindPhysicalNestedLoopJoin:
		l := childCost(children, 0)
		r := childCost(children, 1)
		pred := childCost(children, 2)
		rowCnt := max1(l.RowCount * r.RowCount * joinSelectivity)
		compute := l.RowCount * r.RowCount * pred.Compute
		return Cost{Weighted: weighted(compute, 0), RowCount: rowCnt, Compute: compute, IO: 0}, nil

	case plan.KindPhysicalHashJoin:
		l := childCost(children, 0)
		r := childCost(children, 1)
		rowCnt := max1(l.RowCount * r.RowCount * joinSelectivity)
		compute := l.RowCount + r.RowCount
		return Cost{Weighted: weighted(compute, 0), RowCount: rowCnt, Compute: compute, IO: 0}, nil

	case plan.KindPhysicalProjection:
		child := childCost(children, 0)
		exprs := childCost(children, 1)
		compute := child.RowCount * exprs.Compute
		return Cost{Weighted: weighted(compute, 0), RowCount: child.RowCount, Compute: compute, IO: 0}, nil

	case plan.KindPhysicalAggregate:
		child := childCost(children, 0)
		rowCnt := max1(child.RowCount * filterSelectivity)
		compute := child.RowCount
		return Cost{Weighted: weighted(compute, 0), RowCount: rowCnt, Compute: compute, IO: 0}, nil

	case plan.KindPhysicalSort:
		child := childCost(children, 0)
		// n*log2(n) comparisons, floored at n to avoid a negative/zero cost
		// for tiny inputs.
		n := child.RowCount
		compute := n
		if n > 1 {
			compute = n * log2(n)
		}
		return Cost{Weighted: weighted(compute, 0), RowCount: child.RowCount, Compute: compute, IO: 0}, nil

	case plan.KindList:
		var compute float64
		for _, c := range children {
			compute += c.Compute
		}
		return Cost{Weighted: weighted(compute, 0), Compute: compute}, nil

	case plan.KindJSONExtract:
		// JSON path traversal costs more per-row than a plain column
		// reference or arithmetic op (grounded on dolthub/jsonpath use in
		// props.SchemaBuilder for path validation).
		var compute float64
		for _, c := range children {
			compute += c.Compute
		}
		return Cost{Weighted: weighted(compute+4, 0), Compute: compute + 4}, nil

	default:
		// Scalar-expression kinds (ColumnRef, Literal, BinOp, UnaryOp,
		// FuncCall): compute = sum(child compute) + 1, per spec.md §4.4.
		var compute float64
		for _, c := range children {
			compute += c.Compute
		}
		compute += 1
		return Cost{Weighted: weighted(compute, 0), Compute: compute}, nil
	}
}

func childCost(children []Cost, i int) Cost {
	if i < len(children) {
		return children[i]
	}
	return Cost{}
}

func max1(f float64) float64 {
	if f < 1 {
		return 1
	}
	return f
}

func log2(f float64) float64 {
	return math.Log2(f)
}
