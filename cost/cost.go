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

// Package cost implements the pluggable cost-model contract (spec.md §4.4)
// and the baseline row-count/IO/compute reference model. It is grounded on
// the teacher's sql/memo.Coster interface (EstimateCost(ctx, RelExpr,
// StatsProvider) (float64, error)), generalized from a single float to the
// tuple cost spec.md requires so that accumulation and explanation are
// well-defined independent of the underlying relational algebra.
package cost

import (
	"fmt"

	"github.com/dolthub/optd/plan"
)

// Cost is the reference tuple cost: weighted = compute + 10*io, alongside
// the row-count estimate (which is NOT summed during accumulation — a
// plan's row-count is the root's, not a sum across the tree, per
// spec.md §4.4).
type Cost struct {
	Weighted float64
	RowCount float64
	Compute  float64
	IO       float64
}

// Less orders costs by the weighted component only; ties are stable in
// favor of the existing winner, which the caller enforces by requiring a
// strictly-lower comparison before installing a new winner.
func (c Cost) Less(o Cost) bool { return c.Weighted < o.Weighted }

func (c Cost) String() string {
	return fmt.Sprintf("weighted=%.3f rows=%.1f compute=%.3f io=%.3f", c.Weighted, c.RowCount, c.Compute, c.IO)
}

// Context carries optional identifying information for context-aware cost
// models (spec.md §4.4: "context optionally carries the current group id
// and expression id, enabling context-aware cost models (e.g., adaptive)").
type Context struct {
	GroupId  plan.GroupId
	ExprId   plan.ExprId
	HasGroup bool
	HasExpr  bool
}

// Model is the pluggable cost-model contract (spec.md §4.4 "Contract").
type Model interface {
	// Zero returns the identity cost for accumulation.
	Zero() Cost
	// ComputeCost returns the cost of one physical operator node given its
	// payload, its children's already-computed costs, and optional context.
	ComputeCost(kind plan.Kind, data *plan.Value, children []Cost, ctx Context) (Cost, error)
	// Accumulate folds cost into total using model-specific composition
	// semantics (the baseline model ignores RowCount during accumulation).
	Accumulate(total Cost, c Cost) Cost
	// Explain renders a human-readable cost breakdown.
	Explain(c Cost) string
}
