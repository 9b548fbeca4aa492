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
	"github.com/dolthub/optd/cost"
	"github.com/dolthub/optd/memo"
)

// OptimizeInputsTask drives bottom-up cost computation for one physical
// expression (spec.md §4.2 "OptimizeInputsTask"). It suspends itself --
// by re-enqueuing its own pointer atop an OptimizeGroupTask for the
// child it is waiting on -- whenever a child group has no winner yet, so
// it must be constructed as a pointer and never copied once started.
type OptimizeInputsTask struct {
	Expr    ExprId
	Pruning bool

	started   bool
	childIdx  int
	inputCost []cost.Cost
	retried   []bool
}

func (t *OptimizeInputsTask) Run(o *Optimizer) ([]Task, error) {
	en := o.memo.ExprNodeOf(t.Expr)
	group := o.memo.ExprGroup(t.Expr)

	if !t.started {
		t.started = true
		t.inputCost = make([]cost.Cost, len(en.Children))
		t.retried = make([]bool, len(en.Children))
		for i, cg := range en.Children {
			if w := o.memo.Winner(cg); w != nil && !w.Impossible {
				t.inputCost[i] = w.Cost
			} else {
				t.inputCost[i] = o.cost.Zero()
			}
		}
	}

	for t.childIdx < len(en.Children) {
		cg := o.memo.Canonical(en.Children[t.childIdx])
		w := o.memo.Winner(cg)

		if w == nil {
			if t.retried[t.childIdx] {
				// Already sent this child through OptimizeGroup once and
				// it still has no winner: spec.md §4.2 treats that the
				// same as an explicit impossible marker.
				o.memo.SetWinner(group, memo.Winner{Impossible: true})
				return nil, nil
			}
			t.retried[t.childIdx] = true
			return []Task{OptimizeGroupTask{Group: cg}, t}, nil
		}
		if w.Impossible {
			o.memo.SetWinner(group, memo.Winner{Impossible: true})
			return nil, nil
		}

		t.inputCost[t.childIdx] = w.Cost

		if t.Pruning {
			if cur := o.memo.Winner(group); cur != nil && !cur.Impossible {
				partial := o.cost.Zero()
				for i := 0; i <= t.childIdx; i++ {
					partial = o.cost.Accumulate(partial, t.inputCost[i])
				}
				if cur.Cost.Less(partial) {
					// Costed-so-far already exceeds the current winner;
					// every extension of a non-negative cost model can
					// only grow from here, so this expression can never
					// win (spec.md §4.2 "branch-and-bound pruning").
					return nil, nil
				}
			}
		}
		t.childIdx++
	}

	nodeCost, err := o.cost.ComputeCost(en.Kind, en.Data, t.inputCost, cost.Context{
		GroupId: group, ExprId: t.Expr, HasGroup: true, HasExpr: true,
	})
	if err != nil {
		return nil, err
	}
	total := o.cost.Zero()
	for _, c := range t.inputCost {
		total = o.cost.Accumulate(total, c)
	}
	total = o.cost.Accumulate(total, nodeCost)

	if cur := o.memo.Winner(group); cur == nil || cur.Impossible || total.Less(cur.Cost) {
		o.memo.SetWinner(group, memo.Winner{ExprId: t.Expr, Cost: total})
	}
	return nil, nil
}
