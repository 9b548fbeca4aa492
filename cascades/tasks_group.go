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

import "github.com/dolthub/optd/plan"

// OptimizeGroupTask drives a group towards a winner (spec.md §4.2
// "OptimizeGroupTask"). If the group already has one, it is a no-op --
// this is the task-level half of "each group is solved at most once."
type OptimizeGroupTask struct {
	Group GroupId
}

func (t OptimizeGroupTask) Run(o *Optimizer) ([]Task, error) {
	g := o.memo.Canonical(t.Group)
	if o.memo.Winner(g) != nil {
		return nil, nil
	}
	var tasks []Task
	for _, e := range o.memo.Members(g) {
		en := o.memo.ExprNodeOf(e)
		if plan.IsLogical(en.Kind) {
			tasks = append(tasks, OptimizeExpressionTask{Expr: e, Exploring: false})
		} else {
			tasks = append(tasks, &OptimizeInputsTask{Expr: e, Pruning: true})
		}
	}
	return tasks, nil
}

// ExploreGroupTask expands every logical member's transformation rules
// once per group (spec.md §4.2 "ExploreGroupTask").
type ExploreGroupTask struct {
	Group GroupId
}

func (t ExploreGroupTask) Run(o *Optimizer) ([]Task, error) {
	g := o.memo.Canonical(t.Group)
	if o.memo.Explored(g) {
		return nil, nil
	}
	o.memo.SetExplored(g)
	var tasks []Task
	for _, e := range o.memo.Members(g) {
		en := o.memo.ExprNodeOf(e)
		if plan.IsLogical(en.Kind) {
			tasks = append(tasks, OptimizeExpressionTask{Expr: e, Exploring: true})
		}
	}
	return tasks, nil
}
