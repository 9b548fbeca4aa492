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

// OptimizeExpressionTask explores every child group and tries every
// not-yet-fired rule matching e's kind (spec.md §4.2
// "OptimizeExpressionTask"). Child exploration is ordered ahead of rule
// application in the returned slice so it runs first: a rule whose
// pattern recurses into a child group sees that group's members already
// expanded by the time it is tried.
type OptimizeExpressionTask struct {
	Expr      ExprId
	Exploring bool
}

func (t OptimizeExpressionTask) Run(o *Optimizer) ([]Task, error) {
	en := o.memo.ExprNodeOf(t.Expr)

	var tasks []Task
	for _, cg := range en.Children {
		tasks = append(tasks, ExploreGroupTask{Group: cg})
	}

	if !o.budgetUsed() {
		for ri, r := range o.rules {
			if t.Exploring && r.IsImplementationRule() {
				continue
			}
			if r.Matcher().Kind != en.Kind {
				continue
			}
			if o.hasFired(t.Expr, ri) {
				continue
			}
			tasks = append(tasks, ApplyRuleTask{RuleIdx: ri, Expr: t.Expr, Exploring: t.Exploring})
		}
	}
	return tasks, nil
}
