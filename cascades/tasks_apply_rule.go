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
	"fmt"

	"github.com/dolthub/optd/plan"
	"github.com/dolthub/optd/rules"
)

// ApplyRuleTask fires one rule against one already-known expression
// (spec.md §4.2 "ApplyRuleTask"). Every returned replacement node is
// inserted into e's own group, which dedups/merges exactly as any other
// insertion would.
type ApplyRuleTask struct {
	RuleIdx   int
	Expr      ExprId
	Exploring bool
}

func (t ApplyRuleTask) Run(o *Optimizer) ([]Task, error) {
	if o.hasFired(t.Expr, t.RuleIdx) {
		return nil, nil
	}
	rule := o.rules[t.RuleIdx]

	if o.config.Tracer != nil && o.traceCtx != nil {
		_, span := o.config.Tracer.Start(o.traceCtx, fmt.Sprintf("cascades.ApplyRule:%s", rule.Name()))
		defer span.End()
	}

	bindings := rules.MatchExpr(o.memo, t.Expr, rule.Matcher())
	group := o.memo.ExprGroup(t.Expr)

	var tasks []Task
	for _, b := range bindings {
		out, err := rule.Apply(o.view, b)
		if err != nil {
			if o.config.SkipFailedRules {
				o.config.Logger.WithError(err).WithField("rule", rule.Name()).Warn("cascades: rule failed, skipping")
				continue
			}
			return nil, ErrRuleFailed.New(rule.Name(), t.Expr, err.Error())
		}
		for _, node := range out {
			g := group
			_, eid, err := o.memo.Insert(node, &g)
			if err != nil {
				return nil, err
			}
			if plan.IsLogical(node.Kind) {
				tasks = append(tasks, OptimizeExpressionTask{Expr: eid, Exploring: t.Exploring})
			} else {
				tasks = append(tasks, &OptimizeInputsTask{Expr: eid, Pruning: true})
			}
		}
	}

	o.markFired(t.Expr, t.RuleIdx)
	return tasks, nil
}
