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
	"context"
	"fmt"
	"strings"

	"github.com/dolthub/optd/catalog"
	"github.com/dolthub/optd/cost"
	"github.com/dolthub/optd/memo"
	"github.com/dolthub/optd/plan"
	"github.com/dolthub/optd/props"
	"github.com/dolthub/optd/rules"
	"go.opentelemetry.io/otel/trace"
)

// Optimizer is the public façade (spec.md §4.5): insert a logical root,
// drive the task loop within budget, extract the winning physical plan.
type Optimizer struct {
	catalog  catalog.Catalog
	builders []props.Builder
	rules    []rules.Rule
	cost     cost.Model
	adaptive *cost.AdaptiveModel
	config   Config

	memo *memo.Memo
	view *memoView

	// traceCtx carries the span started in Optimize for the duration of
	// one task loop, so ApplyRuleTask can attach child spans to it. Only
	// meaningful while a call to Optimize is in flight.
	traceCtx context.Context

	fired map[firedKey]bool

	stack       []Task
	tasksRun    uint64
	budgetSpent bool

	optimizedOnce bool
}

// New builds an Optimizer wired to cat for schema/statistics lookups and
// ruleset as its transformation/implementation rule library.
func New(cat catalog.Catalog, ruleset []rules.Rule, config Config) *Optimizer {
	config = config.WithDefaults()

	builders := []props.Builder{props.NewSchemaBuilder(cat)}
	base := cost.NewBaselineModel(cat)

	var model cost.Model = base
	var adaptive *cost.AdaptiveModel
	if config.EnableAdaptive {
		adaptive = cost.NewAdaptiveModel(base, config.AdaptiveDecay)
		model = adaptive
	}

	o := &Optimizer{
		catalog:  cat,
		builders: builders,
		rules:    ruleset,
		cost:     model,
		adaptive: adaptive,
		config:   config,
		fired:    make(map[firedKey]bool),
	}
	o.resetMemo()
	return o
}

func (o *Optimizer) resetMemo() {
	o.memo = memo.New(o.builders, o.config.Logger)
	o.view = &memoView{m: o.memo, builders: o.builders}
}

// Memo exposes the underlying memo for diagnostics and tests.
func (o *Optimizer) Memo() *memo.Memo { return o.memo }

// Adaptive returns the adaptive cost model, or nil if EnableAdaptive was
// never set (spec.md §4.5 "enable_adaptive").
func (o *Optimizer) Adaptive() *cost.AdaptiveModel { return o.adaptive }

func (o *Optimizer) hasFired(e ExprId, ruleIdx int) bool {
	return o.fired[firedKey{expr: e, rule: ruleIdx}]
}

func (o *Optimizer) markFired(e ExprId, ruleIdx int) {
	o.fired[firedKey{expr: e, rule: ruleIdx}] = true
}

func (o *Optimizer) budgetUsed() bool {
	return o.tasksRun > o.config.PartialExploreIter
}

// BudgetUsed reports whether the most recent Optimize call exhausted its
// task budget (spec.md §6 "budget_used").
func (o *Optimizer) BudgetUsed() bool { return o.budgetSpent }

// Insert inserts root as a fresh tree (deduping into existing content)
// and returns its group id, without running the task loop.
func (o *Optimizer) Insert(root *plan.Node) (GroupId, error) {
	return o.memo.InsertRoot(root)
}

// Optimize inserts root, drives the task loop to completion or budget
// exhaustion, and extracts the best physical plan (spec.md §4.5
// "optimize"). onProduce, if non-nil, wraps every node of the extracted
// plan (the adaptive host uses this to splice in runtime collectors).
func (o *Optimizer) Optimize(root *plan.Node, onProduce memo.OnProduce) (GroupId, *plan.Node, error) {
	if o.optimizedOnce && o.adaptive != nil {
		switch o.config.AdaptivePolicy {
		case StepClear:
			o.resetMemo()
			o.fired = make(map[firedKey]bool)
		default: // StepClearWinner
			o.memo.ClearWinners()
		}
		o.adaptive.NextIteration()
	}
	o.optimizedOnce = true

	ctx := context.Background()
	if o.config.Tracer != nil {
		var span trace.Span
		ctx, span = o.config.Tracer.Start(ctx, "cascades.Optimize")
		defer span.End()
	}
	o.traceCtx = ctx

	gid, err := o.Insert(root)
	if err != nil {
		return 0, nil, err
	}

	o.tasksRun = 0
	o.budgetSpent = false
	o.stack = nil
	o.push([]Task{OptimizeGroupTask{Group: gid}})
	for len(o.stack) > 0 {
		n := len(o.stack) - 1
		t := o.stack[n]
		o.stack = o.stack[:n]

		o.tasksRun++
		if o.budgetUsed() {
			o.budgetSpent = true
		}

		more, err := t.Run(o)
		if err != nil {
			return 0, nil, err
		}
		o.push(more)
	}

	best, err := o.memo.Best(gid, onProduce)
	if err != nil {
		return gid, nil, err
	}
	return gid, best, nil
}

// push appends tasks to the LIFO stack such that they execute in the
// order given (tasks[0] runs first): since the stack pops from the end,
// tasks must be pushed in reverse.
func (o *Optimizer) push(tasks []Task) {
	for i := len(tasks) - 1; i >= 0; i-- {
		o.stack = append(o.stack, tasks[i])
	}
}

// Dump renders a diagnostic walk of groups, members, properties, and
// winners (spec.md §6 "dump"), restricted to one group if gid is
// non-nil. Not intended to be parsed.
func (o *Optimizer) Dump(gid *GroupId) string {
	var sb strings.Builder
	groups := o.memo.AllGroups()
	if uint64(len(groups)) > o.config.PartialExploreSpace {
		fmt.Fprintf(&sb, "warning: memo holds %d groups, past partial_explore_space %d\n",
			len(groups), o.config.PartialExploreSpace)
	}
	for _, g := range groups {
		if gid != nil && g != *gid {
			continue
		}
		fmt.Fprintf(&sb, "group %d:\n", g)
		if w := o.memo.Winner(g); w != nil {
			if w.Impossible {
				fmt.Fprintf(&sb, "  winner: impossible\n")
			} else {
				fmt.Fprintf(&sb, "  winner: expr=%d cost=%s\n", w.ExprId, o.cost.Explain(w.Cost))
			}
		} else {
			fmt.Fprintf(&sb, "  winner: <none>\n")
		}
		for pi, p := range o.memo.Properties(g) {
			fmt.Fprintf(&sb, "  property[%d]: %v\n", pi, p)
		}
		for _, e := range o.memo.Members(g) {
			en := o.memo.ExprNodeOf(e)
			fmt.Fprintf(&sb, "  member %d: %s %v\n", e, en.Kind, en.Children)
		}
	}
	return sb.String()
}

// JoinOrderString walks a physical plan tree into a nested tree-string
// of HashJoin/NLJ/Table nodes, for correctness testing against expected
// join orders (spec.md §6).
func JoinOrderString(n *plan.Node) string {
	switch n.Kind {
	case plan.KindPhysicalHashJoin:
		return fmt.Sprintf("(HashJoin %s %s)", JoinOrderString(n.Children[0]), JoinOrderString(n.Children[1]))
	case plan.KindPhysicalNestedLoopJoin:
		return fmt.Sprintf("(NLJ %s %s)", JoinOrderString(n.Children[0]), JoinOrderString(n.Children[1]))
	case plan.KindPhysicalScan:
		return fmt.Sprintf("(Table %s)", plan.AsScan(n).Table())
	case plan.KindPhysicalFilter, plan.KindPhysicalProjection, plan.KindPhysicalAggregate, plan.KindPhysicalSort:
		return JoinOrderString(n.Children[0])
	default:
		return n.Kind.String()
	}
}
