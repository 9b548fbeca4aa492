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
	"sync"

	"github.com/dolthub/optd/plan"
)

// observation is one runtime row-count sample recorded against a group,
// stamped with the iteration it was recorded in so it can decay.
type observation struct {
	rowCount  float64
	iteration uint32
}

// AdaptiveModel decorates a baseline Model with runtime feedback
// (spec.md §4.4 "Adaptive cost model"). The host feeds observations by
// wrapping each physical node in a collector that records batches
// streamed through it (the onProduce callback of cascades.Optimizer.Optimize
// is where such a wrapper is spliced in); ComputeCost
// substitutes the observed row count for the estimated one whenever the
// node's group has a fresh observation (recorded within the last Decay
// iterations).
//
// The observation map is the one piece of optimizer state shared with the
// host across concurrent query executions; spec.md §5 requires every
// access be serialized via a single lock held only for the O(1) map
// update, never across a suspension point. sync.Mutex matches that
// requirement directly; no corpus dependency offers anything narrower
// than the standard library for a single in-process map lock, so this is
// the one ambient concern in the repo built on stdlib alone (see
// DESIGN.md).
type AdaptiveModel struct {
	base  Model
	decay uint32

	mu           sync.Mutex
	observations map[plan.GroupId]observation
	iteration    uint32
}

func NewAdaptiveModel(base Model, decay uint32) *AdaptiveModel {
	return &AdaptiveModel{
		base:         base,
		decay:        decay,
		observations: make(map[plan.GroupId]observation),
	}
}

// NextIteration advances the iteration counter; called once per
// re-optimization so that stale observations age out after Decay rounds.
func (m *AdaptiveModel) NextIteration() {
	m.mu.Lock()
	m.iteration++
	m.mu.Unlock()
}

// Iteration returns the current iteration counter.
func (m *AdaptiveModel) Iteration() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.iteration
}

// Observe records a runtime row-count sample for the given group. This is
// the method the host's execution-time collector calls.
func (m *AdaptiveModel) Observe(g plan.GroupId, rowCount float64) {
	m.mu.Lock()
	m.observations[g] = observation{rowCount: rowCount, iteration: m.iteration}
	m.mu.Unlock()
}

// ClearObservations discards every recorded sample. Neither adaptive reset
// policy in cascades.Optimizer.Optimize calls it: observations survive both
// step_clear and step_clear_winner.
func (m *AdaptiveModel) ClearObservations() {
	m.mu.Lock()
	m.observations = make(map[plan.GroupId]observation)
	m.mu.Unlock()
}

func (m *AdaptiveModel) freshRowCount(ctx Context) (float64, bool) {
	if !ctx.HasGroup {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	obs, ok := m.observations[ctx.GroupId]
	if !ok {
		return 0, false
	}
	if m.iteration-obs.iteration > m.decay {
		return 0, false
	}
	return obs.rowCount, true
}

func (m *AdaptiveModel) Zero() Cost { return m.base.Zero() }

func (m *AdaptiveModel) Accumulate(total Cost, c Cost) Cost { return m.base.Accumulate(total, c) }

func (m *AdaptiveModel) Explain(c Cost) string { return m.base.Explain(c) }

func (m *AdaptiveModel) ComputeCost(kind plan.Kind, data *plan.Value, children []Cost, ctx Context) (Cost, error) {
	c, err := m.base.ComputeCost(kind, data, children, ctx)
	if err != nil {
		return c, err
	}
	observed, ok := m.freshRowCount(ctx)
	if !ok {
		return c, nil
	}
	c.RowCount = observed
	if kind == plan.KindPhysicalScan {
		c.IO = observed
		c.Weighted = weighted(c.Compute, c.IO)
	}
	return c, nil
}
