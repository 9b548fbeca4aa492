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

// Package cascades implements the task-driven search scheduler and the
// public optimizer façade (spec.md §4.2, §4.5). It is grounded on the
// teacher's server.Config / server.Server pairing: a small, struct-typed
// knob bag plus a stateful driver that owns a *logrus.Entry and an
// otel/trace.Tracer, generalized from "run one SQL server" to "run one
// optimization session."
package cascades

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Default environment knobs (spec.md §6 "Environment knobs").
const (
	DefaultPartialExploreIter  = 1 << 20
	DefaultPartialExploreSpace = 1 << 10
	DefaultAdaptiveDecay       = 5
)

// AdaptivePolicy selects how winners (and optionally the whole memo) are
// reset between adaptive re-optimization iterations (spec.md §4.5).
type AdaptivePolicy int

const (
	// StepClearWinner keeps the memo (and its exploration work) but
	// drops every winner, forcing OptimizeInputs to recost every group.
	StepClearWinner AdaptivePolicy = iota
	// StepClear discards the entire memo; the next Optimize call starts
	// a fresh search from the inserted root plan.
	StepClear
)

// Config mirrors the teacher's server.Config shape: ambient logging and
// tracing plus the numeric knobs spec.md §6 names.
type Config struct {
	Logger *logrus.Entry
	Tracer trace.Tracer

	// PartialExploreIter bounds the number of tasks executed before
	// budget_used is raised (spec.md §4.2 "Budget").
	PartialExploreIter uint64
	// PartialExploreSpace is a soft cap on groups/expressions: Dump
	// annotates its output with a warning once the memo's group count
	// exceeds it, but nothing gates search on it (spec.md §6).
	PartialExploreSpace uint64
	// AdaptiveDecay is the number of iterations an observation remains
	// fresh (spec.md §4.4 "Adaptive cost model").
	AdaptiveDecay uint32

	EnableAdaptive  bool
	AdaptivePolicy  AdaptivePolicy
	SkipFailedRules bool
}

// WithDefaults fills unset numeric fields with spec.md §6's defaults and
// installs a standard logger if none was supplied.
func (c Config) WithDefaults() Config {
	if c.PartialExploreIter == 0 {
		c.PartialExploreIter = DefaultPartialExploreIter
	}
	if c.PartialExploreSpace == 0 {
		c.PartialExploreSpace = DefaultPartialExploreSpace
	}
	if c.AdaptiveDecay == 0 {
		c.AdaptiveDecay = DefaultAdaptiveDecay
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return c
}
