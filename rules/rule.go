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

package rules

import "github.com/dolthub/optd/plan"

// Rule is a matcher + rewriter pair, transformation (logical->logical)
// or implementation (logical->physical) (spec.md §9 "Rule"). Apply must
// be pure with respect to memo state: it reads properties only through
// View, and returns fresh node values for the engine to insert into the
// matched expression's group. Returning no nodes declines the match.
type Rule interface {
	Name() string
	Matcher() *Pattern
	IsImplementationRule() bool
	Apply(view View, b Binding) ([]*plan.Node, error)
}
