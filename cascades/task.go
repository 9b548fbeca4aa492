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

// Task is one unit of scheduler work (spec.md §4.2). Run executes the
// task against the optimizer's state and returns the tasks it enqueues,
// in the order they are meant to execute -- the scheduler is responsible
// for translating that into correct LIFO stack pushes.
type Task interface {
	Run(o *Optimizer) ([]Task, error)
}

type firedKey struct {
	expr ExprId
	rule int
}
