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

package memo

import "gopkg.in/src-d/go-errors.v1"

// Sentinel error kinds, declared with gopkg.in/src-d/go-errors.v1 exactly as
// the wider go-mysql-server codebase declares its sql.Err* kinds. See
// spec.md §7 "Error handling design".

// ErrNoWinner is raised by best-plan extraction when a reachable group has
// no realizable (non-impossible) winner.
var ErrNoWinner = errors.NewKind("no winner for group %d: group has no realizable physical plan")

// ErrInvalidBinding is raised when a rule's Apply produced a structurally
// invalid replacement (e.g. a group placeholder where a concrete node was
// required). This is a programming error and is not retried.
var ErrInvalidBinding = errors.NewKind("invalid binding produced by rule %q on expression %d: %s")

// ErrUnknownExpr / ErrUnknownGroup are raised by lookups of ids that were
// never allocated by this memo; spec.md §4.1 treats these as programming
// errors, not recoverable failures.
var ErrUnknownExpr = errors.NewKind("unknown expression id %d")
var ErrUnknownGroup = errors.NewKind("unknown group id %d")
