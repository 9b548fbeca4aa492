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

import errorkit "gopkg.in/src-d/go-errors.v1"

// ErrRuleFailed wraps a rule's apply error when skip_failed_rules is
// false (spec.md §7 "RuleError": "abort optimization").
var ErrRuleFailed = errorkit.NewKind("cascades: rule %q failed on expr %d: %s")
