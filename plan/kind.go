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

// Package plan implements the uniform plan-node IR shared by logical,
// physical, and scalar-expression trees (spec.md §3 "Node kind", §9
// "Polymorphic plan nodes"). One structural type is tagged by a closed
// Kind enum; typed views in views.go are thin, storage-free adapters over
// it so callers get ergonomic accessors without a class hierarchy.
package plan

// Kind is the closed set of node kinds. Three disjoint subsets exist:
// logical, physical, and scalar-expression, plus two reserved kinds that
// never appear as ordinary plan content: GroupPlaceholder (only at rule
// input/output boundaries) and List (a variadic scalar container).
type Kind uint16

const (
	KindInvalid Kind = iota

	// Logical relational kinds.
	KindLogicalScan
	KindLogicalFilter
	KindLogicalJoin
	KindLogicalProjection
	KindLogicalAggregate
	KindLogicalSort

	// Physical relational kinds.
	KindPhysicalScan
	KindPhysicalFilter
	KindPhysicalNestedLoopJoin
	KindPhysicalHashJoin
	KindPhysicalProjection
	KindPhysicalAggregate
	KindPhysicalSort

	// Scalar-expression kinds.
	KindLiteral
	KindColumnRef
	KindBinOp
	KindUnaryOp
	KindFuncCall
	KindJSONExtract
	KindSortKey

	// Reserved kinds.
	KindGroupPlaceholder
	KindList

	kindSentinel
)

var kindNames = map[Kind]string{
	KindInvalid:                "Invalid",
	KindLogicalScan:            "LogicalScan",
	KindLogicalFilter:          "LogicalFilter",
	KindLogicalJoin:            "LogicalJoin",
	KindLogicalProjection:      "LogicalProjection",
	KindLogicalAggregate:       "LogicalAggregate",
	KindLogicalSort:            "LogicalSort",
	KindPhysicalScan:           "PhysicalScan",
	KindPhysicalFilter:         "PhysicalFilter",
	KindPhysicalNestedLoopJoin: "PhysicalNestedLoopJoin",
	KindPhysicalHashJoin:       "PhysicalHashJoin",
	KindPhysicalProjection:     "PhysicalProjection",
	KindPhysicalAggregate:      "PhysicalAggregate",
	KindPhysicalSort:           "PhysicalSort",
	KindLiteral:                "Literal",
	KindColumnRef:              "ColumnRef",
	KindBinOp:                  "BinOp",
	KindUnaryOp:                "UnaryOp",
	KindFuncCall:               "FuncCall",
	KindJSONExtract:            "JSONExtract",
	KindSortKey:                "SortKey",
	KindGroupPlaceholder:       "GroupPlaceholder",
	KindList:                   "List",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UnknownKind"
}

// IsLogical reports whether kind belongs to the logical relational subset.
func IsLogical(k Kind) bool {
	switch k {
	case KindLogicalScan, KindLogicalFilter, KindLogicalJoin, KindLogicalProjection,
		KindLogicalAggregate, KindLogicalSort:
		return true
	default:
		return false
	}
}

// IsPhysical reports whether kind belongs to the physical relational subset.
func IsPhysical(k Kind) bool {
	switch k {
	case KindPhysicalScan, KindPhysicalFilter, KindPhysicalNestedLoopJoin, KindPhysicalHashJoin,
		KindPhysicalProjection, KindPhysicalAggregate, KindPhysicalSort:
		return true
	default:
		return false
	}
}

// IsScalar reports whether kind belongs to the scalar-expression subset.
func IsScalar(k Kind) bool {
	switch k {
	case KindLiteral, KindColumnRef, KindBinOp, KindUnaryOp, KindFuncCall, KindJSONExtract, KindSortKey:
		return true
	default:
		return false
	}
}

// IsRelational reports whether kind is logical or physical (as opposed to
// scalar-expression or a reserved kind).
func IsRelational(k Kind) bool {
	return IsLogical(k) || IsPhysical(k)
}

// JoinType is the enum discriminant carried in a join node's Value payload.
// The matcher requires enum discriminants to participate in equality
// (spec.md §9 "Rule matcher expressiveness"); JoinType rides inside Value
// so ordinary memo-node structural equality covers it for free.
type JoinType uint8

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinSemi
	JoinAnti
)

func (j JoinType) String() string {
	switch j {
	case JoinInner:
		return "Inner"
	case JoinLeft:
		return "Left"
	case JoinRight:
		return "Right"
	case JoinFull:
		return "Full"
	case JoinSemi:
		return "Semi"
	case JoinAnti:
		return "Anti"
	default:
		return "UnknownJoinType"
	}
}

// BinOpKind is the enum discriminant carried in a BinOp node's Value payload.
type BinOpKind uint8

const (
	BinOpEq BinOpKind = iota
	BinOpNe
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpAnd
	BinOpOr
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
)

func (b BinOpKind) String() string {
	switch b {
	case BinOpEq:
		return "="
	case BinOpNe:
		return "<>"
	case BinOpLt:
		return "<"
	case BinOpLe:
		return "<="
	case BinOpGt:
		return ">"
	case BinOpGe:
		return ">="
	case BinOpAnd:
		return "AND"
	case BinOpOr:
		return "OR"
	case BinOpAdd:
		return "+"
	case BinOpSub:
		return "-"
	case BinOpMul:
		return "*"
	case BinOpDiv:
		return "/"
	default:
		return "?"
	}
}
