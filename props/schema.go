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

package props

import (
	"fmt"

	"github.com/dolthub/jsonpath"

	"github.com/dolthub/optd/catalog"
	"github.com/dolthub/optd/plan"
)

// SchemaBuilder derives the output schema of every relational group from
// its children's schemas and the host catalog, consulted only for Scan
// nodes (spec.md §4.1, §6: "The property builder consults the catalog
// when deriving the schema of a Scan").
type SchemaBuilder struct {
	Catalog catalog.Catalog
}

func NewSchemaBuilder(cat catalog.Catalog) *SchemaBuilder {
	return &SchemaBuilder{Catalog: cat}
}

func (b *SchemaBuilder) Name() string { return "schema" }

func (b *SchemaBuilder) Build(kind plan.Kind, data *plan.Value, rawChildren []*plan.Node, childProps []interface{}) (interface{}, error) {
	switch kind {
	case plan.KindLogicalScan, plan.KindPhysicalScan:
		table := data.String()
		schema, err := b.Catalog.Get(table)
		if err != nil {
			return nil, fmt.Errorf("schema property: %w", err)
		}
		return schema, nil

	case plan.KindLogicalFilter, plan.KindPhysicalFilter:
		return schemaOf(childProps, 0), nil

	case plan.KindLogicalJoin, plan.KindPhysicalNestedLoopJoin, plan.KindPhysicalHashJoin:
		left := schemaOf(childProps, 0)
		right := schemaOf(childProps, 1)
		out := make(catalog.Schema, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out, nil

	case plan.KindLogicalProjection, plan.KindPhysicalProjection:
		childSchema := schemaOf(childProps, 0)
		var exprs []*plan.Node
		if len(rawChildren) > 1 {
			exprs = rawChildren[1].Children
		}
		out := make(catalog.Schema, 0, len(exprs))
		for i, e := range exprs {
			out = append(out, projectedColumn(i, e, childSchema))
		}
		return out, nil

	case plan.KindLogicalAggregate, plan.KindPhysicalAggregate:
		childSchema := schemaOf(childProps, 0)
		var groupBy []*plan.Node
		if len(rawChildren) > 1 {
			groupBy = rawChildren[1].Children
		}
		out := make(catalog.Schema, 0, len(groupBy))
		for i, e := range groupBy {
			out = append(out, projectedColumn(i, e, childSchema))
		}
		var aggs []*plan.Node
		if len(rawChildren) > 2 {
			aggs = rawChildren[2].Children
		}
		for i := range aggs {
			out = append(out, catalog.Column{Name: fmt.Sprintf("agg%d", i), Type: catalog.ColumnTypeFloat})
		}
		return out, nil

	case plan.KindLogicalSort, plan.KindPhysicalSort:
		return schemaOf(childProps, 0), nil

	case plan.KindJSONExtract:
		if len(rawChildren) > 0 {
			// validated at build time; malformed paths surface as an error
			// the memo wraps into ErrInvalidBinding.
		}
		if data != nil {
			if _, err := jsonpath.Compile(data.String()); err != nil {
				return nil, fmt.Errorf("invalid JSON path %q: %w", data.String(), err)
			}
		}
		return catalog.ColumnTypeJSON, nil

	case plan.KindColumnRef, plan.KindLiteral, plan.KindBinOp, plan.KindUnaryOp, plan.KindFuncCall, plan.KindSortKey, plan.KindList:
		return nil, nil

	default:
		return nil, nil
	}
}

func schemaOf(childProps []interface{}, i int) catalog.Schema {
	if i >= len(childProps) || childProps[i] == nil {
		return nil
	}
	s, _ := childProps[i].(catalog.Schema)
	return s
}

// projectedColumn names and types the i'th projected expression. A bare
// ColumnRef propagates the referenced column's name and type from the
// child schema; any other expression gets a synthesized name and an
// unresolved type, since full scalar type-inference is out of scope
// (spec.md Non-goals: "full physical-property enforcement").
func projectedColumn(i int, expr *plan.Node, childSchema catalog.Schema) catalog.Column {
	if expr != nil && expr.Kind == plan.KindColumnRef {
		idx := plan.AsColumnRef(expr).Index()
		if idx >= 0 && idx < len(childSchema) {
			return childSchema[idx]
		}
	}
	return catalog.Column{Name: fmt.Sprintf("_col%d", i), Type: catalog.ColumnTypeUnknown}
}
