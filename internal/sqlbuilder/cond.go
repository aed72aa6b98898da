// Copyright 2026 The ContactDesk Authors
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

package sqlbuilder

import (
	"fmt"
	"strings"
)

// Cond is a single WHERE condition. Column names and operators are
// server-controlled identifiers; only values are bound as parameters.
type Cond interface {
	// render appends the SQL fragment for this condition to sb and the
	// bound values to args, numbering placeholders from len(args)+1.
	render(sb *strings.Builder, args *[]any)
}

type eqCond struct {
	col string
	val any
}

type inCond struct {
	col  string
	vals []any
}

type isNullCond struct {
	col string
}

type compareCond struct {
	col string
	op  string
	val any
}

type anyCond struct {
	conds []Cond
}

// Eq matches rows where col equals val.
func Eq(col string, val any) Cond { return eqCond{col: col, val: val} }

// In matches rows where col is any of vals. An empty vals list renders
// a clause that matches nothing (1 = 0) rather than invalid SQL.
func In(col string, vals ...any) Cond { return inCond{col: col, vals: vals} }

// IsNull matches rows where col is NULL. Binds no parameter.
func IsNull(col string) Cond { return isNullCond{col: col} }

// Compare matches rows where `col op val` holds, for an arbitrary
// binary operator such as ">=" or "LIKE".
func Compare(col, op string, val any) Cond { return compareCond{col: col, op: op, val: val} }

// Like matches rows where col contains term, case-insensitively
// (two-sided wildcard via ILIKE).
func Like(col, term string) Cond {
	return compareCond{col: col, op: "ILIKE", val: "%" + term + "%"}
}

// Any groups conditions with OR. The group is parenthesized so it
// composes with the surrounding AND conjunction.
func Any(conds ...Cond) Cond { return anyCond{conds: conds} }

func (c eqCond) render(sb *strings.Builder, args *[]any) {
	*args = append(*args, c.val)
	fmt.Fprintf(sb, "%s = $%d", c.col, len(*args))
}

func (c inCond) render(sb *strings.Builder, args *[]any) {
	if len(c.vals) == 0 {
		sb.WriteString("1 = 0")
		return
	}
	sb.WriteString(c.col)
	sb.WriteString(" IN (")
	for i, v := range c.vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		*args = append(*args, v)
		fmt.Fprintf(sb, "$%d", len(*args))
	}
	sb.WriteString(")")
}

func (c isNullCond) render(sb *strings.Builder, args *[]any) {
	sb.WriteString(c.col)
	sb.WriteString(" IS NULL")
}

func (c compareCond) render(sb *strings.Builder, args *[]any) {
	*args = append(*args, c.val)
	fmt.Fprintf(sb, "%s %s $%d", c.col, c.op, len(*args))
}

func (c anyCond) render(sb *strings.Builder, args *[]any) {
	if len(c.conds) == 0 {
		sb.WriteString("1 = 0")
		return
	}
	sb.WriteString("(")
	for i, inner := range c.conds {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		inner.render(sb, args)
	}
	sb.WriteString(")")
}

// renderWhere writes a WHERE clause conjoining conds with AND.
// Writes nothing when conds is empty.
func renderWhere(sb *strings.Builder, args *[]any, conds []Cond) {
	if len(conds) == 0 {
		return
	}
	sb.WriteString(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		c.render(sb, args)
	}
}
