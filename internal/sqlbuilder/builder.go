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

// Package sqlbuilder turns declarative column/filter specifications into
// parameterized SQL statements. Values are always bound as positional
// parameters ($1..$N); table names, column names, operators, and ORDER BY
// expressions are trusted server-controlled identifiers and must never be
// taken from request input.
package sqlbuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpec is returned when a statement specification would
// produce an empty or malformed statement body. It indicates a
// programming error in the caller, not bad user input.
var ErrInvalidSpec = errors.New("sqlbuilder: invalid statement spec")

// Now is a sentinel field value rendered as the database engine's
// current-timestamp expression (NOW()) instead of a bound parameter.
var Now = nowSentinel{}

type nowSentinel struct{}

// Field is one column/value pair in an INSERT or UPDATE.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered field list. Column order in the generated
// statement follows slice order.
type Fields []Field

// Set appends a field, preserving insertion order.
func (f Fields) Set(name string, value any) Fields {
	return append(f, Field{Name: name, Value: value})
}

// Has reports whether a field with the given name is present.
func (f Fields) Has(name string) bool {
	for _, fl := range f {
		if fl.Name == name {
			return true
		}
	}
	return false
}

// Options controls the shape of a SELECT statement.
type Options struct {
	// Columns to project; nil or empty selects all columns.
	Columns []string
	// Where conditions, conjoined with AND.
	Where []Cond
	// OrderBy is inserted verbatim (may include ASC/DESC). Must be a
	// server-controlled expression validated against a column allow-list.
	OrderBy string
	// Limit and Offset append LIMIT/OFFSET literally when positive.
	Limit  int
	Offset int
}

// Select builds a SELECT statement and its positional argument list.
func Select(table string, opts Options) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("%w: empty table name", ErrInvalidSpec)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(opts.Columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(opts.Columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	var args []any
	renderWhere(&sb, &args, opts.Where)

	if opts.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(opts.OrderBy)
	}
	if opts.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", opts.Offset)
	}

	return sb.String(), args, nil
}

// Insert builds an INSERT statement. Column order follows the field
// list order; every value becomes a placeholder except the Now
// sentinel, which renders as NOW().
func Insert(table string, fields Fields) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("%w: empty table name", ErrInvalidSpec)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: insert into %s with no columns", ErrInvalidSpec, table)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
	}
	sb.WriteString(") VALUES (")

	var args []any
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		if _, isNow := f.Value.(nowSentinel); isNow {
			sb.WriteString("NOW()")
			continue
		}
		args = append(args, f.Value)
		fmt.Fprintf(&sb, "$%d", len(args))
	}
	sb.WriteString(")")

	return sb.String(), args, nil
}

// Update builds an UPDATE statement. The SET list follows field order;
// the WHERE clause supports the full condition set.
func Update(table string, fields Fields, where []Cond) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("%w: empty table name", ErrInvalidSpec)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: update %s with no fields", ErrInvalidSpec, table)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")

	var args []any
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		if _, isNow := f.Value.(nowSentinel); isNow {
			sb.WriteString(f.Name)
			sb.WriteString(" = NOW()")
			continue
		}
		args = append(args, f.Value)
		fmt.Fprintf(&sb, "%s = $%d", f.Name, len(args))
	}

	renderWhere(&sb, &args, where)

	return sb.String(), args, nil
}

// Delete builds a DELETE statement with the same WHERE semantics as Update.
func Delete(table string, where []Cond) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("%w: empty table name", ErrInvalidSpec)
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(table)

	var args []any
	renderWhere(&sb, &args, where)

	return sb.String(), args, nil
}
