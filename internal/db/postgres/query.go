package postgres

import (
	"fmt"
	"strings"

	"Vidtube/internal/core/feeds"
)

type columnType int

const (
	colText columnType = iota
	colArray
	colOther
)

type column struct {
	expr string
	typ  columnType
}

// columnMap maps feed field names to SQL expressions. Only mapped fields can
// reach a query, which keeps dynamic WHERE and ORDER BY clauses injection-free.
type columnMap map[string]column

func textCol(expr string) column { return column{expr: expr, typ: colText} }
func arrayCol(expr string) column { return column{expr: expr, typ: colArray} }
func plainCol(expr string) column { return column{expr: expr, typ: colOther} }

// compiledPlan is a WHERE clause, ORDER BY clause and the positional
// arguments they reference
type compiledPlan struct {
	where   string
	orderBy string
	args    []any
}

// page appends LIMIT and OFFSET placeholders and returns the final args
func (c *compiledPlan) page(p *feeds.Plan) (string, []any) {
	n := len(c.args)
	args := append(c.args, p.Limit(), p.Offset())
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

// compilePlan translates a feed plan into SQL. Sorting always ends with the
// id column so equal sort keys still page deterministically.
func compilePlan(p *feeds.Plan, cols columnMap, idExpr string) (*compiledPlan, error) {
	out := &compiledPlan{}

	conds := make([]string, 0, len(p.Filters))
	for _, f := range p.Filters {
		cond, err := out.filter(f, cols)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	if len(conds) > 0 {
		out.where = "WHERE " + strings.Join(conds, " AND ")
	}

	col, ok := cols[p.Sort.Field]
	if !ok {
		return nil, fmt.Errorf("unmapped sort field %q", p.Sort.Field)
	}
	key := col.expr
	switch {
	case p.Sort.Size:
		key = "cardinality(" + col.expr + ")"
	case col.typ == colText:
		key = "LOWER(" + col.expr + ")"
	}
	dir := "ASC"
	if p.Direction == feeds.Desc {
		dir = "DESC"
	}
	out.orderBy = fmt.Sprintf("ORDER BY %s %s, %s %s", key, dir, idExpr, dir)

	return out, nil
}

func (c *compiledPlan) bind(v any) string {
	c.args = append(c.args, v)
	return fmt.Sprintf("$%d", len(c.args))
}

func (c *compiledPlan) filter(f feeds.Filter, cols columnMap) (string, error) {
	if f.IsAny() {
		alts := make([]string, 0, len(f.Any))
		for _, sub := range f.Any {
			cond, err := c.filter(sub, cols)
			if err != nil {
				return "", err
			}
			alts = append(alts, cond)
		}
		return "(" + strings.Join(alts, " OR ") + ")", nil
	}

	col, ok := cols[f.Field]
	if !ok {
		return "", fmt.Errorf("unmapped filter field %q", f.Field)
	}

	switch f.Op {
	case feeds.OpEq:
		if col.typ == colText {
			return fmt.Sprintf("LOWER(%s) = LOWER(%s)", col.expr, c.bind(f.Value)), nil
		}
		return fmt.Sprintf("%s::text = %s", col.expr, c.bind(f.Value)), nil
	case feeds.OpContains:
		return fmt.Sprintf("%s ILIKE %s", col.expr, c.bind(likePattern(f.Value))), nil
	case feeds.OpHasTag:
		return fmt.Sprintf("LOWER(%s) = ANY(%s)", c.bind(f.Value), col.expr), nil
	case feeds.OpTagContains:
		return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS t(tag) WHERE t.tag ILIKE %s)", col.expr, c.bind(likePattern(f.Value))), nil
	}
	return "", fmt.Errorf("unsupported filter op %q", f.Op)
}

// likePattern wraps v for a substring ILIKE, escaping the wildcards it contains
func likePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(v) + "%"
}
