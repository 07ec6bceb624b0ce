package query

// Builder accumulates query directives fluently. It is a persistent value:
// every method returns a new Builder and leaves the receiver untouched, so
// derived variants never alias each other.
type Builder struct {
	c Criteria
}

// New returns an empty builder.
func New() Builder { return Builder{} }

// From starts a builder from plain criteria.
func From(c Criteria) Builder { return Builder{c: c.clone()} }

func (b Builder) criteria() Criteria { return b.c }

// Criteria returns an independent copy of the accumulated directives.
func (b Builder) Criteria() Criteria { return b.c.clone() }

// Clone returns a structurally independent copy of b.
func (b Builder) Clone() Builder { return Builder{c: b.c.clone()} }

// Build compiles the accumulated directives. It is pure and may be called
// any number of times.
func (b Builder) Build() Params { return compile(b.c) }

func (b Builder) derive(fn func(c *Criteria)) Builder {
	c := b.c.clone()
	fn(&c)
	return Builder{c: c}
}

// WhereOp appends a filter with an explicit operator.
func (b Builder) WhereOp(field string, op Operator, value any) Builder {
	return b.derive(func(c *Criteria) {
		c.Filters = append(c.Filters, Filter{Field: field, Operator: op, Value: value})
	})
}

func (b Builder) Where(field string, value any) Builder { return b.WhereOp(field, OpEq, value) }

func (b Builder) WhereNot(field string, value any) Builder { return b.WhereOp(field, OpNeq, value) }

func (b Builder) WhereLt(field string, value any) Builder { return b.WhereOp(field, OpLt, value) }

func (b Builder) WhereLte(field string, value any) Builder { return b.WhereOp(field, OpLte, value) }

func (b Builder) WhereGt(field string, value any) Builder { return b.WhereOp(field, OpGt, value) }

func (b Builder) WhereGte(field string, value any) Builder { return b.WhereOp(field, OpGte, value) }

func (b Builder) WhereLike(field string, pattern string) Builder {
	return b.WhereOp(field, OpLike, pattern)
}

func (b Builder) WhereLikeLower(field string, pattern string) Builder {
	return b.WhereOp(field, OpLikeLower, pattern)
}

// WhereContains matches field case-insensitively against %value%.
func (b Builder) WhereContains(field string, value string) Builder {
	return b.WhereOp(field, OpLikeLower, "%"+value+"%")
}

// WhereStartsWith matches field case-insensitively against value%.
func (b Builder) WhereStartsWith(field string, value string) Builder {
	return b.WhereOp(field, OpLikeLower, value+"%")
}

// WhereEndsWith matches field case-insensitively against %value.
func (b Builder) WhereEndsWith(field string, value string) Builder {
	return b.WhereOp(field, OpLikeLower, "%"+value)
}

// WhereIn matches any of values. Slices are joined with commas on Build.
func (b Builder) WhereIn(field string, values any) Builder { return b.WhereOp(field, OpIn, values) }

func (b Builder) WhereNull(field string) Builder { return b.WhereOp(field, OpIsNull, nil) }

func (b Builder) WhereNotNull(field string) Builder { return b.WhereOp(field, OpIsNotNull, nil) }

// OrderBy appends a sort entry. Entries on the same field accumulate.
func (b Builder) OrderBy(field string, dir Direction) Builder {
	if dir == "" {
		dir = Asc
	}
	return b.derive(func(c *Criteria) {
		c.Sort = append(c.Sort, Sort{Field: field, Direction: dir})
	})
}

func (b Builder) OrderByAsc(field string) Builder { return b.OrderBy(field, Asc) }

func (b Builder) OrderByDesc(field string) Builder { return b.OrderBy(field, Desc) }

// Paginate sets the one-based page and its size.
func (b Builder) Paginate(page, pageSize int) Builder {
	return b.derive(func(c *Criteria) {
		c.Page = &page
		c.PageSize = &pageSize
	})
}

// Page sets only the page number; ranges are emitted once PageSize is set too.
func (b Builder) Page(page int) Builder {
	return b.derive(func(c *Criteria) { c.Page = &page })
}

// PageSize sets only the page size.
func (b Builder) PageSize(pageSize int) Builder {
	return b.derive(func(c *Criteria) { c.PageSize = &pageSize })
}

// With appends eager-loaded relations. Duplicates are kept.
func (b Builder) With(relations ...string) Builder {
	return b.derive(func(c *Criteria) { c.Includes = append(c.Includes, relations...) })
}

// Join appends joined relations. Duplicates are kept.
func (b Builder) Join(relations ...string) Builder {
	return b.derive(func(c *Criteria) { c.Join = append(c.Join, relations...) })
}

func (b Builder) GroupBy(fields ...string) Builder {
	return b.derive(func(c *Criteria) { c.GroupBy = append(c.GroupBy, fields...) })
}

// Count sets the count directive; an empty expression counts rows.
func (b Builder) Count(expression string) Builder {
	if expression == "" {
		expression = "*"
	}
	return b.derive(func(c *Criteria) { c.Count = expression })
}

// CountAs sets an aliased count directive, replacing any earlier one.
func (b Builder) CountAs(expression, alias string) Builder {
	if expression == "" {
		expression = "*"
	}
	return b.derive(func(c *Criteria) { c.Count = expression + " as " + alias })
}
