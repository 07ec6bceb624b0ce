package query

// Operator is a filter comparison understood by the backend query parser.
type Operator string

const (
	OpEq        Operator = "eq"
	OpNeq       Operator = "neq"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpLike      Operator = "like"
	OpLikeLower Operator = "likeLower"
	OpIsNull    Operator = "isNull"
	OpIsNotNull Operator = "isNotNull"
	OpIn        Operator = "in"
)

// Operators lists the closed operator set.
func Operators() []Operator {
	return []Operator{OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte, OpLike, OpLikeLower, OpIsNull, OpIsNotNull, OpIn}
}

// Valid reports whether op belongs to the operator set.
func (op Operator) Valid() bool {
	for _, known := range Operators() {
		if op == known {
			return true
		}
	}
	return false
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter is a single field comparison. Value is ignored for the null
// operators.
type Filter struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Sort orders results by Field.
type Sort struct {
	Field     string    `json:"field" yaml:"field"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Criteria is the plain form of a query intent. Call sites may pass it to a
// manager directly instead of a Builder.
type Criteria struct {
	Page     *int     `json:"page,omitempty" yaml:"page,omitempty"`
	PageSize *int     `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
	Filters  []Filter `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort     []Sort   `json:"sort,omitempty" yaml:"sort,omitempty"`
	Includes []string `json:"includes,omitempty" yaml:"includes,omitempty"`
	Join     []string `json:"join,omitempty" yaml:"join,omitempty"`
	GroupBy  []string `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	Count    string   `json:"count,omitempty" yaml:"count,omitempty"`
}

// Input is a Builder, a Criteria value or already compiled Params.
type Input interface {
	criteria() Criteria
}

func (c Criteria) criteria() Criteria { return c }

// Build compiles the criteria to wire parameters.
func (c Criteria) Build() Params { return compile(c) }

func (c Criteria) clone() Criteria {
	out := Criteria{Count: c.Count}
	if c.Page != nil {
		p := *c.Page
		out.Page = &p
	}
	if c.PageSize != nil {
		p := *c.PageSize
		out.PageSize = &p
	}
	out.Filters = append([]Filter(nil), c.Filters...)
	out.Sort = append([]Sort(nil), c.Sort...)
	out.Includes = append([]string(nil), c.Includes...)
	out.Join = append([]string(nil), c.Join...)
	out.GroupBy = append([]string(nil), c.GroupBy...)
	return out
}

// Is reports whether v is a Builder, as opposed to plain Criteria or any
// other value.
func Is(v any) bool {
	switch v.(type) {
	case Builder, *Builder:
		return true
	default:
		return false
	}
}

// Compile builds parameters from either input form. A nil input compiles to
// an empty parameter set.
func Compile(in Input) Params {
	switch v := in.(type) {
	case nil:
		return Params{}
	case Builder:
		return v.Build()
	case *Builder:
		if v == nil {
			return Params{}
		}
		return v.Build()
	case Params:
		return v.Clone()
	}
	return compile(in.criteria())
}
