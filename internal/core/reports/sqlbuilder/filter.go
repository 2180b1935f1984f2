package sqlbuilder

import (
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
)

// Operator is a comparison operator of the filter language.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpLike           Operator = "~"
	OpNotLike        Operator = "!~"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
)

// Two-character operators come first so that "!=" never matches as "!" + "=".
var operators = []Operator{
	OpNotEqual,
	OpNotLike,
	OpGreaterOrEqual,
	OpLessOrEqual,
	OpEqual,
	OpLike,
	OpGreater,
	OpLess,
}

// condition compares column against a bound value
func (o Operator) condition(column, value string) sq.Sqlizer {
	switch o {
	case OpNotEqual:
		return sq.NotEq{column: value}
	case OpLike:
		return sq.Like{column: value}
	case OpNotLike:
		return sq.NotLike{column: value}
	case OpGreaterOrEqual:
		return sq.GtOrEq{column: value}
	case OpLessOrEqual:
		return sq.LtOrEq{column: value}
	case OpGreater:
		return sq.Gt{column: value}
	case OpLess:
		return sq.Lt{column: value}
	default:
		return sq.Eq{column: value}
	}
}

// maxConjunctions bounds the disjunctive normal form expansion.
const maxConjunctions = 256

// Node is a boolean filter tree: a Predicate, an And or an Or. Values are bound as
// placeholder arguments.
type Node interface {
	sq.Sqlizer
	isNode()
}

// Predicate compares one column against a literal value.
type Predicate struct {
	Column   string
	Operator Operator
	Value    string
}

// And is satisfied when every child is.
type And struct {
	Children []Node
}

// Or is satisfied when any child is.
type Or struct {
	Children []Node
}

func (Predicate) isNode() {}
func (And) isNode()       {}
func (Or) isNode()        {}

func (p Predicate) ToSql() (string, []interface{}, error) {
	return p.Operator.condition(QuoteIdentifier(p.Column), p.Value).ToSql()
}

func (a And) ToSql() (string, []interface{}, error) {
	if len(a.Children) == 1 {
		return a.Children[0].ToSql()
	}
	return sq.And(sqlizers(a.Children)).ToSql()
}

func (o Or) ToSql() (string, []interface{}, error) {
	if len(o.Children) == 1 {
		return o.Children[0].ToSql()
	}
	return sq.Or(sqlizers(o.Children)).ToSql()
}

func sqlizers(children []Node) []sq.Sqlizer {
	out := make([]sq.Sqlizer, len(children))
	for i, child := range children {
		out[i] = child
	}
	return out
}

// conjunction is one term of a disjunctive normal form.
type conjunction []Predicate

// Canonicalize rewrites node into disjunctive normal form: a single predicate,
// an And of predicates, or an Or of those. Duplicates are dropped and every level
// is ordered by rendered text, so equivalent inputs render to identical SQL.
func Canonicalize(node Node) (Node, error) {
	terms, err := toDNF(node)
	if err != nil {
		return nil, err
	}

	byText := make(map[string]Node, len(terms))
	for _, term := range terms {
		canonical := canonicalTerm(term)
		byText[Render(canonical)] = canonical
	}

	children := sortedByText(byText)
	if len(children) == 1 {
		return children[0], nil
	}
	return Or{Children: children}, nil
}

func toDNF(node Node) ([]conjunction, error) {
	switch n := node.(type) {
	case Predicate:
		return []conjunction{{n}}, nil

	case Or:
		var out []conjunction
		for _, child := range n.Children {
			terms, err := toDNF(child)
			if err != nil {
				return nil, err
			}
			out = append(out, terms...)
			if len(out) > maxConjunctions {
				return nil, tooComplex(node)
			}
		}
		return out, nil

	case And:
		out := []conjunction{{}}
		for _, child := range n.Children {
			terms, err := toDNF(child)
			if err != nil {
				return nil, err
			}
			if len(out)*len(terms) > maxConjunctions {
				return nil, tooComplex(node)
			}
			next := make([]conjunction, 0, len(out)*len(terms))
			for _, left := range out {
				for _, right := range terms {
					merged := make(conjunction, 0, len(left)+len(right))
					merged = append(merged, left...)
					merged = append(merged, right...)
					next = append(next, merged)
				}
			}
			out = next
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported filter node %T", node)
	}
}

func tooComplex(node Node) error {
	return filterError(Render(node), "", fmt.Sprintf("expression expands to more than %d terms", maxConjunctions))
}

func canonicalTerm(term conjunction) Node {
	byText := make(map[string]Node, len(term))
	for _, predicate := range term {
		byText[Render(predicate)] = predicate
	}

	children := sortedByText(byText)
	if len(children) == 1 {
		return children[0]
	}
	return And{Children: children}
}

func sortedByText(byText map[string]Node) []Node {
	keys := make([]string, 0, len(byText))
	for key := range byText {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	nodes := make([]Node, len(keys))
	for i, key := range keys {
		nodes[i] = byText[key]
	}
	return nodes
}

// CombineFilters parses every expression, ANDs them together and returns the canonical tree.
// It returns nil when no expression is given.
func CombineFilters(expressions []string) (Node, error) {
	if len(expressions) == 0 {
		return nil, nil
	}

	parsed := make([]Node, 0, len(expressions))
	for _, expression := range expressions {
		node, err := ParseFilter(expression)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, node)
	}

	if len(parsed) == 1 {
		return Canonicalize(parsed[0])
	}
	return Canonicalize(And{Children: parsed})
}
