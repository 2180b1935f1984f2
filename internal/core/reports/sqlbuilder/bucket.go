package sqlbuilder

import (
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// OtherLabel is the catch-all label of a bucket without a trailing "-" group.
const OtherLabel = "Other"

var bucketPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// BucketGroup maps a set of raw values to one label.
type BucketGroup struct {
	Values []string
	Label  string
}

// Bucket groups the raw values of a column into labels, e.g.
//
//	currency(USD=Dollar|BRL,GBP,EUR=Other currencies|-)
//
// A bare column name is an identity bucket with no groups.
type Bucket struct {
	Column   string
	Groups   []BucketGroup
	HasOther bool
}

// ParseBucket parses a dimension declaration into a Bucket.
func ParseBucket(input string) (*Bucket, error) {
	trimmed := strings.TrimSpace(input)
	if IsIdentifier(trimmed) {
		return &Bucket{Column: trimmed}, nil
	}

	m := bucketPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, bucketError(input, trimmed, "expected column or column(groups)")
	}

	bucket := &Bucket{Column: m[1], HasOther: true}
	parts := strings.Split(m[2], "|")
	if strings.TrimSpace(parts[len(parts)-1]) == "-" {
		bucket.HasOther = false
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return nil, bucketError(input, m[2], "no group before '-'")
	}

	for _, part := range parts {
		group, err := parseGroup(input, part)
		if err != nil {
			return nil, err
		}
		bucket.Groups = append(bucket.Groups, group)
	}
	return bucket, nil
}

func parseGroup(input, part string) (BucketGroup, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return BucketGroup{}, bucketError(input, "", "empty group")
	}

	values, label := part, part
	if idx := strings.Index(part, "="); idx >= 0 {
		values = strings.TrimSpace(part[:idx])
		label = strings.TrimSpace(part[idx+1:])
	}
	if label == "" {
		return BucketGroup{}, bucketError(input, part, "empty label")
	}

	group := BucketGroup{Label: label}
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			return BucketGroup{}, bucketError(input, part, "empty value")
		}
		group.Values = append(group.Values, value)
	}
	return group, nil
}

// IsIdentity reports whether the bucket passes the column through unchanged.
func (b *Bucket) IsIdentity() bool {
	return len(b.Groups) == 0
}

// Expr renders the bucket as a select-list item named after the column. Branches keep
// declaration order so the first group listing a value wins.
func (b *Bucket) Expr() sq.Sqlizer {
	column := QuoteIdentifier(b.Column)
	if b.IsIdentity() {
		return sq.Expr(column)
	}

	expr := sq.Case()
	for _, group := range b.Groups {
		for _, value := range group.Values {
			expr = expr.When(sq.Eq{column: value}, sq.Expr("?", group.Label))
		}
	}
	if b.HasOther {
		expr = expr.Else(sq.Expr("?", OtherLabel))
	}
	return sq.Alias(expr, column)
}

// Condition keeps the rows that fall into a group. It is nil when every row gets a label,
// that is for identity buckets and buckets with the catch-all group.
func (b *Bucket) Condition() sq.Sqlizer {
	if b.IsIdentity() || b.HasOther {
		return nil
	}

	var values []string
	for _, group := range b.Groups {
		for _, value := range group.Values {
			if !contains(values, value) {
				values = append(values, value)
			}
		}
	}
	return sq.Eq{QuoteIdentifier(b.Column): values}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
