package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"currency",
			`"currency"`,
		},
		{
			"currency(USD)",
			`(CASE WHEN "currency" = 'USD' THEN 'USD' ELSE 'Other' END) AS "currency"`,
		},
		{
			"currency(USD|BRL,GBP)",
			`(CASE WHEN "currency" = 'USD' THEN 'USD'` +
				` WHEN "currency" = 'BRL' THEN 'BRL,GBP'` +
				` WHEN "currency" = 'GBP' THEN 'BRL,GBP'` +
				` ELSE 'Other' END) AS "currency"`,
		},
		{
			"currency(USD=Group 1|BRL,GBP,EUR=Group 2, with Europe)",
			`(CASE WHEN "currency" = 'USD' THEN 'Group 1'` +
				` WHEN "currency" = 'BRL' THEN 'Group 2, with Europe'` +
				` WHEN "currency" = 'GBP' THEN 'Group 2, with Europe'` +
				` WHEN "currency" = 'EUR' THEN 'Group 2, with Europe'` +
				` ELSE 'Other' END) AS "currency"`,
		},
		{
			"currency_with_underscore(USD|EUR|-)",
			`(CASE WHEN "currency_with_underscore" = 'USD' THEN 'USD'` +
				` WHEN "currency_with_underscore" = 'EUR' THEN 'EUR'` +
				` END) AS "currency_with_underscore"`,
		},
		{
			"name(O'Brien=Irish)",
			`(CASE WHEN "name" = 'O''Brien' THEN 'Irish' ELSE 'Other' END) AS "name"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bucket, err := ParseBucket(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Render(bucket.Expr()))
		})
	}
}

func TestBucketBindsValuesAndLabels(t *testing.T) {
	bucket, err := ParseBucket("currency(USD=Dollar|-)")
	require.NoError(t, err)

	query, args, err := bucket.Expr().ToSql()
	require.NoError(t, err)
	assert.Equal(t, `(CASE WHEN "currency" = ? THEN ? END) AS "currency"`, query)
	assert.Equal(t, []interface{}{"USD", "Dollar"}, args)
}

func TestBucketWithoutCatchAll(t *testing.T) {
	bucket, err := ParseBucket("currency(USD|EUR,USD|-)")
	require.NoError(t, err)

	assert.False(t, bucket.HasOther)
	assert.NotContains(t, Render(bucket.Expr()), "ELSE")

	require.NotNil(t, bucket.Condition())
	assert.Equal(t, `"currency" IN ('USD','EUR')`, Render(bucket.Condition()))
}

func TestBucketConditionIsNilWhenEveryRowIsLabelled(t *testing.T) {
	for _, input := range []string{"currency", "currency(USD|EUR)"} {
		bucket, err := ParseBucket(input)
		require.NoError(t, err)
		assert.Nil(t, bucket.Condition(), input)
	}
}

func TestBucketFirstGroupWins(t *testing.T) {
	bucket, err := ParseBucket("currency(USD=A|USD,EUR=B)")
	require.NoError(t, err)

	assert.Equal(t,
		`(CASE WHEN "currency" = 'USD' THEN 'A' WHEN "currency" = 'USD' THEN 'B' WHEN "currency" = 'EUR' THEN 'B' ELSE 'Other' END) AS "currency"`,
		Render(bucket.Expr()))
}

func TestBucketIdentity(t *testing.T) {
	bucket, err := ParseBucket("currency")
	require.NoError(t, err)
	assert.True(t, bucket.IsIdentity())
	assert.Equal(t, "currency", bucket.Column)
}

func TestParseBucketErrors(t *testing.T) {
	for _, input := range []string{
		"currency(",
		"currency()",
		"currency(-)",
		"currency(USD||EUR)",
		"currency(USD,)",
		"currency(USD=)",
		"bad column(USD)",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseBucket(input)
			require.Error(t, err)

			parseErr, ok := err.(*ParseError)
			require.True(t, ok)
			assert.Equal(t, "bucket", parseErr.Kind)
		})
	}
}
