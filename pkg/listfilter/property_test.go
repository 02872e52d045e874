package listfilter_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-propdash/pkg/listfilter"
)

var searchable = []string{listfilter.FieldCustomer, listfilter.FieldProperty, listfilter.FieldID}

func genRecords() gopter.Gen {
	record := gopter.CombineGens(
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.OneConstOf("confirmed", "pending", "cancelled"),
	).Map(func(in []any) listfilter.Record {
		return listfilter.Record{
			ID:       in[0].(string),
			Customer: in[1].(string),
			Property: in[2].(string),
			Status:   in[3].(string),
		}
	})
	return gen.SliceOf(record)
}

func genQuery() gopter.Gen {
	return gopter.CombineGens(
		gen.OneGenOf(gen.Const(""), gen.AlphaString(), gen.Const("a")),
		gen.OneConstOf("", "all", "confirmed", "pending", "refunded"),
	).Map(func(in []any) listfilter.Query {
		return listfilter.Query{Text: in[0].(string), Status: in[1].(string)}
	})
}

// isSubsequence reports whether sub appears in full in order.
func isSubsequence(sub, full []listfilter.Record) bool {
	i := 0
	for _, r := range full {
		if i < len(sub) && sub[i] == r {
			i++
		}
	}
	return i == len(sub)
}

func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("output is an ordered subsequence", prop.ForAll(
		func(records []listfilter.Record, q listfilter.Query) bool {
			return isSubsequence(listfilter.Filter(records, q, searchable), records)
		},
		genRecords(), genQuery(),
	))

	properties.Property("empty text and all status is identity", prop.ForAll(
		func(records []listfilter.Record) bool {
			got := listfilter.Filter(records, listfilter.Query{Status: listfilter.StatusAll}, searchable)
			if len(got) != len(records) {
				return false
			}
			for i := range got {
				if got[i] != records[i] {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	properties.Property("unmatched status yields empty", prop.ForAll(
		func(records []listfilter.Record) bool {
			got := listfilter.Filter(records, listfilter.Query{Status: "refunded"}, searchable)
			return got != nil && len(got) == 0
		},
		genRecords(),
	))

	properties.Property("filter is deterministic", prop.ForAll(
		func(records []listfilter.Record, q listfilter.Query) bool {
			a := listfilter.Filter(records, q, searchable)
			b := listfilter.Filter(records, q, searchable)
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
		genRecords(), genQuery(),
	))

	properties.TestingRun(t)
}
