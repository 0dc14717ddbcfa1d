package cli

import (
	"cmp"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/collectionize/internal/collection"
)

// Ranks of a sort value. Lower ranks sort first.
const (
	rankNumber = iota
	rankString
	rankOther
	rankMissing
)

// fieldOrder orders records by one field. Numbers compare by value and
// strings with the root Unicode collation, so "émile" sorts between "adam"
// and "Zoe". Numbers come before strings; records without the field and
// empty slots come last.
func fieldOrder(field string) func(a, b collection.Record) int {
	col := collate.New(language.Und)

	return func(a, b collection.Record) int {
		va, ra := sortValue(a, field)
		vb, rb := sortValue(b, field)
		if ra != rb {
			return cmp.Compare(ra, rb)
		}
		switch ra {
		case rankNumber:
			return cmp.Compare(va.(float64), vb.(float64))
		case rankString:
			return col.CompareString(va.(string), vb.(string))
		}
		return 0
	}
}

func sortValue(rec collection.Record, field string) (any, int) {
	v, ok := rec[field]
	if !ok || v == nil {
		return nil, rankMissing
	}
	if f, ok := collection.Number(v); ok {
		return f, rankNumber
	}
	if s, ok := v.(string); ok {
		return s, rankString
	}
	return nil, rankOther
}
