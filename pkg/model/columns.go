// pkg/model/columns.go
package model

import "strings"

// Canonical column names shared by the pipeline stages.
const (
	ColProductName    = "product_name"
	ColBrandName      = "brand_name"
	ColLovesCount     = "loves_count"
	ColReviews        = "reviews"
	ColRating         = "rating"
	ColSize           = "size"
	ColSizeML         = "size_ml"
	ColVariationType  = "variation_type"
	ColVariationValue = "variation_value"
	ColCommentText    = "text"
	ColCommentClean   = "comment_clean"
	ColSentiment      = "sentiment"
)

// JoinKeys are the composite key columns the merger joins on.
var JoinKeys = []string{ColProductName, ColBrandName}

// ColumnMapping declares that a source column should be renamed to a
// canonical name before merging. Keeping the mapping declarative means
// schema drift in an upstream source is a configuration change, not a
// code change.
type ColumnMapping struct {
	Source    string
	Canonical string
}

// DefaultCommentMappings aligns the comment table's brand column with the
// product table's.
var DefaultCommentMappings = []ColumnMapping{
	{Source: "product_brand", Canonical: ColBrandName},
}

// ParseColumnMappings parses a "source=canonical" list separated by
// semicolons or commas, e.g. "product_brand=brand_name;vid_title=video_title".
func ParseColumnMappings(spec string) []ColumnMapping {
	var mappings []ColumnMapping
	for _, part := range strings.FieldsFunc(spec, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		source := strings.TrimSpace(kv[0])
		canonical := strings.TrimSpace(kv[1])
		if source == "" || canonical == "" {
			continue
		}
		mappings = append(mappings, ColumnMapping{Source: source, Canonical: canonical})
	}
	return mappings
}
