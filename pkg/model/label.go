// pkg/model/label.go
package model

import "fmt"

// Label is the sentiment class assigned to a comment.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// Labels lists every valid sentiment label.
var Labels = []Label{LabelPositive, LabelNegative, LabelNeutral}

// Valid reports whether the label is one of the three known classes.
func (l Label) Valid() bool {
	switch l {
	case LabelPositive, LabelNegative, LabelNeutral:
		return true
	}
	return false
}

// ParseLabel converts a string into a Label.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown sentiment label: %q", s)
	}
	return l, nil
}
