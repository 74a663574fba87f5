// pkg/cleaner/size_test.go
package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSizeML(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "plain milliliters", input: "30 mL", want: 30.0, wantOK: true},
		{name: "lowercase ml", input: "100ml", want: 100.0, wantOK: true},
		{name: "fractional milliliters", input: "7.5 mL", want: 7.5, wantOK: true},
		{name: "one ounce", input: "1 oz", want: 29.5735, wantOK: true},
		{name: "fractional ounces", input: "1.7 oz", want: 1.7 * 29.5735, wantOK: true},
		{name: "uppercase OZ", input: "2 OZ", want: 2 * 29.5735, wantOK: true},
		{name: "dual format prefers milliliters", input: "30 mL / 1 oz", want: 30.0, wantOK: true},
		{name: "embedded in description", input: "Mini 15 mL travel size", want: 15.0, wantOK: true},
		{name: "not a size", input: "not a size", wantOK: false},
		{name: "empty string", input: "", wantOK: false},
		{name: "number without unit", input: "250", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSizeML(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
