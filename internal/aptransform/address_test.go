package aptransform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want parsedAddress
	}{
		{
			name: "street city state zip",
			in:   "123 Main St, Springfield, IL 62704",
			want: parsedAddress{Street: "123 Main St", City: "Springfield", State: "IL", Zip: "62704"},
		},
		{
			name: "zip plus four",
			in:   "77 Water Tower Pl, Denver, CO 80202-1234",
			want: parsedAddress{Street: "77 Water Tower Pl", City: "Denver", State: "CO", Zip: "80202-1234"},
		},
		{
			name: "po box",
			in:   "PO Box 1450, Springfield, IL 62705",
			want: parsedAddress{Street: "PO Box 1450", City: "Springfield", State: "IL", Zip: "62705"},
		},
		{
			name: "trailing unit without city",
			in:   "500 Oak Ave, Unit 12",
			want: parsedAddress{Street: "500 Oak Ave", Apt: "Unit 12"},
		},
		{
			name: "street only",
			in:   "901 Elm",
			want: parsedAddress{Street: "901 Elm"},
		},
		{
			name: "empty",
			in:   "",
			want: parsedAddress{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAddress(tt.in))
		})
	}
}
