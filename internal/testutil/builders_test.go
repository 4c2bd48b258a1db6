package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSupplierBody(t *testing.T) {
	tests := []struct {
		name string
		opts []SupplierOption
		want string
	}{
		{
			name: "defaults",
			want: `{"name":"Fellside Farm","active":true}`,
		},
		{
			name: "single values collapse to strings",
			opts: []SupplierOption{WithEmails("a@x.example"), WithNumbers("1", "2")},
			want: `{"name":"Fellside Farm","active":true,"contact":{"email":"a@x.example","numbers":["1","2"]}}`,
		},
		{
			name: "nested sections",
			opts: []SupplierOption{
				WithName("Kiln Yard"),
				WithActive(false),
				WithAddress("1 Kiln Yard", "Settle", "BD24 9AA"),
				WithRep(0, "Ann", "Booth"),
				WithCategories(2, 4),
			},
			want: `{"name":"Kiln Yard","active":false,
				"address":{"line1":"1 Kiln Yard","town":"Settle","postcode":"BD24 9AA"},
				"rep":{"firstName":"Ann","lastName":"Booth"},"categories":[2,4]}`,
		},
		{
			name: "rep title and removed field",
			opts: []SupplierOption{WithRep(5, "Jo", "Hart"), Without("active")},
			want: `{"name":"Fellside Farm","rep":{"titleId":5,"firstName":"Jo","lastName":"Hart"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, NewSupplierBody(tt.opts...))
		})
	}
}
