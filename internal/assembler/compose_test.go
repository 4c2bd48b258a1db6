package assembler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/storage"
	"github.com/kyleking/supplier-api/internal/testutil"
)

func render(t *testing.T, env *Envelope) string {
	t.Helper()

	out, err := json.Marshal(env)
	require.NoError(t, err)

	return string(out)
}

func fetchJSON(t *testing.T, q Querier, d query.Descriptor) string {
	t.Helper()

	env, err := Fetch(context.Background(), q, d)
	require.NoError(t, err)

	return render(t, env)
}

const northernProduce = `{
	"code": 200,
	"success": true,
	"payload": {
		"id": 1,
		"name": "Northern Produce Ltd",
		"active": true,
		"contact": {
			"email": ["accounts@northernproduce.example", "orders@northernproduce.example"],
			"numbers": ["0113 496 0000"]
		},
		"address": {
			"line1": "Unit 4, Riverside Park",
			"line2": "Canal Road",
			"town": "Leeds",
			"council": "Leeds City Council",
			"postcode": "LS11 5QR"
		},
		"categories": [
			{"id": 1, "category": "Produce"},
			{"id": 5, "category": "Dry Goods"}
		],
		"rep": {
			"title": "Dr",
			"firstName": "Jaya",
			"lastName": "Patel",
			"contact": {
				"email": ["j.patel@northernproduce.example"],
				"numbers": ["07700 900111"]
			}
		}
	}
}`

func TestSupplierDocument(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	tests := []struct {
		name string
		id   uint64
		want string
	}{
		{"all sections", storage.SampleSupplierNorthern, northernProduce},
		{
			name: "no address or rep",
			id:   storage.SampleSupplierDales,
			want: `{"code":200,"success":true,"payload":{
				"id":2,"name":"Dales Dairy Co","active":true,
				"contact":{"email":["hello@dalesdairy.example"],"numbers":["01756 700200"]},
				"categories":[{"id":2,"category":"Dairy"}]}}`,
		},
		{
			name: "no related data at all",
			id:   storage.SampleSupplierSmith,
			want: `{"code":200,"success":true,"payload":{"id":3,"name":"Mr Smith & Co Ltd","active":false}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, fetchJSON(t, store.DB(), query.SupplierByID{ID: tt.id}))
		})
	}
}

func TestSupplierDocumentIsIdempotent(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	first := fetchJSON(t, store.DB(), query.SupplierByID{ID: storage.SampleSupplierNorthern})
	second := fetchJSON(t, store.DB(), query.SupplierByID{ID: storage.SampleSupplierNorthern})

	assert.Equal(t, first, second)
}

func TestConcurrentFetches(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	want := fetchJSON(t, store.DB(), query.SupplierByID{ID: storage.SampleSupplierNorthern})

	testutil.AssertNoRaces(t, func() {
		env, err := Fetch(context.Background(), store.DB(), query.SupplierByID{ID: storage.SampleSupplierNorthern})
		if assert.NoError(t, err) {
			out, _ := json.Marshal(env)
			assert.Equal(t, want, string(out))
		}
	}, testutil.TestWorkers)
}

func TestEmptyResultEnvelope(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	descriptors := []query.Descriptor{
		query.SupplierByID{ID: 999},
		query.SupplierNameByID{ID: 999},
		query.SupplierIDByName{Name: "Nobody"},
		query.SupplierEmailByID{ID: storage.SampleSupplierSmith},
		query.SupplierAddressByID{ID: storage.SampleSupplierDales},
		query.SupplierRepByID{ID: storage.SampleSupplierDales},
		query.RepByID{ID: 999},
		query.ListRepNumbers{},
	}

	// Remove the only rep number
	_, err := store.DB().Exec("DELETE FROM contact_phone WHERE fk_contact = ?", storage.SampleContactPatel)
	require.NoError(t, err)

	for _, d := range descriptors {
		t.Run(d.Kind().String(), func(t *testing.T) {
			out := fetchJSON(t, store.DB(), d)
			assert.JSONEq(t, `{"code":200,"success":false}`, out)
			assert.NotContains(t, out, "payload")
		})
	}
}

func TestSingleQueryProjections(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	tests := []struct {
		name string
		d    query.Descriptor
		want string
	}{
		{
			name: "name by id",
			d:    query.SupplierNameByID{ID: storage.SampleSupplierDales},
			want: `{"name":"Dales Dairy Co"}`,
		},
		{
			name: "id by decoded name",
			d:    query.SupplierIDByName{Name: "Mr Smith & Co Ltd"},
			want: `{"id":3}`,
		},
		{
			name: "emails as a bare column",
			d:    query.SupplierEmailByID{ID: storage.SampleSupplierNorthern},
			want: `["accounts@northernproduce.example","orders@northernproduce.example"]`,
		},
		{
			name: "numbers as a bare column",
			d:    query.SupplierNumbersByID{ID: storage.SampleSupplierNorthern},
			want: `["0113 496 0000"]`,
		},
		{
			name: "address object keeps its id",
			d:    query.SupplierAddressByID{ID: storage.SampleSupplierNorthern},
			want: `{"id":1,"line1":"Unit 4, Riverside Park","line2":"Canal Road","town":"Leeds",
				"council":"Leeds City Council","postcode":"LS11 5QR"}`,
		},
		{
			name: "categories table",
			d:    query.SupplierCategoriesByID{ID: storage.SampleSupplierNorthern},
			want: `[{"id":1,"category":"Produce"},{"id":5,"category":"Dry Goods"}]`,
		},
		{
			name: "all supplier emails",
			d:    query.ListSupplierEmails{},
			want: `[
				{"id":1,"email":"accounts@northernproduce.example"},
				{"id":1,"email":"orders@northernproduce.example"},
				{"id":2,"email":"hello@dalesdairy.example"}]`,
		},
		{
			name: "all rep emails",
			d:    query.ListRepEmails{},
			want: `[{"id":1,"email":"j.patel@northernproduce.example"}]`,
		},
		{
			name: "rep numbers",
			d:    query.RepNumbersByID{ID: storage.SampleRepPatel},
			want: `["07700 900111"]`,
		},
		{
			name: "list categories",
			d:    query.ListCategories{},
			want: `[{"id":1,"category":"Produce"},{"id":2,"category":"Dairy"},{"id":3,"category":"Bakery"},
				{"id":4,"category":"Beverages"},{"id":5,"category":"Dry Goods"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Fetch(context.Background(), store.DB(), tt.d)
			require.NoError(t, err)
			assert.True(t, env.Success)

			payload, err := json.Marshal(env.Payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(payload))
		})
	}
}

func TestListSuppliers(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	env, err := Fetch(context.Background(), store.DB(), query.ListSuppliers{})
	require.NoError(t, err)

	rows, ok := env.Payload.([]any)
	require.True(t, ok)
	require.Len(t, rows, 3)

	first := rows[0].(map[string]any)
	assert.Equal(t, int64(1), first["id"])
	assert.Equal(t, int64(1), first["repId"])

	last := rows[2].(map[string]any)
	assert.Equal(t, false, last["active"])
	assert.Nil(t, last["addressId"])
	assert.Contains(t, last, "repId")
}

func TestRepDocuments(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	want := `{"code":200,"success":true,"payload":{
		"title":"Dr","firstName":"Jaya","lastName":"Patel",
		"contact":{"email":["j.patel@northernproduce.example"],"numbers":["07700 900111"]}}}`

	assert.JSONEq(t, want, fetchJSON(t, store.DB(), query.SupplierRepByID{ID: storage.SampleSupplierNorthern}))
	assert.JSONEq(t, want, fetchJSON(t, store.DB(), query.RepByID{ID: storage.SampleRepPatel}))
}

func TestEveryReadMatchesItsSchema(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	for _, k := range query.Kinds() {
		if k.Mutating() {
			continue
		}

		t.Run(k.String(), func(t *testing.T) {
			var captured []string

			switch k.Params() {
			case query.ParamsID:
				captured = []string{"1"}
			case query.ParamsName:
				captured = []string{"Dales%20Dairy%20Co"}
			}

			d, err := query.Bind(k, captured, nil)
			require.NoError(t, err)

			_, err = Run(context.Background(), store.DB(), d)
			assert.NoError(t, err)
		})
	}
}

func TestDocumentSet(t *testing.T) {
	doc := document{}
	doc.set("rep.contact.email", []any{"a"})
	doc.set("rep.title", "Dr")
	doc.set("name", "x")

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","rep":{"title":"Dr","contact":{"email":["a"]}}}`, string(out))
}
