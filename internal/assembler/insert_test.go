package assembler

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/storage"
)

func bindCreate(t *testing.T, kind query.Kind, body string) query.Descriptor {
	t.Helper()

	d, err := query.Bind(kind, nil, []byte(body))
	require.NoError(t, err)

	return d
}

func insertedID(t *testing.T, env *Envelope) uint64 {
	t.Helper()

	require.NotNil(t, env)
	assert.Equal(t, 201, env.Code)
	assert.True(t, env.Success)
	assert.Equal(t, InsertedMessage, env.Message)

	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)

	id, ok := payload["id"].(int64)
	require.True(t, ok)

	return uint64(id)
}

func TestInsertAddressStatement(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO address (line1, town, postcode) VALUES (?, ?, ?)")).
		WithArgs("1 High Street", "York", "YO1 7HH").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	env, err := Insert(context.Background(), db, bindCreate(t, query.KindCreateAddress,
		`{"line1":"1 High Street","town":"York","postcode":"YO1 7HH"}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), insertedID(t, env))
}

func TestInsertRollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO address")).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := Insert(context.Background(), db, bindCreate(t, query.KindCreateAddress,
		`{"line1":"1 High Street","town":"York","postcode":"YO1 7HH"}`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSubmission))
}

func TestInsertBeginFailure(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	_, err := Insert(context.Background(), db, bindCreate(t, query.KindCreateAddress, `{}`))
	assert.True(t, errors.IsType(err, errors.ErrTypeConnection))
}

func TestCreateSupplierRoundTrip(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	ctx := context.Background()
	body := `{
		"name": "Moorland Bakery",
		"active": true,
		"address": {"line1": "2 Mill Lane", "town": "Skipton", "postcode": "BD23 1AA"},
		"contact": {"email": ["bread@moorland.example", "sales@moorland.example"], "numbers": "01756 111222"},
		"rep": {
			"titleId": 2,
			"firstName": "Ann",
			"lastName": "Booth",
			"contact": {"email": "ann@moorland.example"}
		},
		"categories": [3, 5]
	}`

	env, err := Insert(ctx, store.DB(), bindCreate(t, query.KindCreateSupplier, body))
	require.NoError(t, err)

	id := insertedID(t, env)
	assert.Equal(t, uint64(4), id)

	want := `{"code":200,"success":true,"payload":{
		"id":4,"name":"Moorland Bakery","active":true,
		"contact":{"email":["bread@moorland.example","sales@moorland.example"],"numbers":["01756 111222"]},
		"address":{"line1":"2 Mill Lane","line2":null,"town":"Skipton","council":null,"postcode":"BD23 1AA"},
		"categories":[{"id":3,"category":"Bakery"},{"id":5,"category":"Dry Goods"}],
		"rep":{"title":"Mrs","firstName":"Ann","lastName":"Booth","contact":{"email":["ann@moorland.example"]}}}}`

	assert.JSONEq(t, want, fetchJSON(t, store.DB(), query.SupplierByID{ID: id}))
}

func TestCreateSupplierMinimal(t *testing.T) {
	store, cleanup := storage.NewTestDB(t)
	defer cleanup()

	env, err := Insert(context.Background(), store.DB(),
		bindCreate(t, query.KindCreateSupplier, `{"name":"Solo","active":false}`))
	require.NoError(t, err)

	id := insertedID(t, env)
	assert.JSONEq(t, `{"code":200,"success":true,"payload":{"id":1,"name":"Solo","active":false}}`,
		fetchJSON(t, store.DB(), query.SupplierByID{ID: id}))
}

func TestCreateSupplierNullSectionsAreAbsent(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	env, err := Insert(context.Background(), store.DB(), bindCreate(t, query.KindCreateSupplier,
		`{"name":"Nully","active":true,"address":null,"contact":{"email":null,"numbers":"01756 333444"},"rep":null,"categories":null}`))
	require.NoError(t, err)

	id := insertedID(t, env)
	assert.JSONEq(t, `{"code":200,"success":true,"payload":{
		"id":4,"name":"Nully","active":true,"contact":{"numbers":["01756 333444"]}}}`,
		fetchJSON(t, store.DB(), query.SupplierByID{ID: id}))

	env, err = Insert(context.Background(), store.DB(), bindCreate(t, query.KindCreateSupplier,
		`{"name":"Nully Two","active":false,"contact":null}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), insertedID(t, env))
}

func TestIntegerFieldsRejectOutOfRange(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	for _, raw := range []string{"1e30", "-1e30", "9223372036854775808"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Insert(context.Background(), store.DB(), bindCreate(t, query.KindCreateContactEmail,
				`{"contactId":`+raw+`,"email":"big@example.invalid"}`))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeSubmission))
			assert.Contains(t, err.Error(), `field "contactId" must be integer`)
		})
	}
}

func TestCreateSupplierRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"active":true}`, `missing required field "name"`},
		{"null name", `{"name":null,"active":true}`, `missing required field "name"`},
		{"mistyped active", `{"name":"X","active":"yes"}`, `field "active" must be boolean`},
		{"not an object", `["X"]`, "body must be a JSON object"},
		{"duplicate name", `{"name":"Dales Dairy Co","active":true}`, "failed to insert into supplier"},
		{"bad address", `{"name":"X","active":true,"address":{"line1":"a"}}`, `missing required field "town"`},
		{"bad emails", `{"name":"X","active":true,"contact":{"email":[1]}}`, "must contain only strings"},
		{"unknown category", `{"name":"X","active":true,"categories":[99]}`, "failed to insert into supplier_supplies"},
		{"fractional category", `{"name":"X","active":true,"categories":[1.5]}`, "integer ids"},
		{"oversized category", `{"name":"X","active":true,"categories":[1e30]}`, "integer ids"},
		{"null email in list", `{"name":"X","active":true,"contact":{"email":[null]}}`, "must contain only strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := storage.NewTestDBWithData(t)
			defer cleanup()

			_, err := Insert(context.Background(), store.DB(), bindCreate(t, query.KindCreateSupplier, tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeSubmission), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)

			// Nothing from a failed write survives
			counts, err := store.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(3), counts["supplier"])
			assert.Equal(t, int64(4), counts["contact"])
			assert.Equal(t, int64(1), counts["address"])
		})
	}
}

func TestCreateRep(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	env, err := Insert(context.Background(), store.DB(), bindCreate(t, query.KindCreateRep,
		`{"firstName":"Sam","lastName":"Oakes","contact":{"numbers":["07700 900222","07700 900333"]}}`))
	require.NoError(t, err)

	id := insertedID(t, env)
	assert.JSONEq(t, `{"code":200,"success":true,"payload":{
		"title":null,"firstName":"Sam","lastName":"Oakes",
		"contact":{"numbers":["07700 900222","07700 900333"]}}}`,
		fetchJSON(t, store.DB(), query.RepByID{ID: id}))
}

func TestCreateContactDetails(t *testing.T) {
	store, cleanup := storage.NewTestDBWithData(t)
	defer cleanup()

	ctx := context.Background()

	_, err := Insert(ctx, store.DB(), bindCreate(t, query.KindCreateContactEmail,
		`{"contactId":4,"email":"office@smith.example"}`))
	require.NoError(t, err)

	_, err = Insert(ctx, store.DB(), bindCreate(t, query.KindCreateContactPhone,
		`{"contactId":4,"number":"0113 496 1234"}`))
	require.NoError(t, err)

	assert.JSONEq(t, `{"code":200,"success":true,"payload":{
		"id":3,"name":"Mr Smith & Co Ltd","active":false,
		"contact":{"email":["office@smith.example"],"numbers":["0113 496 1234"]}}}`,
		fetchJSON(t, store.DB(), query.SupplierByID{ID: storage.SampleSupplierSmith}))

	_, err = Insert(ctx, store.DB(), bindCreate(t, query.KindCreateContactEmail,
		`{"contactId":999,"email":"nobody@example.invalid"}`))
	assert.True(t, errors.IsType(err, errors.ErrTypeSubmission))

	_, err = Insert(ctx, store.DB(), bindCreate(t, query.KindCreateContactPhone, `{"contactId":"4","number":"1"}`))
	assert.True(t, errors.IsType(err, errors.ErrTypeSubmission))
}

func TestInsertRejectsReads(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := Insert(context.Background(), db, query.ListSuppliers{})
	assert.True(t, errors.IsType(err, errors.ErrTypeNotImplemented))
}
