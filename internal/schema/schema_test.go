package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/table"
)

func TestEveryKindHasALayout(t *testing.T) {
	for _, k := range query.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			if k.Mutating() {
				assert.Empty(t, Read(k))
				assert.NotEmpty(t, Insert(k))

				return
			}

			assert.NotEmpty(t, Read(k))
			assert.Empty(t, Insert(k))
		})
	}
}

func TestOrdinalsArePositional(t *testing.T) {
	for _, k := range query.Kinds() {
		for _, s := range []table.Schema{Read(k), Insert(k)} {
			for i, c := range s {
				assert.Equal(t, i, c.Ordinal, "%s field %s", k, c.Field)
			}
		}
	}
}

func TestSharedShapes(t *testing.T) {
	assert.Equal(t, Read(query.KindListSuppliers), Read(query.KindSupplierByID))
	assert.Equal(t, Read(query.KindContactEmails), Read(query.KindRepEmailByID))
	assert.Equal(t, Read(query.KindListCategories), Read(query.KindSupplierCategoriesByID))
}

func TestCompositeOrdinals(t *testing.T) {
	assert.Equal(t, FieldAddressID, Supplier()[SupplierAddressIDColumn].Field)
	assert.Equal(t, FieldContactID, Supplier()[SupplierContactIDColumn].Field)
	assert.Equal(t, FieldRepID, Supplier()[SupplierRepIDColumn].Field)
	assert.Equal(t, FieldContactID, Rep()[RepContactIDColumn].Field)
	assert.Equal(t, FieldContactID, RepDetail()[RepDetailContactIDColumn].Field)
	assert.Equal(t, FieldEmail, Email()[ValueColumn].Field)
	assert.Equal(t, FieldNumber, Numbers()[ValueColumn].Field)
}

func TestInsertLayoutsCarryColumns(t *testing.T) {
	for _, k := range query.Kinds() {
		for _, c := range Insert(k) {
			assert.NotEmpty(t, c.Column, "%s field %s", k, c.Field)
		}
	}

	supplier := Insert(query.KindCreateSupplier)
	assert.True(t, supplier[supplier.Index(FieldName)].NotNull)
	assert.Equal(t, table.KindBoolean, supplier[supplier.Index(FieldActive)].Kind)

	address := Insert(query.KindCreateAddress)
	assert.False(t, address[address.Index(FieldLine2)].NotNull)
}

func TestSchemasAreFreshCopies(t *testing.T) {
	s := Supplier()
	s[0].Field = "changed"

	assert.Equal(t, FieldID, Supplier()[0].Field)
}
