package query

import "github.com/tidwall/gjson"

// Descriptor is one bound API operation. The set of implementations is closed
// to this package.
type Descriptor interface {
	Kind() Kind
	descriptor()
}

type (
	ListSuppliers       struct{}
	ListSupplierEmails  struct{}
	ListSupplierNumbers struct{}
	ListCategories      struct{}
	ListRepEmails       struct{}
	ListRepNumbers      struct{}
)

type (
	SupplierByID           struct{ ID uint64 }
	SupplierNameByID       struct{ ID uint64 }
	SupplierEmailByID      struct{ ID uint64 }
	SupplierNumbersByID    struct{ ID uint64 }
	SupplierAddressByID    struct{ ID uint64 }
	SupplierCategoriesByID struct{ ID uint64 }
	SupplierRepByID        struct{ ID uint64 }
	RepByID                struct{ ID uint64 }
	RepEmailByID           struct{ ID uint64 }
	RepNumbersByID         struct{ ID uint64 }
)

// SupplierIDByName looks a supplier up by its exact, decoded name
type SupplierIDByName struct{ Name string }

// ContactEmails and ContactNumbers are not routed; composite fetches issue
// them with a contact id read from a primary row.
type (
	ContactEmails  struct{ ContactID uint64 }
	ContactNumbers struct{ ContactID uint64 }
)

// The create variants carry the parsed request body
type (
	CreateSupplier     struct{ Body gjson.Result }
	CreateRep          struct{ Body gjson.Result }
	CreateAddress      struct{ Body gjson.Result }
	CreateContactEmail struct{ Body gjson.Result }
	CreateContactPhone struct{ Body gjson.Result }
)

func (ListSuppliers) Kind() Kind { return KindListSuppliers }
func (ListSupplierEmails) Kind() Kind { return KindListSupplierEmails }
func (ListSupplierNumbers) Kind() Kind { return KindListSupplierNumbers }
func (ListCategories) Kind() Kind { return KindListCategories }
func (ListRepEmails) Kind() Kind { return KindListRepEmails }
func (ListRepNumbers) Kind() Kind { return KindListRepNumbers }
func (SupplierByID) Kind() Kind { return KindSupplierByID }
func (SupplierNameByID) Kind() Kind { return KindSupplierNameByID }
func (SupplierEmailByID) Kind() Kind { return KindSupplierEmailByID }
func (SupplierNumbersByID) Kind() Kind { return KindSupplierNumbersByID }
func (SupplierAddressByID) Kind() Kind { return KindSupplierAddressByID }
func (SupplierCategoriesByID) Kind() Kind { return KindSupplierCategoriesByID }
func (SupplierRepByID) Kind() Kind { return KindSupplierRepByID }
func (RepByID) Kind() Kind { return KindRepByID }
func (RepEmailByID) Kind() Kind { return KindRepEmailByID }
func (RepNumbersByID) Kind() Kind { return KindRepNumbersByID }
func (SupplierIDByName) Kind() Kind { return KindSupplierIDByName }
func (ContactEmails) Kind() Kind { return KindContactEmails }
func (ContactNumbers) Kind() Kind { return KindContactNumbers }
func (CreateSupplier) Kind() Kind { return KindCreateSupplier }
func (CreateRep) Kind() Kind { return KindCreateRep }
func (CreateAddress) Kind() Kind { return KindCreateAddress }
func (CreateContactEmail) Kind() Kind { return KindCreateContactEmail }
func (CreateContactPhone) Kind() Kind { return KindCreateContactPhone }

func (ListSuppliers) descriptor() {}
func (ListSupplierEmails) descriptor() {}
func (ListSupplierNumbers) descriptor() {}
func (ListCategories) descriptor() {}
func (ListRepEmails) descriptor() {}
func (ListRepNumbers) descriptor() {}
func (SupplierByID) descriptor() {}
func (SupplierNameByID) descriptor() {}
func (SupplierEmailByID) descriptor() {}
func (SupplierNumbersByID) descriptor() {}
func (SupplierAddressByID) descriptor() {}
func (SupplierCategoriesByID) descriptor() {}
func (SupplierRepByID) descriptor() {}
func (RepByID) descriptor() {}
func (RepEmailByID) descriptor() {}
func (RepNumbersByID) descriptor() {}
func (SupplierIDByName) descriptor() {}
func (ContactEmails) descriptor() {}
func (ContactNumbers) descriptor() {}
func (CreateSupplier) descriptor() {}
func (CreateRep) descriptor() {}
func (CreateAddress) descriptor() {}
func (CreateContactEmail) descriptor() {}
func (CreateContactPhone) descriptor() {}
