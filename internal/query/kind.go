// Package query defines the closed set of operations the API can perform and
// binds captured path values onto them.
package query

import "net/http"

// Kind names a descriptor variant
type Kind int

const (
	KindListSuppliers Kind = iota
	KindListSupplierEmails
	KindListSupplierNumbers
	KindListCategories
	KindSupplierByID
	KindSupplierNameByID
	KindSupplierIDByName
	KindSupplierEmailByID
	KindSupplierNumbersByID
	KindSupplierAddressByID
	KindSupplierCategoriesByID
	KindSupplierRepByID
	KindListRepEmails
	KindListRepNumbers
	KindRepByID
	KindRepEmailByID
	KindRepNumbersByID
	KindContactEmails
	KindContactNumbers
	KindCreateSupplier
	KindCreateRep
	KindCreateAddress
	KindCreateContactEmail
	KindCreateContactPhone

	kindCount
)

// Params describes what a variant is bound from
type Params int

const (
	ParamsNone Params = iota
	ParamsID
	ParamsName
	ParamsBody
)

type kindInfo struct {
	name   string
	params Params
	method string
}

var kinds = [kindCount]kindInfo{
	KindListSuppliers:          {"list-suppliers", ParamsNone, http.MethodGet},
	KindListSupplierEmails:     {"list-supplier-emails", ParamsNone, http.MethodGet},
	KindListSupplierNumbers:    {"list-supplier-numbers", ParamsNone, http.MethodGet},
	KindListCategories:         {"list-categories", ParamsNone, http.MethodGet},
	KindSupplierByID:           {"supplier-by-id", ParamsID, http.MethodGet},
	KindSupplierNameByID:       {"supplier-name-by-id", ParamsID, http.MethodGet},
	KindSupplierIDByName:       {"supplier-id-by-name", ParamsName, http.MethodGet},
	KindSupplierEmailByID:      {"supplier-email-by-id", ParamsID, http.MethodGet},
	KindSupplierNumbersByID:    {"supplier-numbers-by-id", ParamsID, http.MethodGet},
	KindSupplierAddressByID:    {"supplier-address-by-id", ParamsID, http.MethodGet},
	KindSupplierCategoriesByID: {"supplier-categories-by-id", ParamsID, http.MethodGet},
	KindSupplierRepByID:        {"supplier-rep-by-id", ParamsID, http.MethodGet},
	KindListRepEmails:          {"list-rep-emails", ParamsNone, http.MethodGet},
	KindListRepNumbers:         {"list-rep-numbers", ParamsNone, http.MethodGet},
	KindRepByID:                {"rep-by-id", ParamsID, http.MethodGet},
	KindRepEmailByID:           {"rep-email-by-id", ParamsID, http.MethodGet},
	KindRepNumbersByID:         {"rep-numbers-by-id", ParamsID, http.MethodGet},
	KindContactEmails:          {"contact-emails", ParamsID, http.MethodGet},
	KindContactNumbers:         {"contact-numbers", ParamsID, http.MethodGet},
	KindCreateSupplier:         {"create-supplier", ParamsBody, http.MethodPost},
	KindCreateRep:              {"create-rep", ParamsBody, http.MethodPost},
	KindCreateAddress:          {"create-address", ParamsBody, http.MethodPost},
	KindCreateContactEmail:     {"create-contact-email", ParamsBody, http.MethodPost},
	KindCreateContactPhone:     {"create-contact-phone", ParamsBody, http.MethodPost},
}

// Kinds returns every variant in declaration order
func Kinds() []Kind {
	all := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		all = append(all, k)
	}

	return all
}

// Valid reports whether k is a declared variant
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}

	return kinds[k].name
}

// Params returns how k is bound
func (k Kind) Params() Params {
	if !k.Valid() {
		return ParamsNone
	}

	return kinds[k].params
}

// Method returns the only HTTP method k accepts
func (k Kind) Method() string {
	if !k.Valid() {
		return ""
	}

	return kinds[k].method
}

// Mutating reports whether k writes to storage
func (k Kind) Mutating() bool {
	return k.Params() == ParamsBody
}
