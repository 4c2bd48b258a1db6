package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kyleking/supplier-api/internal/logging"
)

// Sample data ids, fixed so tests can address rows directly
const (
	SampleSupplierNorthern = 1
	SampleSupplierDales    = 2
	SampleSupplierSmith    = 3
	SampleRepPatel         = 1
	SampleContactPatel     = 2
)

var sampleStatements = []struct {
	sql  string
	args []any
}{
	{"INSERT INTO contact (id) VALUES (1), (2), (3), (4)", nil},
	{`INSERT INTO address (id, line1, line2, town, council, postcode)
		VALUES (1, ?, ?, ?, ?, ?)`,
		[]any{"Unit 4, Riverside Park", "Canal Road", "Leeds", "Leeds City Council", "LS11 5QR"}},
	{`INSERT INTO emails (id, email) VALUES
		(1, 'orders@northernproduce.example'),
		(2, 'accounts@northernproduce.example'),
		(3, 'j.patel@northernproduce.example'),
		(4, 'hello@dalesdairy.example')`, nil},
	{"INSERT INTO contact_email (fk_email_addresses, fk_contact) VALUES (1, 1), (2, 1), (3, 2), (4, 3)", nil},
	{`INSERT INTO phone_numbers (id, number) VALUES
		(1, '0113 496 0000'),
		(2, '07700 900111'),
		(3, '01756 700200')`, nil},
	{"INSERT INTO contact_phone (fk_phone_number, fk_contact) VALUES (1, 1), (2, 2), (3, 3)", nil},
	{`INSERT INTO supply_rep (id, fk_person_title, first_name, last_name, fk_contact)
		VALUES (1, 5, 'Jaya', 'Patel', 2)`, nil},
	{`INSERT INTO supplier (id, name, active, fk_address, fk_contact, fk_supply_rep) VALUES
		(1, 'Northern Produce Ltd', 1, 1, 1, 1),
		(2, 'Dales Dairy Co', 1, NULL, 3, NULL),
		(3, 'Mr Smith & Co Ltd', 0, NULL, 4, NULL)`, nil},
	{"INSERT INTO supplier_supplies (fk_supplier, fk_supply_category) VALUES (1, 1), (1, 5), (2, 2)", nil},
}

// SeedSampleData inserts a small demonstration dataset. It does nothing when
// the supplier table already has rows.
func SeedSampleData(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM supplier").Scan(&count); err != nil {
		return fmt.Errorf("failed to count suppliers: %w", err)
	}

	if count > 0 {
		logging.Debugf("skipping sample data, %d suppliers present", count)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	for i, stmt := range sampleStatements {
		if _, err := tx.ExecContext(ctx, stmt.sql, stmt.args...); err != nil {
			return fmt.Errorf("failed to insert sample data (statement %d): %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample data: %w", err)
	}

	logging.Infof("inserted sample data: %d statements", len(sampleStatements))

	return nil
}
