package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/kyleking/supplier-api/internal/logging"
)

// Migration is one versioned schema change
type Migration struct {
	Version     int
	Description string
	Up          string
	Down        string
}

// MigrationStatus reports whether a migration has been applied
type MigrationStatus struct {
	Version     int    `json:"version"`
	Description string `json:"description"`
	Applied     bool   `json:"applied"`
	AppliedAt   string `json:"applied_at,omitempty"`
}

// dataTables lists the tables migration 1 creates, parents first
var dataTables = []string{
	"person_title",
	"address",
	"contact",
	"emails",
	"phone_numbers",
	"contact_email",
	"contact_phone",
	"supply_rep",
	"supplier",
	"supply_categories",
	"supplier_supplies",
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Suppliers schema",
		Up: `
			CREATE TABLE IF NOT EXISTS person_title (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL UNIQUE
			);

			CREATE TABLE IF NOT EXISTS address (
				id INTEGER PRIMARY KEY,
				line1 TEXT NOT NULL,
				line2 TEXT,
				town TEXT NOT NULL,
				council TEXT,
				postcode TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS contact (
				id INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS emails (
				id INTEGER PRIMARY KEY,
				email TEXT NOT NULL UNIQUE
			);

			CREATE TABLE IF NOT EXISTS phone_numbers (
				id INTEGER PRIMARY KEY,
				number TEXT NOT NULL UNIQUE
			);

			CREATE TABLE IF NOT EXISTS contact_email (
				fk_email_addresses INTEGER NOT NULL REFERENCES emails(id),
				fk_contact INTEGER NOT NULL REFERENCES contact(id),
				PRIMARY KEY (fk_email_addresses, fk_contact)
			);

			CREATE TABLE IF NOT EXISTS contact_phone (
				fk_phone_number INTEGER NOT NULL REFERENCES phone_numbers(id),
				fk_contact INTEGER NOT NULL REFERENCES contact(id),
				PRIMARY KEY (fk_phone_number, fk_contact)
			);

			CREATE TABLE IF NOT EXISTS supply_rep (
				id INTEGER PRIMARY KEY,
				fk_person_title INTEGER REFERENCES person_title(id),
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				fk_contact INTEGER NOT NULL REFERENCES contact(id)
			);

			CREATE TABLE IF NOT EXISTS supplier (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				active INTEGER NOT NULL DEFAULT 1,
				fk_address INTEGER REFERENCES address(id),
				fk_contact INTEGER NOT NULL REFERENCES contact(id),
				fk_supply_rep INTEGER REFERENCES supply_rep(id)
			);

			CREATE TABLE IF NOT EXISTS supply_categories (
				id INTEGER PRIMARY KEY,
				type TEXT NOT NULL UNIQUE
			);

			CREATE TABLE IF NOT EXISTS supplier_supplies (
				fk_supplier INTEGER NOT NULL REFERENCES supplier(id),
				fk_supply_category INTEGER NOT NULL REFERENCES supply_categories(id),
				PRIMARY KEY (fk_supplier, fk_supply_category)
			);

			CREATE VIEW IF NOT EXISTS view_contact_email AS
				SELECT ce.fk_contact AS contact_id, e.email AS email
				FROM contact_email AS ce
				JOIN emails AS e ON e.id = ce.fk_email_addresses;

			CREATE VIEW IF NOT EXISTS view_contact_numbers AS
				SELECT cp.fk_contact AS contact_id, p.number AS number
				FROM contact_phone AS cp
				JOIN phone_numbers AS p ON p.id = cp.fk_phone_number;

			CREATE VIEW IF NOT EXISTS view_suppliers_email AS
				SELECT s.id AS supplier_id, v.email AS email
				FROM supplier AS s
				JOIN view_contact_email AS v ON v.contact_id = s.fk_contact;

			CREATE VIEW IF NOT EXISTS view_suppliers_numbers AS
				SELECT s.id AS supplier_id, v.number AS number
				FROM supplier AS s
				JOIN view_contact_numbers AS v ON v.contact_id = s.fk_contact;

			CREATE VIEW IF NOT EXISTS view_supply_rep_email AS
				SELECT r.id AS supply_rep_id, v.email AS email
				FROM supply_rep AS r
				JOIN view_contact_email AS v ON v.contact_id = r.fk_contact;

			CREATE VIEW IF NOT EXISTS view_supply_rep_numbers AS
				SELECT r.id AS supply_rep_id, v.number AS number
				FROM supply_rep AS r
				JOIN view_contact_numbers AS v ON v.contact_id = r.fk_contact;

			CREATE INDEX IF NOT EXISTS idx_contact_email_contact ON contact_email(fk_contact);
			CREATE INDEX IF NOT EXISTS idx_contact_phone_contact ON contact_phone(fk_contact);
			CREATE INDEX IF NOT EXISTS idx_supplier_supplies_category ON supplier_supplies(fk_supply_category);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_supplier_supplies_category;
			DROP INDEX IF EXISTS idx_contact_phone_contact;
			DROP INDEX IF EXISTS idx_contact_email_contact;
			DROP VIEW IF EXISTS view_supply_rep_numbers;
			DROP VIEW IF EXISTS view_supply_rep_email;
			DROP VIEW IF EXISTS view_suppliers_numbers;
			DROP VIEW IF EXISTS view_suppliers_email;
			DROP VIEW IF EXISTS view_contact_numbers;
			DROP VIEW IF EXISTS view_contact_email;
			DROP TABLE IF EXISTS supplier_supplies;
			DROP TABLE IF EXISTS supply_categories;
			DROP TABLE IF EXISTS supplier;
			DROP TABLE IF EXISTS supply_rep;
			DROP TABLE IF EXISTS contact_phone;
			DROP TABLE IF EXISTS contact_email;
			DROP TABLE IF EXISTS phone_numbers;
			DROP TABLE IF EXISTS emails;
			DROP TABLE IF EXISTS contact;
			DROP TABLE IF EXISTS address;
			DROP TABLE IF EXISTS person_title;
		`,
	},
	{
		Version:     2,
		Description: "Person titles and supply categories",
		Up: `
			INSERT OR IGNORE INTO person_title (id, title) VALUES
				(1, 'Mr'), (2, 'Mrs'), (3, 'Miss'), (4, 'Ms'), (5, 'Dr');

			INSERT OR IGNORE INTO supply_categories (id, type) VALUES
				(1, 'Produce'), (2, 'Dairy'), (3, 'Bakery'), (4, 'Beverages'), (5, 'Dry Goods');
		`,
		Down: `
			DELETE FROM supply_categories WHERE id BETWEEN 1 AND 5;
			DELETE FROM person_title WHERE id BETWEEN 1 AND 5;
		`,
	},
}

// MigrationManager applies and rolls back migrations, recording them in
// schema_migrations.
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// GetMigrations returns all migrations by ascending version
func (m *MigrationManager) GetMigrations() []Migration {
	all := append([]Migration(nil), migrations...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Version < all[j].Version
	})

	return all
}

// LatestVersion returns the highest known migration version
func (m *MigrationManager) LatestVersion() int {
	all := m.GetMigrations()
	if len(all) == 0 {
		return 0
	}

	return all[len(all)-1].Version
}

// InitializeMigrationTable creates the migration tracking table
func (m *MigrationManager) InitializeMigrationTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	return nil
}

// appliedMigrations maps applied versions to their applied_at timestamps
func (m *MigrationManager) appliedMigrations(ctx context.Context) (map[int]string, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]string)

	for rows.Next() {
		var (
			version   int
			appliedAt string
		)

		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}

		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// CurrentVersion returns the highest applied version, 0 when none
func (m *MigrationManager) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.InitializeMigrationTable(ctx); err != nil {
		return 0, err
	}

	var version sql.NullInt64
	if err := m.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	return int(version.Int64), nil
}

// run executes one direction of a migration and updates the tracking table
// in the same transaction.
func (m *MigrationManager) run(ctx context.Context, migration Migration, up bool) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	if up {
		if _, err := tx.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			migration.Version, migration.Description); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, migration.Down); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", migration.Version); err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", migration.Version, err)
		}
	}

	return tx.Commit()
}

// MigrateUp applies all pending migrations
func (m *MigrationManager) MigrateUp(ctx context.Context) error {
	if err := m.InitializeMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.GetMigrations() {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		logging.WithFields(map[string]any{
			"version":     migration.Version,
			"description": migration.Description,
		}).Info("Applying migration")

		if err := m.run(ctx, migration, true); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown rolls back every applied migration above targetVersion
func (m *MigrationManager) MigrateDown(ctx context.Context, targetVersion int) error {
	if targetVersion < 0 {
		return fmt.Errorf("invalid target version %d", targetVersion)
	}

	if err := m.InitializeMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	known := make(map[int]Migration)
	for _, migration := range m.GetMigrations() {
		known[migration.Version] = migration
	}

	versions := make([]int, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	for _, version := range versions {
		if version <= targetVersion {
			break
		}

		migration, ok := known[version]
		if !ok {
			return fmt.Errorf("migration %d not found", version)
		}

		logging.WithField("version", version).Info("Rolling back migration")

		if err := m.run(ctx, migration, false); err != nil {
			return err
		}
	}

	return nil
}

// GetMigrationStatus lists every known migration with its applied state
func (m *MigrationManager) GetMigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.InitializeMigrationTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var status []MigrationStatus

	for _, migration := range m.GetMigrations() {
		appliedAt, ok := applied[migration.Version]
		status = append(status, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     ok,
			AppliedAt:   appliedAt,
		})
	}

	return status, nil
}
