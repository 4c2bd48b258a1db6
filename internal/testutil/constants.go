// Package testutil provides common constants and utilities for tests
package testutil

import "time"

const (
	// TestTimeout is the default timeout for test operations
	TestTimeout = 10 * time.Second

	// ShortTestTimeout bounds a single query in tests
	ShortTestTimeout = 5 * time.Second

	// TestWorkers is the number of concurrent workers used by concurrency tests
	TestWorkers = 16
)

// Sample request values
const (
	// TestSupplierName does not collide with the sample dataset
	TestSupplierName = "Fellside Farm"

	// TestEmail is a default contact email
	TestEmail = "farm@fellside.example"

	// TestNumber is a default contact phone number
	TestNumber = "01539 720000"
)
