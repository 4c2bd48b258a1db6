package testutil

import (
	"sync"
	"testing"
)

// RunConcurrent runs fn on n goroutines that are released together, and
// waits for all of them. A panicking worker fails the test.
func RunConcurrent(t *testing.T, n int, fn func(workerID int)) {
	t.Helper()

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)

	wg.Add(n)

	for i := range n {
		go func(workerID int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("worker %d panicked: %v", workerID, r)
				}
			}()

			<-start
			fn(workerID)
		}(i)
	}

	close(start)
	wg.Wait()
}

// AssertNoRaces runs fn concurrently iterations times. It is only useful
// under `go test -race`, and is skipped in short mode.
func AssertNoRaces(t *testing.T, fn func(), iterations int) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping race detection test in short mode")
	}

	RunConcurrent(t, iterations, func(_ int) {
		fn()
	})
}
