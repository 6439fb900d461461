package testconfig

import (
	"os"
	"testing"
)

var (
	// set DOOMFRONT_PARALLEL_TESTS to run the tests of a package in parallel.
	PARALLELIZE_SAME_PKG_TESTS = os.Getenv("DOOMFRONT_PARALLEL_TESTS") != ""
)

func AllowParallelization(t *testing.T) {
	if PARALLELIZE_SAME_PKG_TESTS {
		t.Parallel()
	}
}
