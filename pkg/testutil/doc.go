// Package testutil provides helpers shared by shinkansen tests.
//
// Most tests run against an in-memory filesystem (NewMemFS) and only the
// CLI tests touch the real disk through t.TempDir. ErrorFS wraps any
// filesystem to inject failures on chosen paths.
package testutil
