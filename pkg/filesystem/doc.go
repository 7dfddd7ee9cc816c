// Package filesystem provides filesystem implementations for shinkansen.
//
// Input resolution, output routing and the render pipeline all go through
// the FS interface so that they can run against the real filesystem or an
// in-memory afero filesystem in tests.
package filesystem
