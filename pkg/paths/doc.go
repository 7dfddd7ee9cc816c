// Package paths holds the path checks and conversions shared by the input
// resolver and the output router.
package paths
