// Package output maps resolved inputs onto destinations.
//
// The -o argument is parsed into a Target first; Route then checks that
// the input shape can be written to that target and computes one
// Destination per unit. Every check happens before anything is rendered
// or written.
package output
