// Package variables assembles the context handed to the template engine.
//
// Three layers are merged, later layers replacing earlier ones key by key:
//
//  1. environment variables named with --env
//  2. the top-level keys of the -c variable file
//  3. -D KEY=VALUE assignments, in command-line order
//
// Replacement is always whole-value; nested mappings are never merged.
package variables
