// Package input turns command-line arguments into an ordered list of
// template units.
//
// Arguments resolve to one of four shapes:
//
//	(none) or -        Stdin
//	file               SingleFile
//	file file ...      MultipleFiles
//	dir                Directory (direct children, or the whole tree with -r)
//
// Units are always returned in a deterministic order: argument order for
// MultipleFiles and lexical order per directory level otherwise.
package input
