// Package escape implements the value grammar shared by -D assignments and
// environment variables loaded with --env.
//
// A backslash escapes the character that follows it. Only the backslash
// itself and the structural characters , = [ ] { } may be escaped:
//
//	a\,b      -> "a,b"
//	a,b       -> ["a", "b"]
//	[a,b,c]   -> ["a", "b", "c"]
//	[]        -> []
//	a\\b      -> "a\b"
//	{x,y}     -> "{x,y}"   (commas inside braces are not separators)
//
// Any other escape, and a trailing backslash with nothing after it, is an
// ESCAPE error.
package escape
