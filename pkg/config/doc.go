// Package config loads structured variable files.
//
// A variable file is JSON, YAML or TOML, chosen by its extension. Whatever
// the format, the top level must be a mapping; it is converted into a
// value.Map so that no decoder-specific types leave this package.
//
//	site:
//	  name: Example
//	  hosts: [a, b]
//
// becomes {"site": {"name": "Example", "hosts": ["a", "b"]}}.
package config
