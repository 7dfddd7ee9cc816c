// Package settings loads shinkansen's own settings, as opposed to the
// template variables handled by package config.
//
// Settings are layered, later layers winning:
//
//  1. embedded defaults (defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/shinkansen/config.toml
//  3. SHINKANSEN_* environment variables (a double underscore nests:
//     SHINKANSEN_FILE_PERMISSIONS__FILE)
//  4. command-line flag overrides
package settings
