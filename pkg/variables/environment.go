package variables

import (
	"os"
	"strings"
)

// Environment looks up environment variables
type Environment interface {
	Lookup(name string) (string, bool)
}

type osEnvironment struct{}

// OS returns the process environment
func OS() Environment {
	return osEnvironment{}
}

func (osEnvironment) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnvironment is a fixed environment, mostly useful in tests
type MapEnvironment map[string]string

// Lookup implements Environment
func (m MapEnvironment) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// ParseEnvNames splits a comma separated --env argument. Names are
// trimmed and empty names dropped.
func ParseEnvNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
