package catalog

import (
	"fmt"
	"strings"
)

// Connection is one entry of the `connections` config list.
type Connection struct {
	Name     string `mapstructure:"name"`
	Driver   string `mapstructure:"driver"`
	Dialect  string `mapstructure:"dialect"`
	DSN      string `mapstructure:"dsn"`
	Schema   string `mapstructure:"schema"`
	AgentURL string `mapstructure:"agent_url"`
}

// DialectTag is the explicit dialect, falling back to the driver name.
func (c Connection) DialectTag() string {
	if c.Dialect != "" {
		return c.Dialect
	}
	return c.Driver
}

type Connections []Connection

// Get finds a connection by name, case-insensitively.
func (cs Connections) Get(name string) (Connection, error) {
	for _, c := range cs {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Connection{}, fmt.Errorf("%w: %s", ErrUnknownConnection, name)
}
