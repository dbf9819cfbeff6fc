package cmd

import (
	"fmt"

	"etlcheck/internal/catalog"

	"github.com/spf13/viper"
)

// connectionConfig is a `connections` entry plus the CLI-only active flag.
type connectionConfig struct {
	catalog.Connection `mapstructure:",squash"`
	Active             bool `mapstructure:"active"`
}

func readConnections() ([]connectionConfig, error) {
	var configs []connectionConfig
	if err := viper.UnmarshalKey("connections", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse connections config: %w", err)
	}
	for i, c := range configs {
		if c.Name == "" {
			return nil, fmt.Errorf("connections[%d]: name is required", i)
		}
		if c.DSN == "" && c.AgentURL == "" {
			return nil, fmt.Errorf("connection %q: dsn or agent_url is required", c.Name)
		}
	}
	return configs, nil
}

// LoadConnections returns every configured connection.
func LoadConnections() (catalog.Connections, error) {
	configs, err := readConnections()
	if err != nil {
		return nil, err
	}
	conns := make(catalog.Connections, len(configs))
	for i, c := range configs {
		conns[i] = c.Connection
	}
	return conns, nil
}

// resolveConnection returns name when given, otherwise the single
// connection marked active.
func resolveConnection(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	configs, err := readConnections()
	if err != nil {
		return "", err
	}

	var active string
	count := 0
	for _, c := range configs {
		if c.Active {
			active = c.Name
			count++
		}
	}

	if count == 0 {
		return "", fmt.Errorf("no active connection found in config (set active: true or pass --conn)")
	}
	if count > 1 {
		return "", fmt.Errorf("multiple active connections found (only one can be active)")
	}
	return active, nil
}
