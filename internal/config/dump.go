package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const redacted = "********"

// Redacted returns a copy of c with credentials masked.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Redis.Password != "" {
		out.Redis.Password = redacted
	}
	if out.Security.JWTSecret != "" {
		out.Security.JWTSecret = redacted
	}
	return &out
}

// WriteYAML writes the effective configuration, credentials masked, in the same layout the
// loader reads.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Redacted()); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
