// Package ingest loads watchlist sources, turns them into hashed registry
// records and swaps them into the registry.
package ingest

import "strings"

// RawRecord is a watchlist entry before normalization.
type RawRecord struct {
	ID     string
	Type   string
	Name   string
	Reason string
	Source string
}

// Format identifies a source encoding.
type Format string

const (
	FormatSDN  Format = "sdn"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSDN, FormatYAML:
		return f, true
	default:
		return "", false
	}
}

// Source is one watchlist to load. Location is an http(s) URL or a local path.
type Source struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Format   Format `mapstructure:"format" yaml:"format"`
	Location string `mapstructure:"location" yaml:"location"`
}
