package ingest

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlList struct {
	Records []struct {
		ID     string `yaml:"id"`
		Type   string `yaml:"type"`
		Name   string `yaml:"name"`
		Reason string `yaml:"reason"`
	} `yaml:"records"`
}

// ParseYAML reads a hand-maintained watchlist:
//
//	records:
//	  - {id: "1", type: individual, name: "Jane Danald", reason: "internal"}
func ParseYAML(r io.Reader, source string) ([]RawRecord, error) {
	var list yamlList
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml watchlist: %w", err)
	}
	out := make([]RawRecord, 0, len(list.Records))
	for _, rec := range list.Records {
		out = append(out, RawRecord{
			ID:     rec.ID,
			Type:   rec.Type,
			Name:   rec.Name,
			Reason: rec.Reason,
			Source: source,
		})
	}
	return out, nil
}
