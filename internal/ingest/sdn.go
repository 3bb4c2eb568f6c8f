package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type sdnEntry struct {
	UID       string   `xml:"uid"`
	FirstName string   `xml:"firstName"`
	LastName  string   `xml:"lastName"`
	SDNType   string   `xml:"sdnType"`
	Programs  []string `xml:"programList>program"`
	Remarks   string   `xml:"remarks"`
	Akas      []sdnAka `xml:"akaList>aka"`
}

type sdnAka struct {
	UID       string `xml:"uid"`
	Category  string `xml:"category"`
	FirstName string `xml:"firstName"`
	LastName  string `xml:"lastName"`
}

// SDNStats counts what the parser saw.
type SDNStats struct {
	Entries      int
	Aliases      int
	UnknownTypes int
}

// ParseSDN streams an OFAC SDN XML document. Entities are named by lastName and
// individuals by "firstName lastName"; other sdnTypes (vessels, aircraft) are
// counted and skipped. Each aka becomes its own record with ID "<uid>-aka-<akaUID>".
func ParseSDN(r io.Reader, source string) ([]RawRecord, SDNStats, error) {
	var (
		stats   SDNStats
		records []RawRecord
	)
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("parse sdn xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sdnEntry" {
			continue
		}

		var entry sdnEntry
		if err := dec.DecodeElement(&entry, &start); err != nil {
			return nil, stats, fmt.Errorf("decode sdn entry: %w", err)
		}
		stats.Entries++

		recordType := strings.ToUpper(strings.TrimSpace(entry.SDNType))
		if recordType != "ENTITY" && recordType != "INDIVIDUAL" {
			stats.UnknownTypes++
			continue
		}
		reason := sdnReason(entry)
		id := strings.TrimSpace(entry.UID)

		records = append(records, RawRecord{
			ID:     id,
			Type:   recordType,
			Name:   sdnName(recordType, entry.FirstName, entry.LastName),
			Reason: reason,
			Source: source,
		})
		for _, aka := range entry.Akas {
			stats.Aliases++
			records = append(records, RawRecord{
				ID:     id + "-aka-" + strings.TrimSpace(aka.UID),
				Type:   recordType,
				Name:   sdnName(recordType, aka.FirstName, aka.LastName),
				Reason: reason,
				Source: source,
			})
		}
	}
	return records, stats, nil
}

func sdnName(recordType, first, last string) string {
	last = strings.TrimSpace(last)
	if recordType == "ENTITY" {
		return last
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + last)
}

func sdnReason(e sdnEntry) string {
	parts := make([]string, 0, 2)
	if len(e.Programs) > 0 {
		parts = append(parts, strings.Join(e.Programs, "; "))
	}
	if r := strings.TrimSpace(e.Remarks); r != "" {
		parts = append(parts, r)
	}
	return strings.Join(parts, " | ")
}
