package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rumbo-transit/rumbo_core/internal/models"
)

// fileNetwork mirrors the JSON network definition:
//
//	{
//	  "stations": {"Portal del Norte": {"lat": 4.75, "lon": -74.05}, ...},
//	  "links": [["Portal del Norte", "Toberín", "AUTONORTE", 5], ...],
//	  "transfer_penalty": 4
//	}
type fileNetwork struct {
	Stations        map[string]fileCoordinate `json:"stations"`
	Links           []linkRow                 `json:"links"`
	TransferPenalty int                       `json:"transfer_penalty"`
}

type fileCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// linkRow is one [from, to, line, minutes] tuple. The row mixes strings
// and a number, so it needs a custom decoder.
type linkRow struct {
	From string
	To   string
	Line string
	Time int
}

func (l *linkRow) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("link row must have 4 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.From); err != nil {
		return fmt.Errorf("link row from: %w", err)
	}
	if err := json.Unmarshal(raw[1], &l.To); err != nil {
		return fmt.Errorf("link row to: %w", err)
	}
	if err := json.Unmarshal(raw[2], &l.Line); err != nil {
		return fmt.Errorf("link row line: %w", err)
	}
	var minutes float64
	if err := json.Unmarshal(raw[3], &minutes); err != nil {
		return fmt.Errorf("link row time: %w", err)
	}
	l.Time = int(minutes)
	return nil
}

// Parse decodes a JSON network definition. Stations are emitted in sorted
// name order so the resulting configuration is deterministic; semantic
// validation (negative times, dangling links) happens at graph
// construction.
func Parse(r io.Reader) (models.NetworkConfig, error) {
	var file fileNetwork
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return models.NetworkConfig{}, fmt.Errorf("failed to decode network definition: %w", err)
	}

	names := make([]string, 0, len(file.Stations))
	for name := range file.Stations {
		names = append(names, name)
	}
	sort.Strings(names)

	cfg := models.NetworkConfig{TransferPenalty: file.TransferPenalty}
	for _, name := range names {
		coord := file.Stations[name]
		cfg.Stations = append(cfg.Stations, models.Station{Name: name, Lat: coord.Lat, Lon: coord.Lon})
	}
	for _, row := range file.Links {
		cfg.Links = append(cfg.Links, models.Link{From: row.From, To: row.To, Line: row.Line, Time: row.Time})
	}

	return cfg, nil
}

// LoadFile reads and parses a JSON network definition from disk.
func LoadFile(path string) (models.NetworkConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.NetworkConfig{}, fmt.Errorf("failed to open network file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
