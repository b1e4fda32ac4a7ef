// Package input reads the seed vessel list: a CSV with an IMO column
// and/or a vessel name column, as produced by upstream fleet registers
// and cleaning scripts.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"fleetwatch/internal/domain"
)

// ReadSeeds parses the CSV at path into seed identities. Header names
// are matched case-insensitively with spaces/underscores ignored, so
// "IMO", "imo", "Vessel Name", "vessel_name" and "SSID" all work. Rows
// with neither a registry number nor a name are skipped with a warning.
func ReadSeeds(path string) ([]domain.SeedIdentity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed list: %w", err)
	}
	defer f.Close()
	return parseSeeds(f)
}

func parseSeeds(r io.Reader) ([]domain.SeedIdentity, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading seed list header: %w", err)
	}
	imoCol, nameCol, idCol := -1, -1, -1
	for i, h := range header {
		switch normalizeHeader(h) {
		case "imo", "imonumber", "registrynumber":
			imoCol = i
		case "vesselname", "name", "shipname":
			nameCol = i
		case "ssid", "vesselid", "id":
			idCol = i
		}
	}
	if imoCol < 0 && nameCol < 0 && idCol < 0 {
		return nil, fmt.Errorf("seed list has no IMO, name, or id column (header: %v)", header)
	}

	var seeds []domain.SeedIdentity
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading seed list line %d: %w", line, err)
		}
		seed := domain.SeedIdentity{
			RegistryNumber: cellValue(row, imoCol),
			Name:           cellValue(row, nameCol),
			InternalID:     cellValue(row, idCol),
		}
		if seed.RegistryNumber == "" && seed.Name == "" && seed.InternalID == "" {
			log.Printf("seed list line %d: no identifier, skipping", line)
			continue
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}

// cellValue trims a cell and discards placeholder values that upstream
// exports use for missing data.
func cellValue(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[col])
	switch strings.ToLower(v) {
	case "nan", "n/a", "none", "null":
		return ""
	}
	return v
}
