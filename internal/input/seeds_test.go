package input

import (
	"strings"
	"testing"
)

func TestParseSeeds(t *testing.T) {
	csvData := `IMO,Vessel Name,SSID
7700001,ALPHA,
,SEA STAR,
8800002,,v-123
nan,Unknown,
,,
`
	seeds, err := parseSeeds(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseSeeds failed: %v", err)
	}
	if len(seeds) != 4 {
		t.Fatalf("expected 4 seeds (empty row skipped), got %d", len(seeds))
	}
	if seeds[0].RegistryNumber != "7700001" || seeds[0].Name != "ALPHA" {
		t.Fatalf("seed 0 = %+v", seeds[0])
	}
	if seeds[1].RegistryNumber != "" || seeds[1].Name != "SEA STAR" {
		t.Fatalf("seed 1 = %+v", seeds[1])
	}
	if seeds[2].InternalID != "v-123" {
		t.Fatalf("seed 2 = %+v", seeds[2])
	}
	// "nan" IMO is a placeholder; the sentinel name is kept as-is and
	// filtered at resolution time.
	if seeds[3].RegistryNumber != "" || seeds[3].Name != "Unknown" {
		t.Fatalf("seed 3 = %+v", seeds[3])
	}
}

func TestParseSeedsHeaderVariants(t *testing.T) {
	cases := []string{
		"imo,vessel_name\n7700001,ALPHA\n",
		"IMO Number,Name\n7700001,ALPHA\n",
		"registry_number,shipname\n7700001,ALPHA\n",
	}
	for _, csvData := range cases {
		seeds, err := parseSeeds(strings.NewReader(csvData))
		if err != nil {
			t.Fatalf("parseSeeds(%q) failed: %v", csvData, err)
		}
		if len(seeds) != 1 || seeds[0].RegistryNumber != "7700001" || seeds[0].Name != "ALPHA" {
			t.Fatalf("parseSeeds(%q) = %+v", csvData, seeds)
		}
	}
}

func TestParseSeedsMissingColumns(t *testing.T) {
	_, err := parseSeeds(strings.NewReader("foo,bar\n1,2\n"))
	if err == nil {
		t.Fatal("expected an error for a header without identity columns")
	}
}
