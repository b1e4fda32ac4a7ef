package resolve

import (
	"context"
	"errors"
	"testing"

	"fleetwatch/internal/domain"
	"fleetwatch/internal/gfw"
)

type fakeLookup struct {
	searches map[string][]gfw.VesselRecord
	byID     map[string]*gfw.VesselRecord
	searched []string
	err      error
}

func (f *fakeLookup) SearchVessels(_ context.Context, query string) ([]gfw.VesselRecord, error) {
	f.searched = append(f.searched, query)
	if f.err != nil {
		return nil, f.err
	}
	records, ok := f.searches[query]
	if !ok || len(records) == 0 {
		return nil, gfw.ErrNotFound
	}
	return records, nil
}

func (f *fakeLookup) GetVesselByID(_ context.Context, id string) (*gfw.VesselRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.byID[id]
	if !ok {
		return nil, gfw.ErrNotFound
	}
	return rec, nil
}

func record(id, imo, name, flag string) gfw.VesselRecord {
	return gfw.VesselRecord{
		ID:               id,
		SelfReportedInfo: []gfw.SelfReported{{ShipName: name, Flag: flag}},
		RegistryInfo:     []gfw.RegistryEntry{{IMO: imo}},
	}
}

func TestResolveRegistryNumberWinsOverName(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{
		"7700001":  {record("by-imo", "7700001", "ALPHA", "SEN")},
		"SEA STAR": {record("by-name", "9999999", "SEA STAR", "ESP")},
	}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{RegistryNumber: "7700001", Name: "SEA STAR"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v == nil || v.ID != "by-imo" {
		t.Fatalf("registry-number match must win, got %+v", v)
	}
	if len(lookup.searched) != 1 {
		t.Fatalf("name search must not run after a registry-number hit, searches=%v", lookup.searched)
	}
}

func TestResolveRegistryNumberTieBreak(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{
		"7700001": {
			record("loose", "1234567", "OTHER", "ESP"),
			record("exact", "7700001", "ALPHA", "SEN"),
		},
	}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{RegistryNumber: "7700001"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v.ID != "exact" {
		t.Fatalf("exact registry-number candidate must win the tie-break, got %s", v.ID)
	}
}

func TestResolveSingleCandidateTakenAsIs(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{
		"7700001": {record("only", "1111111", "ALPHA", "SEN")},
	}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{RegistryNumber: "7700001"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v.ID != "only" {
		t.Fatalf("single candidate must be taken even without exact match, got %s", v.ID)
	}
}

func TestResolveNamePrefersEmbeddedRegistryMatch(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{
		"SEA STAR": {
			record("first", "1234567", "SEA STAR", "ESP"),
			record("matching", "7700001", "SEA STAR", "SEN"),
		},
	}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{RegistryNumber: "7700001", Name: "SEA STAR"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v.ID != "matching" {
		t.Fatalf("name candidate with matching registry number must win, got %s", v.ID)
	}
}

func TestResolveNameFallsBackToFirstCandidate(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{
		"SEA STAR": {
			record("first", "1234567", "SEA STAR", "ESP"),
			record("second", "7654321", "SEA STAR II", "SEN"),
		},
	}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{Name: "SEA STAR"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v.ID != "first" {
		t.Fatalf("first name candidate must win without a registry number, got %s", v.ID)
	}
}

func TestResolveSkipsUnknownSentinelName(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{Name: "Unknown"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v != nil {
		t.Fatalf("sentinel name must not resolve, got %+v", v)
	}
	if len(lookup.searched) != 0 {
		t.Fatalf("sentinel name must not be searched, searches=%v", lookup.searched)
	}
}

func TestResolveInternalIDFallback(t *testing.T) {
	rec := record("direct", "7700001", "ALPHA", "SEN")
	lookup := &fakeLookup{
		searches: map[string][]gfw.VesselRecord{},
		byID:     map[string]*gfw.VesselRecord{"direct": &rec},
	}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{
		RegistryNumber: "7700001",
		Name:           "ALPHA",
		InternalID:     "direct",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v == nil || v.ID != "direct" {
		t.Fatalf("internal-id fallback must resolve, got %+v", v)
	}
}

func TestResolveNotFoundIsNotAnError(t *testing.T) {
	lookup := &fakeLookup{searches: map[string][]gfw.VesselRecord{}}
	r := New(lookup)

	v, err := r.Resolve(context.Background(), domain.SeedIdentity{RegistryNumber: "0000000", Name: "GHOST"})
	if err != nil {
		t.Fatalf("exhausted strategies must not error: %v", err)
	}
	if v != nil {
		t.Fatalf("expected no match, got %+v", v)
	}
}

func TestResolveSurfacesUpstreamFailure(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}
	r := New(lookup)

	_, err := r.Resolve(context.Background(), domain.SeedIdentity{RegistryNumber: "7700001"})
	if err == nil {
		t.Fatal("upstream failure must propagate")
	}
}

func TestBuildVesselFillForwardNeverClobbers(t *testing.T) {
	length := 42.5
	power := 1200.0
	rec := &gfw.VesselRecord{
		ID: "v1",
		SelfReportedInfo: []gfw.SelfReported{
			{ShipName: "ALPHA", Flag: ""},
		},
		RegistryInfo: []gfw.RegistryEntry{
			{VesselName: "ALPHA I", Flag: "SEN", LengthMeters: &length},
			{VesselName: "", Flag: "ESP", EnginePowerKw: &power}, // later values must not clobber
		},
	}

	v := buildVessel(rec)
	if v.Name != "ALPHA" {
		t.Fatalf("self-reported name must win, got %q", v.Name)
	}
	if v.Flag != "SEN" {
		t.Fatalf("first non-empty flag must stick, got %q", v.Flag)
	}
	if v.LengthMeters == nil || *v.LengthMeters != 42.5 {
		t.Fatalf("length not filled: %+v", v.LengthMeters)
	}
	if v.EnginePowerKw == nil || *v.EnginePowerKw != 1200.0 {
		t.Fatalf("later source must still fill empty fields: %+v", v.EnginePowerKw)
	}
}

func TestBuildVesselUnknownStaysUnknown(t *testing.T) {
	v := buildVessel(&gfw.VesselRecord{ID: "v2"})
	if v.LengthMeters != nil || v.EnginePowerKw != nil || v.GrossTonnage != nil {
		t.Fatalf("missing specs must stay nil, got %+v", v)
	}
	if v.Flag != "" || v.Name != "" {
		t.Fatalf("missing identity must stay empty, got %+v", v)
	}
}

func TestOwnershipDescriptor(t *testing.T) {
	var owners []gfw.OwnerOperator
	add := func(name, country string) {
		var o gfw.OwnerOperator
		o.Owner.Name = name
		o.Owner.Country = country
		owners = append(owners, o)
	}
	add("Pesca Atlantica SA", "ESP")
	add("", "CHN") // incomplete entries are skipped
	add("Local Coop", "SEN")

	got := ownershipDescriptor(owners)
	want := "Pesca Atlantica SA (ESP); Local Coop (SEN)"
	if got != want {
		t.Fatalf("ownership descriptor = %q, want %q", got, want)
	}
}
