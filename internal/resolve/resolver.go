// Package resolve maps a loosely identified vessel to its canonical
// registry record. Upstream identity data is inconsistent: the same
// vessel may be findable by IMO number, by name, or only by its registry
// id, and the record's attributes are scattered across self-reported and
// registry sub-records.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleetwatch/internal/domain"
	"fleetwatch/internal/gfw"
)

// Names reported as this sentinel carry no information and are never
// used for lookup.
const unknownName = "Unknown"

// Lookup is the registry capability the resolver needs. *gfw.Client
// satisfies it.
type Lookup interface {
	SearchVessels(ctx context.Context, query string) ([]gfw.VesselRecord, error)
	GetVesselByID(ctx context.Context, id string) (*gfw.VesselRecord, error)
}

type Resolver struct {
	lookup Lookup
}

func New(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve tries each lookup strategy in strict precedence order:
// registry number, then name, then internal id. First success wins.
// (nil, nil) means no strategy matched, which is a normal outcome.
func (r *Resolver) Resolve(ctx context.Context, seed domain.SeedIdentity) (*domain.Vessel, error) {
	if seed.RegistryNumber != "" {
		records, err := r.lookup.SearchVessels(ctx, seed.RegistryNumber)
		if err != nil && !errors.Is(err, gfw.ErrNotFound) {
			return nil, fmt.Errorf("searching by registry number %s: %w", seed.RegistryNumber, err)
		}
		if rec := pickByRegistryNumber(records, seed.RegistryNumber); rec != nil {
			return buildVessel(rec), nil
		}
	}

	if seed.Name != "" && seed.Name != unknownName {
		records, err := r.lookup.SearchVessels(ctx, seed.Name)
		if err != nil && !errors.Is(err, gfw.ErrNotFound) {
			return nil, fmt.Errorf("searching by name %q: %w", seed.Name, err)
		}
		if rec := pickByName(records, seed.RegistryNumber); rec != nil {
			return buildVessel(rec), nil
		}
	}

	if seed.InternalID != "" {
		rec, err := r.lookup.GetVesselByID(ctx, seed.InternalID)
		if err != nil && !errors.Is(err, gfw.ErrNotFound) {
			return nil, fmt.Errorf("fetching vessel %s: %w", seed.InternalID, err)
		}
		if rec != nil {
			return buildVessel(rec), nil
		}
	}

	return nil, nil
}

// pickByRegistryNumber chooses among registry-number search candidates.
// With more than one candidate, an entry whose embedded registry number
// textually equals the query wins; otherwise the first candidate does.
func pickByRegistryNumber(records []gfw.VesselRecord, registryNumber string) *gfw.VesselRecord {
	if len(records) == 0 {
		return nil
	}
	if len(records) > 1 {
		for i := range records {
			if hasRegistryNumber(&records[i], registryNumber) {
				return &records[i]
			}
		}
	}
	return &records[0]
}

// pickByName chooses among name search candidates, preferring one whose
// embedded registry number matches the supplied one when available.
func pickByName(records []gfw.VesselRecord, registryNumber string) *gfw.VesselRecord {
	if len(records) == 0 {
		return nil
	}
	if registryNumber != "" {
		for i := range records {
			if hasRegistryNumber(&records[i], registryNumber) {
				return &records[i]
			}
		}
	}
	return &records[0]
}

func hasRegistryNumber(rec *gfw.VesselRecord, registryNumber string) bool {
	for _, reg := range rec.RegistryInfo {
		if reg.IMO != "" && reg.IMO == registryNumber {
			return true
		}
	}
	return false
}

// partial is one sub-record's contribution to the canonical vessel.
type partial struct {
	Name     string
	Flag     string
	ShipType string
	GearType string
	Length   *float64
	Power    *float64
	Tonnage  *float64
}

// buildVessel assembles the canonical record by scanning all sub-records
// in precedence order (self-reported first, then registry entries) and
// filling each field from the first non-empty value. A later value never
// overwrites a populated field.
func buildVessel(rec *gfw.VesselRecord) *domain.Vessel {
	parts := make([]partial, 0, len(rec.SelfReportedInfo)+len(rec.RegistryInfo))
	for _, s := range rec.SelfReportedInfo {
		parts = append(parts, partial{Name: s.ShipName, Flag: s.Flag, ShipType: s.ShipType})
	}
	for _, reg := range rec.RegistryInfo {
		parts = append(parts, partial{
			Name:     reg.VesselName,
			Flag:     reg.Flag,
			GearType: reg.GearType,
			Length:   reg.LengthMeters,
			Power:    reg.EnginePowerKw,
			Tonnage:  reg.GrossTonnage,
		})
	}

	v := &domain.Vessel{ID: rec.ID}
	for _, p := range parts {
		fillForward(v, p)
	}
	v.Ownership = ownershipDescriptor(rec.OwnerInfo)
	return v
}

func fillForward(v *domain.Vessel, p partial) {
	fillString(&v.Name, p.Name)
	fillString(&v.Flag, p.Flag)
	fillString(&v.ShipType, p.ShipType)
	fillString(&v.GearType, p.GearType)
	fillFloat(&v.LengthMeters, p.Length)
	fillFloat(&v.EnginePowerKw, p.Power)
	fillFloat(&v.GrossTonnage, p.Tonnage)
}

func fillString(dst *string, val string) {
	if *dst == "" && val != "" {
		*dst = val
	}
}

func fillFloat(dst **float64, val *float64) {
	if *dst == nil && val != nil {
		*dst = val
	}
}

func ownershipDescriptor(owners []gfw.OwnerOperator) string {
	var entries []string
	for _, o := range owners {
		if o.Owner.Name == "" || o.Owner.Country == "" {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s (%s)", o.Owner.Name, o.Owner.Country))
	}
	return strings.Join(entries, "; ")
}
