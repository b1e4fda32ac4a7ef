package domain

// SeedIdentity is one row of the input vessel list: a loosely identified
// vessel that still needs to be resolved against the registry.
type SeedIdentity struct {
	RegistryNumber string // IMO number as reported upstream, may be empty
	Name           string // free-text vessel name, may be empty or "Unknown"
	InternalID     string // registry vessel id when already known
}

// Vessel is the canonical identity record produced by resolution.
// Unknown is a first-class value: strings stay empty and numeric specs
// stay nil rather than being coerced to zero.
type Vessel struct {
	ID            string
	Name          string
	Flag          string // ISO alpha-3 country code, empty when unknown
	LengthMeters  *float64
	EnginePowerKw *float64
	GrossTonnage  *float64
	GearType      string
	ShipType      string
	Ownership     string // "Owner Name (CODE); ..." descriptor, empty when unknown
}

type Label string

const (
	LabelCompliant  Label = "Compliant"
	LabelSuspect    Label = "Suspect"
	LabelForeign    Label = "Flagged-Foreign"
	LabelUnresolved Label = "Unresolved"
	LabelError      Label = "Error"
)

// Result is the classification verdict for a single vessel. Only the
// classifier constructs these; everything downstream treats them as
// immutable.
type Result struct {
	VesselID string
	Label    Label
	Score    int
	Reasons  []string
}
