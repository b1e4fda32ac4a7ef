package gfw

import (
	"context"
	"errors"
	"net/url"
)

// VesselRecord is one identity entry as returned by the registry. A
// record aggregates self-reported AIS identity, registry entries, and
// ownership sub-records; any of them may be missing or partial.
type VesselRecord struct {
	ID               string          `json:"id"`
	SelfReportedInfo []SelfReported  `json:"selfReportedInfo"`
	RegistryInfo     []RegistryEntry `json:"registryInfo"`
	OwnerInfo        []OwnerOperator `json:"ownerOperatorInfo"`
}

type SelfReported struct {
	ShipName string `json:"shipname"`
	Flag     string `json:"flag"`
	ShipType string `json:"shiptype"`
}

type RegistryEntry struct {
	VesselName    string   `json:"vesselName"`
	Flag          string   `json:"flag"`
	IMO           string   `json:"imo"`
	LengthMeters  *float64 `json:"lengthMeters"`
	EnginePowerKw *float64 `json:"enginePowerKw"`
	GrossTonnage  *float64 `json:"grossTonnage"`
	GearType      string   `json:"geartype"`
}

type OwnerOperator struct {
	Owner struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"owner"`
}

type FlagEntry struct {
	Flag string `json:"flag"`
}

type searchResponse struct {
	Entries []VesselRecord `json:"entries"`
}

type flagHistoryResponse struct {
	FlagHistory []FlagEntry `json:"flagHistory"`
}

// SearchVessels queries the identity dataset by free text (IMO number or
// vessel name). An empty candidate list is returned as ErrNotFound.
func (c *Client) SearchVessels(ctx context.Context, query string) ([]VesselRecord, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("datasets[0]", identityDataset)
	params.Set("includes[0]", "OWNERSHIP")
	params.Set("includes[1]", "MATCH_CRITERIA")

	var resp searchResponse
	if err := c.getJSON(ctx, "/vessels/search", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, ErrNotFound
	}
	return resp.Entries, nil
}

// GetVesselByID fetches a single identity record by registry vessel id.
func (c *Client) GetVesselByID(ctx context.Context, id string) (*VesselRecord, error) {
	params := url.Values{}
	params.Set("dataset", identityDataset)

	var rec VesselRecord
	if err := c.getJSON(ctx, "/vessels/"+url.PathEscape(id), params, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// FlagHistory returns the chronological flag registrations for a vessel.
// A vessel without history yields an empty slice, not an error.
func (c *Client) FlagHistory(ctx context.Context, id string) ([]FlagEntry, error) {
	var resp flagHistoryResponse
	err := c.getJSON(ctx, "/vessels/"+url.PathEscape(id)+"/flag-history", nil, &resp)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.FlagHistory, nil
}
