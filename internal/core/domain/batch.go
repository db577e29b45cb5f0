package domain

import "time"

// Vessel is a bulk container (tank, barrel, fermenter) on the bonded premises.
type Vessel struct {
	VesselID       string  `json:"vesselID"`    // Primary Key (e.g., UUID)
	OrganizationID string  `json:"organizationID"`
	Name           string  `json:"name"`
	CapacityLiters float64 `json:"capacityLiters"`
	IsFermenter    bool    `json:"isFermenter"` // counted on the in-fermenter line of the form
	AuditFields
}

// BatchSnapshot is the point-in-time state of a batch as it stood on a given date.
// Classification attributes (ABV, carbonation, product type) are frozen at the
// snapshot; later remeasurement produces a new snapshot rather than mutating this one.
type BatchSnapshot struct {
	BatchID         string           `json:"batchID"`
	OrganizationID  string           `json:"organizationID"`
	VesselID        *string          `json:"vesselID,omitempty"` // nil once fully packaged
	ProductType     ProductType      `json:"productType"`
	Carbonation     CarbonationLevel `json:"carbonation"`
	ForceCarbonated bool             `json:"forceCarbonated"`    // artificially carbonated (not bottle/tank fermented)
	ABV             *float64         `json:"abv,omitempty"`      // percent by volume; nil when never measured
	VolumeLiters    float64          `json:"volumeLiters"`       // latest measured volume, or initial volume if unmeasured
	HarvestYear     int              `json:"harvestYear"`
	MeasuredAt      time.Time        `json:"measuredAt"`
	// MergedIntoBatchID is set when this batch was blended into another batch via
	// transfer. The merged batch carries the combined volume; a snapshot with this
	// field set must not contribute to inventory or the blend is double-counted.
	MergedIntoBatchID *string `json:"mergedIntoBatchID,omitempty"`
}

// InFermenter reports whether the snapshot's volume sits in a fermenting vessel.
func (b BatchSnapshot) InFermenter(vessels map[string]Vessel) bool {
	if b.VesselID == nil {
		return false
	}
	v, ok := vessels[*b.VesselID]
	return ok && v.IsFermenter
}

// PackagingRun is a completed fill of a batch into consumer containers. The tax
// class attributes are frozen from the batch at packaging time.
type PackagingRun struct {
	PackagingID     string           `json:"packagingID"`
	OrganizationID  string           `json:"organizationID"`
	BatchID         string           `json:"batchID"`
	ProductType     ProductType      `json:"productType"`
	Carbonation     CarbonationLevel `json:"carbonation"`
	ForceCarbonated bool             `json:"forceCarbonated"`
	ABV             *float64         `json:"abv,omitempty"`
	VolumeLiters    float64          `json:"volumeLiters"`
	HarvestYear     int              `json:"harvestYear"`
	PackagedAt      time.Time        `json:"packagedAt"`
	RemovedAt       *time.Time       `json:"removedAt,omitempty"` // set when sold/removed from bond
}

// RemovalKind partitions removals for the disposition lines of the form.
type RemovalKind string

const (
	RemovalTaxpaid     RemovalKind = "TAXPAID"      // removed on payment of tax
	RemovalInBond      RemovalKind = "IN_BOND"      // transferred in bond to other premises
	RemovalExport      RemovalKind = "EXPORT"       // exported without payment of tax
	RemovalDistilling  RemovalKind = "DISTILLING"   // used as distilling material (to DSP)
	RemovalBreakage    RemovalKind = "BREAKAGE"     // breakage and casualty losses
	RemovalDestroyed   RemovalKind = "DESTROYED"    // destroyed under TTB supervision
	RemovalTastingRoom RemovalKind = "TASTING_ROOM" // consumed in tasting without tax determination
	RemovalOther       RemovalKind = "OTHER"
)

// Removal is volume leaving bond. Its tax class is frozen at removal time so
// later batch reclassification never rewrites filed history.
type Removal struct {
	RemovalID      string      `json:"removalID"`
	OrganizationID string      `json:"organizationID"`
	BatchID        *string     `json:"batchID,omitempty"`
	PackagingID    *string     `json:"packagingID,omitempty"`
	TaxClass       TaxClass    `json:"taxClass"`
	Kind           RemovalKind `json:"kind"`
	VolumeLiters   float64     `json:"volumeLiters"`
	FromBulk       bool        `json:"fromBulk"` // bulk removal vs bottled removal
	RemovedAt      time.Time   `json:"removedAt"`
}
