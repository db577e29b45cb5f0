package domain

// VolumeUnit is a measurement unit for wine volumes. The engine computes in liters
// and converts to wine gallons only at the reporting boundary.
type VolumeUnit string

const (
	UnitLiters      VolumeUnit = "L"
	UnitWineGallons VolumeUnit = "GAL"
)

// LitersPerWineGallon is the exact statutory conversion factor. It is a fixed
// constant, not an approximation; round-trips must hold within float tolerance.
const LitersPerWineGallon = 3.785411784

// VolumeAmount is a non-negative volume with its unit.
type VolumeAmount struct {
	Magnitude float64    `json:"magnitude"`
	Unit      VolumeUnit `json:"unit"`
}
