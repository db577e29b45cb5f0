package domain

import (
	"math"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
)

// ledgerCompareTolerance absorbs float summation noise when checking declared
// totals against computed sums. Real imbalances are whole fractions of gallons.
const ledgerCompareTolerance = 1e-6

// BulkWinesLedger mirrors the 32 numbered lines of the bulk wines section of
// TTB F 5120.17 for a single tax class. All figures are wine gallons.
//
// Lines 1-10 are receipts and production, line 11 their total. Lines 12-26 are
// dispositions, line 27 their total. Lines 28-31 decompose ending inventory,
// line 32 their total. Everything available must be disposed or on hand:
// line 11 = line 27 + line 32.
type BulkWinesLedger struct {
	Line1OnHandFirstOfPeriod     float64 `json:"line1_onHandFirstOfPeriod"`
	Line2ProducedByFermentation  float64 `json:"line2_producedByFermentation"`
	Line3ProducedBySweetening    float64 `json:"line3_producedBySweetening"`
	Line4ProducedByWineSpirits   float64 `json:"line4_producedByAdditionOfWineSpirits"`
	Line5ProducedByAmelioration  float64 `json:"line5_producedByAmelioration"`
	Line6ProducedByBlending      float64 `json:"line6_producedByBlending"`
	Line7ReceivedInBond          float64 `json:"line7_receivedInBond"`
	Line8TaxpaidReturnedToBond   float64 `json:"line8_taxpaidWineReturnedToBond"`
	Line9BottledWineDumpedToBulk float64 `json:"line9_bottledWineDumpedToBulk"`
	Line10OtherReceipts          float64 `json:"line10_otherReceipts"`
	Line11TotalAvailable         float64 `json:"line11_totalAvailable"`
	Line12RemovedTaxpaid         float64 `json:"line12_removedTaxpaid"`
	Line13TransferredInBond      float64 `json:"line13_transferredInBond"`
	Line14RemovedForExport       float64 `json:"line14_removedForExport"`
	Line15BottledOrPacked        float64 `json:"line15_bottledOrPacked"`
	Line16UsedForDistilling      float64 `json:"line16_usedForDistillingMaterial"`
	Line17UsedForVinegarStock    float64 `json:"line17_usedForVinegarStock"`
	Line18UsedForSweetening      float64 `json:"line18_usedForSweetening"`
	Line19UsedForAmelioration    float64 `json:"line19_usedForAmelioration"`
	Line20UsedForTasting         float64 `json:"line20_usedForTastingOrSamples"`
	Line21Destroyed              float64 `json:"line21_destroyed"`
	Line22BreakageAndCasualty    float64 `json:"line22_breakageAndCasualtyLoss"`
	Line23StorageLosses          float64 `json:"line23_storageLosses"`
	Line24InventoryShortage      float64 `json:"line24_inventoryShortage"`
	Line25ReturnedToFermenters   float64 `json:"line25_returnedToFermenters"`
	Line26OtherRemovals          float64 `json:"line26_otherRemovals"`
	Line27TotalDispositions      float64 `json:"line27_totalDispositions"`
	Line28OnHandInFermenters     float64 `json:"line28_onHandInFermenters"`
	Line29OnHandInStorage        float64 `json:"line29_onHandInStorage"`
	Line30OnHandInProcessing     float64 `json:"line30_onHandInProcessing"`
	Line31OnHandOtherBulk        float64 `json:"line31_onHandOtherBulk"`
	Line32TotalOnHandEndOfPeriod float64 `json:"line32_totalOnHandEndOfPeriod"`
}

func (l *BulkWinesLedger) sumReceipts() float64 {
	return l.Line1OnHandFirstOfPeriod + l.Line2ProducedByFermentation + l.Line3ProducedBySweetening +
		l.Line4ProducedByWineSpirits + l.Line5ProducedByAmelioration + l.Line6ProducedByBlending +
		l.Line7ReceivedInBond + l.Line8TaxpaidReturnedToBond + l.Line9BottledWineDumpedToBulk +
		l.Line10OtherReceipts
}

func (l *BulkWinesLedger) sumDispositions() float64 {
	return l.Line12RemovedTaxpaid + l.Line13TransferredInBond + l.Line14RemovedForExport +
		l.Line15BottledOrPacked + l.Line16UsedForDistilling + l.Line17UsedForVinegarStock +
		l.Line18UsedForSweetening + l.Line19UsedForAmelioration + l.Line20UsedForTasting +
		l.Line21Destroyed + l.Line22BreakageAndCasualty + l.Line23StorageLosses +
		l.Line24InventoryShortage + l.Line25ReturnedToFermenters + l.Line26OtherRemovals
}

func (l *BulkWinesLedger) sumOnHandEnd() float64 {
	return l.Line28OnHandInFermenters + l.Line29OnHandInStorage +
		l.Line30OnHandInProcessing + l.Line31OnHandOtherBulk
}

// ComputeTotals fills the three total lines from their constituent lines.
func (l *BulkWinesLedger) ComputeTotals() {
	l.Line11TotalAvailable = l.sumReceipts()
	l.Line27TotalDispositions = l.sumDispositions()
	l.Line32TotalOnHandEndOfPeriod = l.sumOnHandEnd()
}

// Validate checks every total-line identity. It returns a LedgerImbalanceError
// naming the failing line so an inconsistent form is never emitted.
func (l *BulkWinesLedger) Validate(taxClass TaxClass) error {
	if d := l.sumReceipts(); math.Abs(l.Line11TotalAvailable-d) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bulk", 11, l.Line11TotalAvailable, d)
	}
	if d := l.sumDispositions(); math.Abs(l.Line27TotalDispositions-d) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bulk", 27, l.Line27TotalDispositions, d)
	}
	if d := l.sumOnHandEnd(); math.Abs(l.Line32TotalOnHandEndOfPeriod-d) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bulk", 32, l.Line32TotalOnHandEndOfPeriod, d)
	}
	// Wines available must be fully accounted for across dispositions and ending inventory.
	accounted := l.Line27TotalDispositions + l.Line32TotalOnHandEndOfPeriod
	if math.Abs(l.Line11TotalAvailable-accounted) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bulk", 11, l.Line11TotalAvailable, accounted)
	}
	return nil
}

// BottledWinesLedger mirrors the 21 numbered lines of the bottled wines section
// for a single tax class. Lines 1-6 are receipts, line 7 their total; lines 8-18
// are dispositions, line 19 their total; line 20 is ending inventory and line 21
// the accounted-for total, which must equal line 7.
type BottledWinesLedger struct {
	Line1OnHandFirstOfPeriod   float64 `json:"line1_onHandFirstOfPeriod"`
	Line2BottledOrPacked       float64 `json:"line2_bottledOrPacked"`
	Line3ReceivedInBond        float64 `json:"line3_receivedInBond"`
	Line4TaxpaidReturnedToBond float64 `json:"line4_taxpaidWineReturnedToBond"`
	Line5InventoryGains        float64 `json:"line5_inventoryGains"`
	Line6OtherReceipts         float64 `json:"line6_otherReceipts"`
	Line7TotalAvailable        float64 `json:"line7_totalAvailable"`
	Line8RemovedTaxpaid        float64 `json:"line8_removedTaxpaid"`
	Line9TransferredInBond     float64 `json:"line9_transferredInBond"`
	Line10RemovedForExport     float64 `json:"line10_removedForExport"`
	Line11TransferredToCustoms float64 `json:"line11_transferredToCustomsWarehouse"`
	Line12DumpedToBulk         float64 `json:"line12_dumpedToBulk"`
	Line13UsedForTasting       float64 `json:"line13_usedForTastingOrSamples"`
	Line14Destroyed            float64 `json:"line14_destroyed"`
	Line15BreakageAndCasualty  float64 `json:"line15_breakageAndCasualtyLoss"`
	Line16InventoryShortage    float64 `json:"line16_inventoryShortage"`
	Line17ConsumedOnPremises   float64 `json:"line17_consumedOnPremises"`
	Line18OtherRemovals        float64 `json:"line18_otherRemovals"`
	Line19TotalDispositions    float64 `json:"line19_totalDispositions"`
	Line20OnHandEndOfPeriod    float64 `json:"line20_onHandEndOfPeriod"`
	Line21TotalAccountedFor    float64 `json:"line21_totalAccountedFor"`
}

func (l *BottledWinesLedger) sumReceipts() float64 {
	return l.Line1OnHandFirstOfPeriod + l.Line2BottledOrPacked + l.Line3ReceivedInBond +
		l.Line4TaxpaidReturnedToBond + l.Line5InventoryGains + l.Line6OtherReceipts
}

func (l *BottledWinesLedger) sumDispositions() float64 {
	return l.Line8RemovedTaxpaid + l.Line9TransferredInBond + l.Line10RemovedForExport +
		l.Line11TransferredToCustoms + l.Line12DumpedToBulk + l.Line13UsedForTasting +
		l.Line14Destroyed + l.Line15BreakageAndCasualty + l.Line16InventoryShortage +
		l.Line17ConsumedOnPremises + l.Line18OtherRemovals
}

// ComputeTotals fills lines 7, 19 and 21 from their constituent lines.
func (l *BottledWinesLedger) ComputeTotals() {
	l.Line7TotalAvailable = l.sumReceipts()
	l.Line19TotalDispositions = l.sumDispositions()
	l.Line21TotalAccountedFor = l.Line19TotalDispositions + l.Line20OnHandEndOfPeriod
}

// Validate checks the bottled ledger identities, including line 21 == line 7.
func (l *BottledWinesLedger) Validate(taxClass TaxClass) error {
	if d := l.sumReceipts(); math.Abs(l.Line7TotalAvailable-d) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bottled", 7, l.Line7TotalAvailable, d)
	}
	if d := l.sumDispositions(); math.Abs(l.Line19TotalDispositions-d) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bottled", 19, l.Line19TotalDispositions, d)
	}
	accounted := l.Line19TotalDispositions + l.Line20OnHandEndOfPeriod
	if math.Abs(l.Line21TotalAccountedFor-accounted) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bottled", 21, l.Line21TotalAccountedFor, accounted)
	}
	if math.Abs(l.Line7TotalAvailable-l.Line21TotalAccountedFor) > ledgerCompareTolerance {
		return apperrors.NewLedgerImbalanceError(string(taxClass), "bottled", 21, l.Line21TotalAccountedFor, l.Line7TotalAvailable)
	}
	return nil
}

// BrandyTransferKind distinguishes spirits movements on the distillery sub-block.
type BrandyTransferKind string

const (
	BrandyReceived          BrandyTransferKind = "RECEIVED"
	BrandyUsedFortification BrandyTransferKind = "USED_FORTIFICATION"
	CiderSentToDSP          BrandyTransferKind = "CIDER_TO_DSP"
)

// BrandyTransfer is a single movement between the winery and a distilled
// spirits plant (DSP).
type BrandyTransfer struct {
	TransferID     string             `json:"transferID"`
	OrganizationID string             `json:"organizationID"`
	Kind           BrandyTransferKind `json:"kind"`
	DSPRegistry    string             `json:"dspRegistry"` // e.g. "DSP-OR-12345"
	Gallons        float64            `json:"gallons"`
	TransferredAt  time.Time          `json:"transferredAt"`
}

// SpiritsReconRow reconciles one spirits account (cider at DSP, or brandy on hand):
// expectedEnding = opening + received − used; discrepancy = actual − expected.
type SpiritsReconRow struct {
	Label              string  `json:"label"`
	OpeningGallons     float64 `json:"openingGallons"`
	ReceivedGallons    float64 `json:"receivedGallons"`
	UsedGallons        float64 `json:"usedGallons"`
	ExpectedEndGallons float64 `json:"expectedEndGallons"`
	ActualEndGallons   float64 `json:"actualEndGallons"`
	DiscrepancyGallons float64 `json:"discrepancyGallons"`
	HasDiscrepancy     bool    `json:"hasDiscrepancy"`
}

// NewSpiritsReconRow computes the expected ending balance and discrepancy.
func NewSpiritsReconRow(label string, opening, received, used, actualEnd float64) SpiritsReconRow {
	row := SpiritsReconRow{
		Label:            label,
		OpeningGallons:   opening,
		ReceivedGallons:  received,
		UsedGallons:      used,
		ActualEndGallons: actualEnd,
	}
	row.ExpectedEndGallons = opening + received - used
	row.DiscrepancyGallons = actualEnd - row.ExpectedEndGallons
	row.HasDiscrepancy = math.Abs(row.DiscrepancyGallons) > ledgerCompareTolerance
	return row
}

// DistilleryOperations covers the brandy/DSP sub-block of the form.
type DistilleryOperations struct {
	CiderSentToDSPGallons     float64          `json:"ciderSentToDSPGallons"`
	BrandyReceivedGallons     float64          `json:"brandyReceivedGallons"`
	BrandyUsedInFortification float64          `json:"brandyUsedInFortificationGallons"`
	Transfers                 []BrandyTransfer `json:"transfers"`
	CiderRecon                SpiritsReconRow  `json:"ciderRecon"`
	BrandyRecon               SpiritsReconRow  `json:"brandyRecon"`
	CombinedRecon             SpiritsReconRow  `json:"combinedRecon"`
}

// MaterialsUsage is the materials-received-and-used section, by weight or volume.
type MaterialsUsage struct {
	ApplesPoundsReceived     float64 `json:"applesPoundsReceived"`
	ApplesPoundsUsed         float64 `json:"applesPoundsUsed"`
	OtherFruitPoundsReceived float64 `json:"otherFruitPoundsReceived"`
	OtherFruitPoundsUsed     float64 `json:"otherFruitPoundsUsed"`
	HoneyPoundsReceived      float64 `json:"honeyPoundsReceived"`
	HoneyPoundsUsed          float64 `json:"honeyPoundsUsed"`
	SugarPoundsReceived      float64 `json:"sugarPoundsReceived"`
	SugarPoundsUsed          float64 `json:"sugarPoundsUsed"`
	JuiceGallonsReceived     float64 `json:"juiceGallonsReceived"`
	JuiceGallonsUsed         float64 `json:"juiceGallonsUsed"`
}

// TTBForm512017Data is the complete computed Report of Wine Premises Operations
// for one period. Export collaborators render it; they never recompute.
// New optional sections are added as new fields so older persisted snapshots
// keep deserializing.
type TTBForm512017Data struct {
	OrganizationID     string                           `json:"organizationID"`
	PeriodStart        time.Time                        `json:"periodStart"`
	PeriodEnd          time.Time                        `json:"periodEnd"`
	BulkByClass        map[TaxClass]*BulkWinesLedger    `json:"bulkByClass"`
	BottledByClass     map[TaxClass]*BottledWinesLedger `json:"bottledByClass"`
	Distillery         DistilleryOperations             `json:"distillery"`
	Materials          MaterialsUsage                   `json:"materials"`
	InFermenterGallons float64                          `json:"inFermenterGallons"`
	TaxableGallons     map[TaxClass]float64             `json:"taxableGallons"` // taxpaid removals, bulk + bottled
}

// EffervescentBulk derives the display-only effervescent grouping: the sum of
// the carbonated and sparkling bulk ledgers, line by line. It is computed, never
// tracked as its own class, so the grouping cannot cause double entry.
func (f *TTBForm512017Data) EffervescentBulk() BulkWinesLedger {
	var out BulkWinesLedger
	for _, tc := range []TaxClass{TaxClassCarbonatedWine, TaxClassSparklingWine} {
		l, ok := f.BulkByClass[tc]
		if !ok {
			continue
		}
		out.Line1OnHandFirstOfPeriod += l.Line1OnHandFirstOfPeriod
		out.Line2ProducedByFermentation += l.Line2ProducedByFermentation
		out.Line3ProducedBySweetening += l.Line3ProducedBySweetening
		out.Line4ProducedByWineSpirits += l.Line4ProducedByWineSpirits
		out.Line5ProducedByAmelioration += l.Line5ProducedByAmelioration
		out.Line6ProducedByBlending += l.Line6ProducedByBlending
		out.Line7ReceivedInBond += l.Line7ReceivedInBond
		out.Line8TaxpaidReturnedToBond += l.Line8TaxpaidReturnedToBond
		out.Line9BottledWineDumpedToBulk += l.Line9BottledWineDumpedToBulk
		out.Line10OtherReceipts += l.Line10OtherReceipts
		out.Line12RemovedTaxpaid += l.Line12RemovedTaxpaid
		out.Line13TransferredInBond += l.Line13TransferredInBond
		out.Line14RemovedForExport += l.Line14RemovedForExport
		out.Line15BottledOrPacked += l.Line15BottledOrPacked
		out.Line16UsedForDistilling += l.Line16UsedForDistilling
		out.Line17UsedForVinegarStock += l.Line17UsedForVinegarStock
		out.Line18UsedForSweetening += l.Line18UsedForSweetening
		out.Line19UsedForAmelioration += l.Line19UsedForAmelioration
		out.Line20UsedForTasting += l.Line20UsedForTasting
		out.Line21Destroyed += l.Line21Destroyed
		out.Line22BreakageAndCasualty += l.Line22BreakageAndCasualty
		out.Line23StorageLosses += l.Line23StorageLosses
		out.Line24InventoryShortage += l.Line24InventoryShortage
		out.Line25ReturnedToFermenters += l.Line25ReturnedToFermenters
		out.Line26OtherRemovals += l.Line26OtherRemovals
		out.Line28OnHandInFermenters += l.Line28OnHandInFermenters
		out.Line29OnHandInStorage += l.Line29OnHandInStorage
		out.Line30OnHandInProcessing += l.Line30OnHandInProcessing
		out.Line31OnHandOtherBulk += l.Line31OnHandOtherBulk
	}
	out.ComputeTotals()
	return out
}
