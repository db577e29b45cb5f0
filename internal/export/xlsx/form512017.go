// Package xlsx renders computed TTB form data as Excel workbooks. Renderers
// only format figures already present on the form; they never recompute them.
package xlsx

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/utils/volume"
)

const (
	bulkSheet       = "Bulk Wines"
	bottledSheet    = "Bottled Wines"
	distillerySheet = "Distillery & Materials"

	gallonsFormat = "#,##0.0"
)

// bulkLine pairs a form line label with an accessor so every tax class column
// renders the same 32 rows in order.
type bulkLine struct {
	label string
	value func(*domain.BulkWinesLedger) float64
}

var bulkLines = []bulkLine{
	{"1. On hand first of period", func(l *domain.BulkWinesLedger) float64 { return l.Line1OnHandFirstOfPeriod }},
	{"2. Produced by fermentation", func(l *domain.BulkWinesLedger) float64 { return l.Line2ProducedByFermentation }},
	{"3. Produced by sweetening", func(l *domain.BulkWinesLedger) float64 { return l.Line3ProducedBySweetening }},
	{"4. Produced by addition of wine spirits", func(l *domain.BulkWinesLedger) float64 { return l.Line4ProducedByWineSpirits }},
	{"5. Produced by amelioration", func(l *domain.BulkWinesLedger) float64 { return l.Line5ProducedByAmelioration }},
	{"6. Produced by blending", func(l *domain.BulkWinesLedger) float64 { return l.Line6ProducedByBlending }},
	{"7. Received in bond", func(l *domain.BulkWinesLedger) float64 { return l.Line7ReceivedInBond }},
	{"8. Taxpaid wine returned to bond", func(l *domain.BulkWinesLedger) float64 { return l.Line8TaxpaidReturnedToBond }},
	{"9. Bottled wine dumped to bulk", func(l *domain.BulkWinesLedger) float64 { return l.Line9BottledWineDumpedToBulk }},
	{"10. Other receipts", func(l *domain.BulkWinesLedger) float64 { return l.Line10OtherReceipts }},
	{"11. TOTAL available", func(l *domain.BulkWinesLedger) float64 { return l.Line11TotalAvailable }},
	{"12. Removed taxpaid", func(l *domain.BulkWinesLedger) float64 { return l.Line12RemovedTaxpaid }},
	{"13. Transferred in bond", func(l *domain.BulkWinesLedger) float64 { return l.Line13TransferredInBond }},
	{"14. Removed for export", func(l *domain.BulkWinesLedger) float64 { return l.Line14RemovedForExport }},
	{"15. Bottled or packed", func(l *domain.BulkWinesLedger) float64 { return l.Line15BottledOrPacked }},
	{"16. Used for distilling material", func(l *domain.BulkWinesLedger) float64 { return l.Line16UsedForDistilling }},
	{"17. Used for vinegar stock", func(l *domain.BulkWinesLedger) float64 { return l.Line17UsedForVinegarStock }},
	{"18. Used for sweetening", func(l *domain.BulkWinesLedger) float64 { return l.Line18UsedForSweetening }},
	{"19. Used for amelioration", func(l *domain.BulkWinesLedger) float64 { return l.Line19UsedForAmelioration }},
	{"20. Used for tasting or samples", func(l *domain.BulkWinesLedger) float64 { return l.Line20UsedForTasting }},
	{"21. Destroyed", func(l *domain.BulkWinesLedger) float64 { return l.Line21Destroyed }},
	{"22. Breakage and casualty loss", func(l *domain.BulkWinesLedger) float64 { return l.Line22BreakageAndCasualty }},
	{"23. Storage losses", func(l *domain.BulkWinesLedger) float64 { return l.Line23StorageLosses }},
	{"24. Inventory shortage", func(l *domain.BulkWinesLedger) float64 { return l.Line24InventoryShortage }},
	{"25. Returned to fermenters", func(l *domain.BulkWinesLedger) float64 { return l.Line25ReturnedToFermenters }},
	{"26. Other removals", func(l *domain.BulkWinesLedger) float64 { return l.Line26OtherRemovals }},
	{"27. TOTAL dispositions", func(l *domain.BulkWinesLedger) float64 { return l.Line27TotalDispositions }},
	{"28. On hand in fermenters", func(l *domain.BulkWinesLedger) float64 { return l.Line28OnHandInFermenters }},
	{"29. On hand in storage", func(l *domain.BulkWinesLedger) float64 { return l.Line29OnHandInStorage }},
	{"30. On hand in processing", func(l *domain.BulkWinesLedger) float64 { return l.Line30OnHandInProcessing }},
	{"31. On hand, other bulk", func(l *domain.BulkWinesLedger) float64 { return l.Line31OnHandOtherBulk }},
	{"32. TOTAL on hand end of period", func(l *domain.BulkWinesLedger) float64 { return l.Line32TotalOnHandEndOfPeriod }},
}

type bottledLine struct {
	label string
	value func(*domain.BottledWinesLedger) float64
}

var bottledLines = []bottledLine{
	{"1. On hand first of period", func(l *domain.BottledWinesLedger) float64 { return l.Line1OnHandFirstOfPeriod }},
	{"2. Bottled or packed", func(l *domain.BottledWinesLedger) float64 { return l.Line2BottledOrPacked }},
	{"3. Received in bond", func(l *domain.BottledWinesLedger) float64 { return l.Line3ReceivedInBond }},
	{"4. Taxpaid wine returned to bond", func(l *domain.BottledWinesLedger) float64 { return l.Line4TaxpaidReturnedToBond }},
	{"5. Inventory gains", func(l *domain.BottledWinesLedger) float64 { return l.Line5InventoryGains }},
	{"6. Other receipts", func(l *domain.BottledWinesLedger) float64 { return l.Line6OtherReceipts }},
	{"7. TOTAL available", func(l *domain.BottledWinesLedger) float64 { return l.Line7TotalAvailable }},
	{"8. Removed taxpaid", func(l *domain.BottledWinesLedger) float64 { return l.Line8RemovedTaxpaid }},
	{"9. Transferred in bond", func(l *domain.BottledWinesLedger) float64 { return l.Line9TransferredInBond }},
	{"10. Removed for export", func(l *domain.BottledWinesLedger) float64 { return l.Line10RemovedForExport }},
	{"11. Transferred to customs warehouse", func(l *domain.BottledWinesLedger) float64 { return l.Line11TransferredToCustoms }},
	{"12. Dumped to bulk", func(l *domain.BottledWinesLedger) float64 { return l.Line12DumpedToBulk }},
	{"13. Used for tasting or samples", func(l *domain.BottledWinesLedger) float64 { return l.Line13UsedForTasting }},
	{"14. Destroyed", func(l *domain.BottledWinesLedger) float64 { return l.Line14Destroyed }},
	{"15. Breakage and casualty loss", func(l *domain.BottledWinesLedger) float64 { return l.Line15BreakageAndCasualty }},
	{"16. Inventory shortage", func(l *domain.BottledWinesLedger) float64 { return l.Line16InventoryShortage }},
	{"17. Consumed on premises", func(l *domain.BottledWinesLedger) float64 { return l.Line17ConsumedOnPremises }},
	{"18. Other removals", func(l *domain.BottledWinesLedger) float64 { return l.Line18OtherRemovals }},
	{"19. TOTAL dispositions", func(l *domain.BottledWinesLedger) float64 { return l.Line19TotalDispositions }},
	{"20. On hand end of period", func(l *domain.BottledWinesLedger) float64 { return l.Line20OnHandEndOfPeriod }},
	{"21. TOTAL accounted for", func(l *domain.BottledWinesLedger) float64 { return l.Line21TotalAccountedFor }},
}

// RenderForm512017 builds an XLSX workbook from the computed form data: one
// sheet per ledger section plus one for distillery operations and materials.
// Gallons render to one decimal, matching the figures reported on the form.
func RenderForm512017(form *domain.TTBForm512017Data) (*excelize.File, error) {
	f := excelize.NewFile()

	gallonStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(gallonsFormat)})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := renderBulkSheet(f, form, gallonStyle, headerStyle); err != nil {
		return nil, err
	}
	if err := renderBottledSheet(f, form, gallonStyle, headerStyle); err != nil {
		return nil, err
	}
	if err := renderDistillerySheet(f, form, gallonStyle, headerStyle); err != nil {
		return nil, err
	}

	// The default sheet was replaced by the bulk sheet; keep it active.
	idx, err := f.GetSheetIndex(bulkSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to locate bulk sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func strPtr(s string) *string { return &s }

func writePeriodHeader(f *excelize.File, sheet string, form *domain.TTBForm512017Data, headerStyle int) error {
	title := fmt.Sprintf("TTB F 5120.17 — Report of Wine Premises Operations (%s to %s)",
		form.PeriodStart.Format(time.DateOnly), form.PeriodEnd.Format(time.DateOnly))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return fmt.Errorf("failed to write sheet title: %w", err)
	}
	return f.SetCellStyle(sheet, "A1", "A1", headerStyle)
}

func renderBulkSheet(f *excelize.File, form *domain.TTBForm512017Data, gallonStyle, headerStyle int) error {
	// Rename the workbook's default sheet instead of leaving an empty "Sheet1".
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, bulkSheet); err != nil {
		return fmt.Errorf("failed to name bulk sheet: %w", err)
	}
	if err := writePeriodHeader(f, bulkSheet, form, headerStyle); err != nil {
		return err
	}

	// One column per tax class in reporting order, plus the derived
	// effervescent grouping at the end.
	classes := presentClasses(form)
	effervescent := form.EffervescentBulk()

	if err := f.SetCellValue(bulkSheet, "A3", "Bulk Wines (wine gallons)"); err != nil {
		return err
	}
	if err := f.SetCellStyle(bulkSheet, "A3", "A3", headerStyle); err != nil {
		return err
	}
	for i, tc := range classes {
		cell, _ := excelize.CoordinatesToCellName(2+i, 4)
		if err := f.SetCellValue(bulkSheet, cell, tc.DisplayName()); err != nil {
			return err
		}
	}
	effCell, _ := excelize.CoordinatesToCellName(2+len(classes), 4)
	if err := f.SetCellValue(bulkSheet, effCell, "Effervescent (derived)"); err != nil {
		return err
	}
	headerEnd, _ := excelize.CoordinatesToCellName(2+len(classes), 4)
	if err := f.SetCellStyle(bulkSheet, "B4", headerEnd, headerStyle); err != nil {
		return err
	}

	for row, line := range bulkLines {
		labelCell, _ := excelize.CoordinatesToCellName(1, 5+row)
		if err := f.SetCellValue(bulkSheet, labelCell, line.label); err != nil {
			return err
		}
		for col, tc := range classes {
			ledger := form.BulkByClass[tc]
			cell, _ := excelize.CoordinatesToCellName(2+col, 5+row)
			if err := f.SetCellValue(bulkSheet, cell, volume.RoundGallons(line.value(ledger))); err != nil {
				return err
			}
		}
		cell, _ := excelize.CoordinatesToCellName(2+len(classes), 5+row)
		if err := f.SetCellValue(bulkSheet, cell, volume.RoundGallons(line.value(&effervescent))); err != nil {
			return err
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(2+len(classes), 4+len(bulkLines))
	if err := f.SetCellStyle(bulkSheet, "B5", lastCell, gallonStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(bulkSheet, "A", "A", 40); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(2 + len(classes))
	return f.SetColWidth(bulkSheet, "B", lastCol, 18)
}

func renderBottledSheet(f *excelize.File, form *domain.TTBForm512017Data, gallonStyle, headerStyle int) error {
	if _, err := f.NewSheet(bottledSheet); err != nil {
		return fmt.Errorf("failed to create bottled sheet: %w", err)
	}
	if err := writePeriodHeader(f, bottledSheet, form, headerStyle); err != nil {
		return err
	}

	classes := presentClasses(form)

	if err := f.SetCellValue(bottledSheet, "A3", "Bottled Wines (wine gallons)"); err != nil {
		return err
	}
	if err := f.SetCellStyle(bottledSheet, "A3", "A3", headerStyle); err != nil {
		return err
	}
	for i, tc := range classes {
		cell, _ := excelize.CoordinatesToCellName(2+i, 4)
		if err := f.SetCellValue(bottledSheet, cell, tc.DisplayName()); err != nil {
			return err
		}
	}
	headerEnd, _ := excelize.CoordinatesToCellName(1+len(classes), 4)
	if err := f.SetCellStyle(bottledSheet, "B4", headerEnd, headerStyle); err != nil {
		return err
	}

	for row, line := range bottledLines {
		labelCell, _ := excelize.CoordinatesToCellName(1, 5+row)
		if err := f.SetCellValue(bottledSheet, labelCell, line.label); err != nil {
			return err
		}
		for col, tc := range classes {
			ledger, ok := form.BottledByClass[tc]
			if !ok {
				ledger = &domain.BottledWinesLedger{}
			}
			cell, _ := excelize.CoordinatesToCellName(2+col, 5+row)
			if err := f.SetCellValue(bottledSheet, cell, volume.RoundGallons(line.value(ledger))); err != nil {
				return err
			}
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(1+len(classes), 4+len(bottledLines))
	if err := f.SetCellStyle(bottledSheet, "B5", lastCell, gallonStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(bottledSheet, "A", "A", 40); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(1 + len(classes))
	return f.SetColWidth(bottledSheet, "B", lastCol, 18)
}

func renderDistillerySheet(f *excelize.File, form *domain.TTBForm512017Data, gallonStyle, headerStyle int) error {
	if _, err := f.NewSheet(distillerySheet); err != nil {
		return fmt.Errorf("failed to create distillery sheet: %w", err)
	}
	if err := writePeriodHeader(f, distillerySheet, form, headerStyle); err != nil {
		return err
	}

	d := form.Distillery
	rows := [][]interface{}{
		{"Distillery Operations (wine gallons)", nil},
		{"Cider sent to DSP", d.CiderSentToDSPGallons},
		{"Brandy received from DSP", d.BrandyReceivedGallons},
		{"Brandy used in fortification", d.BrandyUsedInFortification},
		{nil, nil},
		{"Spirits Reconciliation", nil},
		{"Account", "Opening"},
	}
	for i, r := range rows {
		for j, v := range r {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1+j, 3+i)
			if err := f.SetCellValue(distillerySheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(distillerySheet, "A3", "A3", headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(distillerySheet, "A8", "A8", headerStyle); err != nil {
		return err
	}

	reconHeaders := []string{"Account", "Opening", "Received", "Used", "Expected End", "Actual End", "Discrepancy"}
	for j, h := range reconHeaders {
		cell, _ := excelize.CoordinatesToCellName(1+j, 9)
		if err := f.SetCellValue(distillerySheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(distillerySheet, "A9", "G9", headerStyle); err != nil {
		return err
	}
	reconRows := []domain.SpiritsReconRow{d.CiderRecon, d.BrandyRecon, d.CombinedRecon}
	for i, r := range reconRows {
		values := []interface{}{
			r.Label,
			volume.RoundGallons(r.OpeningGallons),
			volume.RoundGallons(r.ReceivedGallons),
			volume.RoundGallons(r.UsedGallons),
			volume.RoundGallons(r.ExpectedEndGallons),
			volume.RoundGallons(r.ActualEndGallons),
			volume.RoundGallons(r.DiscrepancyGallons),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(1+j, 10+i)
			if err := f.SetCellValue(distillerySheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(distillerySheet, "B10", "G12", gallonStyle); err != nil {
		return err
	}

	m := form.Materials
	materialRows := [][]interface{}{
		{"Materials Received and Used", nil, nil},
		{"Material", "Received", "Used"},
		{"Apples (lbs)", m.ApplesPoundsReceived, m.ApplesPoundsUsed},
		{"Other fruit (lbs)", m.OtherFruitPoundsReceived, m.OtherFruitPoundsUsed},
		{"Honey (lbs)", m.HoneyPoundsReceived, m.HoneyPoundsUsed},
		{"Sugar (lbs)", m.SugarPoundsReceived, m.SugarPoundsUsed},
		{"Juice (gal)", m.JuiceGallonsReceived, m.JuiceGallonsUsed},
	}
	for i, r := range materialRows {
		for j, v := range r {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1+j, 14+i)
			if err := f.SetCellValue(distillerySheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(distillerySheet, "A14", "C15", headerStyle); err != nil {
		return err
	}

	return f.SetColWidth(distillerySheet, "A", "G", 20)
}

// presentClasses returns the reporting-order tax classes that have a bulk
// ledger on this form. Bottled-only classes still appear because the builder
// always emits matching bulk ledgers.
func presentClasses(form *domain.TTBForm512017Data) []domain.TaxClass {
	out := make([]domain.TaxClass, 0, len(form.BulkByClass))
	for _, tc := range domain.AllTaxClasses {
		if _, ok := form.BulkByClass[tc]; ok {
			out = append(out, tc)
		}
	}
	return out
}
