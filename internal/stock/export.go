package stock

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the stock rows as a spreadsheet: one row per location
// with a trailing sheet of the currently active alerts.
func WriteXLSX(w io.Writer, stocks []Stock) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []any{"product", "agency", "location_type", "location", "qty", "alert_threshold"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, s := range stocks {
		threshold := ""
		if s.AlertThreshold != nil {
			threshold = s.AlertThreshold.String()
		}
		values := []any{
			s.ProductName,
			s.AgencyID,
			string(s.LocationType),
			s.LocationID,
			s.Qty.String(),
			threshold,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		row++
	}

	if err := writeAlertSheet(f, LowStock(stocks)); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeAlertSheet(f *excelize.File, alerts []Alert) error {
	const name = "Alerts"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("alert sheet: %w", err)
	}

	header := []any{"product", "total", "threshold", "locations"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write alert header: %w", err)
	}

	row := 2
	for _, a := range alerts {
		values := []any{
			a.DisplayName,
			a.Total.String(),
			a.Threshold.String(),
			len(a.Locations),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write alert row: %w", err)
		}
		row++
	}
	return nil
}
