package stock

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	stocks := []Stock{
		row("p1", "Crate", "a1", LocationWarehouse, "w1", "5", threshold("10")),
		row("p1", "Crate", "a1", LocationTruck, "t1", "3", nil),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, stocks))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "product", rows[0][0])
	require.Equal(t, "Crate", rows[1][0])
	require.Equal(t, "5", rows[1][4])

	alertRows, err := f.GetRows("Alerts")
	require.NoError(t, err)
	require.Len(t, alertRows, 2)
	require.Equal(t, "Crate", alertRows[1][0])
	require.Equal(t, "8", alertRows[1][1])
}
