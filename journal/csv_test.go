package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTransaction(tx(Buy, "Alpha", 5, 12000, t0)))
	require.NoError(t, j.RecordTransaction(tx(Sell, "Alpha", 2, 12500, t0.Add(time.Minute))))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two trades")

	assert.Equal(t, []string{"id", "kind", "instrument", "quantity", "unit_price", "total", "time"}, rows[0])
	assert.Equal(t, "buy", rows[1][1])
	assert.Equal(t, "60000", rows[1][5])
	assert.Equal(t, "sell", rows[2][1])
	assert.Equal(t, "25000", rows[2][5])
}
