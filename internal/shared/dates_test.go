package shared

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *parsed)

	empty, err := ParseDate("")
	require.NoError(t, err)
	require.Nil(t, empty)

	_, err = ParseDate("15/03/2024")
	require.Error(t, err)
}

func TestWindowFromQuery(t *testing.T) {
	w, err := WindowFromQuery(url.Values{"from": {"2024-01-01"}, "to": {"2024-06-30"}})
	require.NoError(t, err)
	require.NotNil(t, w.From)
	require.NotNil(t, w.To)
	require.False(t, w.IsOpen())

	open, err := WindowFromQuery(url.Values{})
	require.NoError(t, err)
	require.True(t, open.IsOpen())

	_, err = WindowFromQuery(url.Values{"from": {"garbage"}})
	require.Error(t, err)
}

func TestWindowKey(t *testing.T) {
	require.Equal(t, "all", WindowKey(ledger.Window{}))

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "2024-01-01:2024-06-30", WindowKey(ledger.Window{From: &from, To: &to}))
	require.Equal(t, "2024-01-01:-", WindowKey(ledger.Window{From: &from}))
	require.Equal(t, "-:2024-06-30", WindowKey(ledger.Window{To: &to}))
}
