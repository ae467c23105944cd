package airports

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/flightcast/flightcast/pkg/logger"
)

const seedCSV = `country_code,region_name,iata,icao,airport,latitude,longitude
US,New York,JFK,KJFK,"John F Kennedy International Airport",40.6413,-73.7781
US,California,LAX,KLAX,"Los Angeles International Airport",33.9416,-118.4085
CA,Ontario,YYZ,CYYZ,"Toronto Pearson International Airport",43.6767,-79.6306
US,Texas,,KXYZ,"No IATA Field",0,0
`

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	dir, err := NewDirectory(db, log)
	require.NoError(t, err)

	csvPath := filepath.Join(t.TempDir(), "iata-icao.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(seedCSV), 0o644))
	require.NoError(t, dir.SeedFromCSV(csvPath))

	return dir
}

func TestResolveICAO(t *testing.T) {
	dir := newTestDirectory(t)

	icao, err := dir.ResolveICAO("JFK")
	require.NoError(t, err)
	assert.Equal(t, "KJFK", icao)

	_, err = dir.ResolveICAO("ZZZ")
	assert.ErrorIs(t, err, ErrUnknownAirport)
}

func TestGetAndDisplayName(t *testing.T) {
	dir := newTestDirectory(t)

	a, err := dir.Get("YYZ")
	require.NoError(t, err)
	assert.Equal(t, "CYYZ", a.ICAO)
	assert.Equal(t, "Toronto Pearson International Airport", a.Name)
	assert.InDelta(t, 43.6767, a.Latitude, 1e-6)

	name, err := dir.DisplayName("LAX")
	require.NoError(t, err)
	assert.Equal(t, "Los Angeles International Airport", name)
}

func TestKnown(t *testing.T) {
	dir := newTestDirectory(t)

	assert.True(t, dir.Known("JFK"))
	assert.False(t, dir.Known("ZZZ"))
}

func TestListSkipsRowsWithoutIATA(t *testing.T) {
	dir := newTestDirectory(t)

	list, err := dir.List()
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "JFK", list[0].IATA) // ordered by IATA
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := newTestDirectory(t)

	csvPath := filepath.Join(t.TempDir(), "iata-icao.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(seedCSV), 0o644))
	require.NoError(t, dir.SeedFromCSV(csvPath))

	list, err := dir.List()
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
