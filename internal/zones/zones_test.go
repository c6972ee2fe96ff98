package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartements_Valid(t *testing.T) {
	set := Departements()
	require.NoError(t, set.Validate())
	assert.Len(t, set.Zones, 8)
}

func TestFind_KnownLocations(t *testing.T) {
	set := Departements()

	cases := []struct {
		name     string
		lat, lon float64
		code     string
	}{
		{"central Paris", 48.8566, 2.3522, "75"},
		{"Roissy CDG", 49.0097, 2.5479, "95"},
		{"Rungis", 48.7512, 2.3550, "94"},
		{"Meaux area", 48.9600, 2.8800, "77"},
		{"Versailles", 48.8049, 2.1204, "78"},
		{"Évry", 48.6296, 2.4412, "91"},
	}

	for _, tc := range cases {
		z := set.Find(tc.lat, tc.lon)
		require.NotNil(t, z, "%s: no zone found", tc.name)
		assert.Equal(t, tc.code, z.Code, tc.name)
	}
}

func TestFind_OutsideAllZones(t *testing.T) {
	set := Departements()
	assert.Nil(t, set.Find(45.7589, 4.8414)) // Lyon
}

func TestFind_FirstMatchWins(t *testing.T) {
	// Paris sits inside the rectangle simplifications of its neighbours; the
	// ordering must still resolve central Paris to 75.
	set := Departements()
	z := set.Find(48.8700, 2.3000)
	require.NotNil(t, z)
	assert.Equal(t, "75", z.Code)
}

func TestValidate_Errors(t *testing.T) {
	err := Set{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set name is required")

	err = Set{Name: "empty"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no zones")

	err = Set{Name: "bad", Zones: []Zone{{Code: ""}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code is required")

	err = Set{Name: "bad", Zones: []Zone{{Code: "01"}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no geometry")
}

func TestLoadShapefile_MissingPath(t *testing.T) {
	_, err := LoadShapefile("", "custom", "code", "name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestLoadShapefile_MissingFile(t *testing.T) {
	_, err := LoadShapefile("/nonexistent/zones.shp", "custom", "code", "name")
	require.Error(t, err)
}
