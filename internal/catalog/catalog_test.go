package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/model"
)

func TestDefault_Resolves(t *testing.T) {
	c := Default()

	ut, ok := c.Resolve("T-72B")
	require.True(t, ok)
	assert.Equal(t, model.UnitType("T-72B"), ut)

	ut, ok = c.Resolve("  M1A2 Abrams ")
	require.True(t, ok, "aliases resolve to the canonical id")
	assert.Equal(t, model.UnitType("M-1 Abrams"), ut)

	_, ok = c.Resolve("UnknownType")
	assert.False(t, ok)
}

func TestDefault_ExtraAirDefense(t *testing.T) {
	c := Default()
	assert.True(t, c.IsExtraAirDefense("ZSU-23-4 Shilka"))
	assert.False(t, c.IsExtraAirDefense("T-72B"))
	assert.Contains(t, c.ExtraAirDefense(), model.UnitType("Vulcan"))
	assert.IsIncreasing(t, c.ExtraAirDefense())
}

func TestResolveUnit_ByKind(t *testing.T) {
	c := Default()

	ut, ok := c.ResolveUnit(model.KindVehicle, "BMP-2")
	require.True(t, ok)
	assert.Equal(t, model.UnitType("BMP-2"), ut)

	_, ok = c.ResolveUnit(model.KindShip, "BMP-2")
	assert.False(t, ok, "vehicles do not resolve as ships")

	ut, ok = c.ResolveUnit(model.KindShip, "MOSCOW")
	require.True(t, ok)
	assert.Equal(t, model.UnitType("MOSCOW"), ut)

	ut, ok = c.ResolveUnit("helicopter", "Ka-50")
	require.True(t, ok, "other kinds fall back to aircraft")
	assert.Equal(t, model.UnitType("Ka-50"), ut)
}

func TestResolve_UnicodeNormalization(t *testing.T) {
	// "é" precomposed in the catalog, decomposed in the lookup.
	c, err := Parse([]byte("vehicles:\n  - id: \"Char L\u00e9ger\"\n"))
	require.NoError(t, err)

	ut, ok := c.Resolve("Char Le\u0301ger")
	require.True(t, ok)
	assert.Equal(t, model.UnitType("Char L\u00e9ger"), ut)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "vehicles: [",
		"empty id":        "vehicles:\n  - id: \"\"\n",
		"duplicate":       "vehicles:\n  - id: A\nships:\n  - id: A\n",
		"duplicate alias": "vehicles:\n  - id: A\n  - id: B\n    aliases: [A]\n",
		"empty alias":     "vehicles:\n  - id: A\n    aliases: [\" \"]\n",
		"unknown extra":   "vehicles:\n  - id: A\nextra_air_defense: [B]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errclass.ErrCatalogInvalid), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vehicles:\n  - id: TankA\n  - id: TankB\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
