package filtering

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/endorses/seqfilter/internal/pkg/constants"
	"github.com/endorses/seqfilter/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	l, _ := logger.NewCapture(100, slog.LevelDebug)
	m, err := NewManager(ManagerConfig{Dir: t.TempDir(), Logger: l})
	require.NoError(t, err)
	return m
}

func TestParseScope(t *testing.T) {
	for name, want := range map[string]Scope{"": ScopeGlobal, "global": ScopeGlobal, "Zone": ScopeZone, "runtime": ScopeRuntime} {
		got, err := ParseScope(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseScope("galaxy")
	assert.Error(t, err)

	assert.Equal(t, "zone", ScopeZone.String())
	assert.Equal(t, "Scope(9)", Scope(9).String())
}

func TestNewManagerDefaults(t *testing.T) {
	m := newTestManager(t)
	r := m.Registry()
	require.Equal(t, len(constants.DefaultFilterTypes), r.Len())
	for i, name := range constants.DefaultFilterTypes {
		assert.Equal(t, uint8(i), r.Type(name))
	}
	assert.Equal(t, "Hunt:Danger:", m.FilterNames(r.Mask("Hunt")|r.Mask("Danger")))
	assert.Equal(t, "", m.Zone())
	assert.Equal(t, constants.GlobalFilterFile, filepath.Base(m.GlobalPath()))
	assert.Equal(t, "qeynos.xml", filepath.Base(m.ZonePath("Qeynos")))
	assert.Nil(t, m.Set(Scope(7)))
}

func TestManagerFilterMaskAcrossScopes(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.LoadZone("qeynos"))

	ok, err := m.AddFilter(ScopeGlobal, "Hunt", "Name:.*Orc.*:")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.AddFilter(ScopeZone, "Danger", "Name:.*Orc Legionnaire.*:")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.AddFilter(ScopeRuntime, "Tracer", "Name:Orc Legionnaire")
	require.NoError(t, err)
	require.True(t, ok)

	r := m.Registry()
	assert.Equal(t, r.Mask("Hunt"), m.FilterMask("Name:Orc Grunt:", 5))
	mask := m.FilterMask("Name:Orc Legionnaire:", 5)
	assert.Equal(t, r.Mask("Hunt")|r.Mask("Danger")|r.Mask("Tracer"), mask)
	assert.Equal(t, "Hunt:Danger:Tracer:", m.FilterNames(mask))

	removed, err := m.RemFilter(ScopeRuntime, "Tracer", "Name:Orc Legionnaire")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, r.Mask("Hunt")|r.Mask("Danger"), m.FilterMask("Name:Orc Legionnaire:", 5))
}

func TestManagerErrors(t *testing.T) {
	m := newTestManager(t)

	_, err := m.AddFilter(ScopeGlobal, "Nope", "Name:Orc")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)

	_, err = m.AddFilter(ScopeZone, "Hunt", "Name:Orc")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "zone", verr.Field)

	_, err = m.RemFilter(Scope(5), "Hunt", "Name:Orc")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scope", verr.Field)

	assert.Error(t, m.SaveZone())
	assert.Error(t, m.LoadZone("../etc"))
	assert.Error(t, m.LoadZone(""))
	assert.NoError(t, m.Save(ScopeRuntime))
}

func TestManagerPersistence(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(ManagerConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, m.Load("Freeport"))

	_, err = m.AddFilter(ScopeGlobal, "Hunt", "Name:Orc;5-10")
	require.NoError(t, err)
	_, err = m.AddFilter(ScopeZone, "Caution", "Race:Troll")
	require.NoError(t, err)
	require.NoError(t, m.Save(ScopeGlobal))
	require.NoError(t, m.Save(ScopeZone))

	_, err = os.Stat(filepath.Join(dir, "freeport.xml"))
	require.NoError(t, err)

	reloaded, err := NewManager(ManagerConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, reloaded.Load("freeport"))
	assert.Equal(t, 1, reloaded.Set(ScopeGlobal).Len())
	assert.Equal(t, 1, reloaded.Set(ScopeZone).Len())
	r := reloaded.Registry()
	assert.Equal(t, r.Mask("Hunt")|r.Mask("Caution"), reloaded.FilterMask("Name:Orc:Race:Troll:", 7))

	// Switching zones replaces only the zone set
	require.NoError(t, reloaded.LoadZone("qeynos"))
	assert.Equal(t, 0, reloaded.Set(ScopeZone).Len())
	assert.Equal(t, 1, reloaded.Set(ScopeGlobal).Len())
}

func TestManagerRegisterType(t *testing.T) {
	m := newTestManager(t)
	typ, err := m.RegisterType("Quest")
	require.NoError(t, err)
	assert.Equal(t, uint8(len(constants.DefaultFilterTypes)), typ)

	_, err = m.RegisterType("Bad:Name")
	assert.Error(t, err)

	for i := m.Registry().Len(); i < MaxTypes; i++ {
		_, err := m.RegisterType(fmt.Sprintf("extra%d", i))
		require.NoError(t, err)
	}
	_, err = m.RegisterType("overflow")
	assert.ErrorIs(t, err, ErrRegistryFull)
}

func TestManagerCaseSensitivity(t *testing.T) {
	m := newTestManager(t)
	_, err := m.AddFilter(ScopeGlobal, "Hunt", "Race:Troll")
	require.NoError(t, err)
	assert.NotZero(t, m.FilterMask("race:troll", 1))

	m.SetCaseSensitive(true)
	assert.Zero(t, m.FilterMask("race:troll", 1))
	assert.True(t, m.Set(ScopeRuntime).CaseSensitive())
}
