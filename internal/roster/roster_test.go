package roster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-stats/internal/model"
)

const sampleRoster = "TeamX,Alice=Al=AliceSmurf,Carol\nTeamY,Bob\n"

func TestLoad_AliasesResolveToFirstAlias(t *testing.T) {
	r, err := Load(strings.NewReader(sampleRoster))
	require.NoError(t, err)

	for _, alias := range []string{"Alice", "al", "ALICESMURF"} {
		assert.Equal(t, "Alice", r.Resolve(alias), "alias %q", alias)
		assert.Equal(t, model.KnownTeam("TeamX"), r.TeamOf(alias), "team of %q", alias)
	}
	assert.Equal(t, "Carol", r.Resolve("carol"))
	assert.Equal(t, model.KnownTeam("TeamY"), r.TeamOf("Bob"))
	assert.Equal(t, []string{"Alice", "Carol", "Bob"}, r.Players())
}

func TestResolve_UnknownIsIdentity(t *testing.T) {
	r, err := Load(strings.NewReader(sampleRoster))
	require.NoError(t, err)

	assert.Equal(t, "Mallory", r.Resolve("Mallory"))
	assert.Equal(t, model.UnknownTeam, r.TeamOf("Mallory"))
	assert.False(t, r.Known("Mallory"))
	assert.True(t, r.Known("al"))
}

func TestLoad_AliasCollisionLastWriteWins(t *testing.T) {
	r, err := Load(strings.NewReader("TeamX,Alice=Shared\nTeamY,Bob=Shared\n"))
	require.NoError(t, err)

	assert.Equal(t, "Bob", r.Resolve("shared"))
	assert.Equal(t, model.KnownTeam("TeamY"), r.TeamOf("shared"))
	assert.Equal(t, "Alice", r.Resolve("alice"))
}

func TestLoad_BOMAndBlankCells(t *testing.T) {
	data := "\xEF\xBB\xBFTeamX, Alice ,,\n,Orphan\n"
	r, err := Load(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, model.KnownTeam("TeamX"), r.TeamOf("alice"))
	assert.False(t, r.Known("Orphan"), "rows without a team are skipped")
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
