package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"acd-tierlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(&out, &errOut).Run(append([]string{"tierctl"}, args...))
	return out.String(), err
}

func setupFileStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("DATA_FILE", filepath.Join(dir, "tierlist.json"))
	t.Setenv("SEED_URL", "")
	t.Setenv("SEED_FILE", "")
	return dir
}

func TestBootstrapAndList(t *testing.T) {
	setupFileStore(t)

	out, err := run(t, "bootstrap")
	require.NoError(t, err)
	assert.Contains(t, out, "tier list ready")

	out, err = run(t, "list", "--region", "EU", "--query", "ellies")
	require.NoError(t, err)
	assert.Contains(t, out, "Ellies V")
	assert.Contains(t, out, "870")
	assert.NotContains(t, out, "Sycthy")
}

func TestMutations(t *testing.T) {
	setupFileStore(t)
	_, err := run(t, "bootstrap")
	require.NoError(t, err)

	out, err := run(t, "add-player", "--name", "Rookie", "--region", "NA", "--tier", "sword=HT1", "--tier", "axe=lt1")
	require.NoError(t, err)
	assert.Equal(t, "added player 33\n", out)

	out, err = run(t, "set-tier", "33", "mace", "HT2")
	require.NoError(t, err)
	assert.Equal(t, "Rookie (33): 270 points, Silver\n", out)

	_, err = run(t, "set-tier", "33", "bow", "HT2")
	assert.Error(t, err)

	out, err = run(t, "remove-player", "33")
	require.NoError(t, err)
	assert.Contains(t, out, "removed player 33")

	_, err = run(t, "remove-player", "33")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := setupFileStore(t)
	_, err := run(t, "bootstrap")
	require.NoError(t, err)

	path := filepath.Join(dir, "board.xlsx")
	out, err := run(t, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 32 players")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Leaderboard")
	require.NoError(t, err)
	assert.Len(t, rows, 33)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"Sword=ht1", "uhc=LT5"})
	require.NoError(t, err)
	assert.Equal(t, []domain.TierAssignment{
		{Kit: domain.KitSword, Tier: domain.TierHT1},
		{Kit: domain.KitUHC, Tier: domain.TierLT5},
	}, got)

	_, err = parseAssignments([]string{"sword"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"bow=HT1"})
	assert.Error(t, err)
}
