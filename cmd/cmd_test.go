package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/cmd"
	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model/modeltest"
)

// run executes a fresh command tree with an empty config file so that a
// config in the developer's home directory does not leak in.
func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	if config == "" {
		config = filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(config, nil, 0o600))
	}
	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", config))
	err := root.Execute()
	return out.String(), err
}

func TestRefresh(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())

	out, err := run(t, "", "refresh", "-s", "Geral", "-p", "P1", fileName)
	require.NoError(t, err, out)
	assert.Equal(t, "Geral\tP1\n", out)
	assert.Equal(t, map[string]bool{"P1": true, "P2": false}, modeltest.Flags(t, fileName, "Geral"))

	out, err = run(t, "", "refresh", "--sheet", "Geral", fileName)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Geral\tP1\n")
	assert.Contains(t, out, "Geral\tP2\n")
	assert.Equal(t, map[string]bool{"P1": true, "P2": true}, modeltest.Flags(t, fileName, "Geral"))
}

func TestRefreshFailure(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	original := modeltest.ReadFile(t, fileName)

	out, err := run(t, "", "refresh", "-s", "Resumo", fileName)
	require.Error(t, err)
	assert.Contains(t, out, cmd.ErrRefreshFailed.Error())
	assert.Equal(t, original, modeltest.ReadFile(t, fileName))
	assert.FileExists(t, strings.TrimSuffix(fileName, ".xlsx")+".backup.xlsx")

	_, err = run(t, "", "refresh", fileName)
	assert.Error(t, err, "the sheet is required")

	_, err = run(t, "", "refresh", "-s", "Geral")
	assert.Error(t, err, "the file is required")
}

func TestRefreshSheetFromEnvironment(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	t.Setenv("PIVOT_REFRESH_SHEET", "Outra")

	out, err := run(t, "", "refresh", fileName)
	require.NoError(t, err, out)
	assert.Equal(t, "Outra\tP3\n", out)
	assert.Equal(t, map[string]bool{"P3": true}, modeltest.Flags(t, fileName, "Outra"))
}

func TestRefreshFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	fileName := modeltest.SalesWorkbook(t, dir)
	config := filepath.Join(dir, "pivot-refresh.yaml")
	require.NoError(t, os.WriteFile(config, []byte("sheet: Geral\npivot: P2\n"), 0o600))

	out, err := run(t, config, "refresh", fileName)
	require.NoError(t, err, out)
	assert.Equal(t, "Geral\tP2\n", out)

	// flags win over the config file
	out, err = run(t, config, "refresh", "-p", "P1", fileName)
	require.NoError(t, err, out)
	assert.Equal(t, "Geral\tP1\n", out)

	_, err = run(t, filepath.Join(dir, "missing.yaml"), "refresh", fileName)
	assert.Error(t, err, "an explicit config file must exist")
}

func TestBackup(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	out, err := run(t, "", "backup", fileName)
	require.NoError(t, err, out)

	backup := strings.TrimSuffix(fileName, ".xlsx") + ".backup.xlsx"
	assert.Equal(t, backup+"\n", out)
	assert.Equal(t, modeltest.ReadFile(t, fileName), modeltest.ReadFile(t, backup))

	_, err = run(t, "", "backup", filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	_, err := run(t, "", "refresh", "-s", "Geral", "-p", "P2", fileName)
	require.NoError(t, err)
	original := modeltest.ReadFile(t, fileName)

	out, err := run(t, "", "list", fileName)
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, out)
	assert.Regexp(t, `^Sheet\s+Pivot Table\s+Location\s+Refresh On Load$`, lines[0])
	assert.Contains(t, out, "Outra")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		require.Len(t, fields, 4, line)
		assert.Equal(t, fields[1] == "P2", fields[3] == "true", line)
	}

	out, err = run(t, "", "list", "-v", "-s", "Outra", fileName)
	require.NoError(t, err, out)
	assert.Contains(t, out, "xl/pivotCache/")
	assert.NotContains(t, out, "Geral")

	assert.Equal(t, original, modeltest.ReadFile(t, fileName), "listing does not write")
}
