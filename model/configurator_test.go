package model_test

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model"
	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model/modeltest"
)

func newConfigurator(fileName string) (*model.Configurator, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return model.NewConfigurator(fileName, logger), hook
}

func messages(hook *test.Hook, level log.Level) (list []string) {
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			list = append(list, e.Message)
		}
	}
	return
}

func TestCreateBackup(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	original := modeltest.ReadFile(t, fileName)
	c, hook := newConfigurator(fileName)

	backup, err := c.CreateBackup()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(fileName), "Sales.backup.xlsx"), backup)
	assert.Equal(t, original, modeltest.ReadFile(t, backup))
	assert.Equal(t, original, modeltest.ReadFile(t, fileName))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, backup, entry.Data["backup"])
	assert.Equal(t, model.LoggerName, entry.Data["logger"])
	assert.Equal(t, fileName, entry.Data["file"])
}

func TestCreateBackupMissingFile(t *testing.T) {
	dir := t.TempDir()
	c, _ := newConfigurator(filepath.Join(dir, "missing.xlsx"))
	_, err := c.CreateBackup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.ErrFileNotFound.Error())
	_, err = os.Stat(filepath.Join(dir, "missing.backup.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewConfiguratorDoesNotTouchFile(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "later.xlsx")
	c := model.NewConfigurator(fileName, nil)
	assert.Equal(t, fileName, c.FileName)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfigureSinglePivotTable(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	original := modeltest.ReadFile(t, fileName)
	c, hook := newConfigurator(fileName)

	res := c.Configure("Geral", "P1")
	require.True(t, res.OK, "%v: %v", res.Reason, res.Err)
	assert.Equal(t, model.ReasonNone, res.Reason)
	assert.NoError(t, res.Err)
	assert.Equal(t, model.StateSaved, res.State)
	assert.Equal(t, []string{"P1"}, res.Pivots)

	assert.Equal(t, map[string]bool{"P1": true, "P2": false}, modeltest.Flags(t, fileName, "Geral"))
	assert.Equal(t, map[string]bool{"P3": false}, modeltest.Flags(t, fileName, "Outra"))

	backup := filepath.Join(filepath.Dir(fileName), "Sales.backup.xlsx")
	assert.Equal(t, backup, res.Backup)
	assert.Equal(t, original, modeltest.ReadFile(t, backup))

	infos := messages(hook, log.InfoLevel)
	assert.Contains(t, infos, `Backup created at "`+backup+`"`)
	assert.Contains(t, infos, `Loading workbook "Sales.xlsx"...`)
	assert.Contains(t, infos, `Set refreshOnLoad=true for "P1"`)
	assert.Contains(t, infos, "Saving workbook...")
	assert.Contains(t, infos, "Workbook updated successfully")
	assert.Empty(t, messages(hook, log.ErrorLevel))
}

func TestConfigureWholeSheetIsIdempotent(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	c, _ := newConfigurator(fileName)

	assert.True(t, c.SetRefreshOnLoad("Geral", ""))
	assert.Equal(t, map[string]bool{"P1": true, "P2": true}, modeltest.Flags(t, fileName, "Geral"))
	assert.Equal(t, map[string]bool{"P3": false}, modeltest.Flags(t, fileName, "Outra"))

	afterFirst := modeltest.ReadFile(t, fileName)
	res := c.Configure("Geral", "")
	assert.True(t, res.OK)
	assert.ElementsMatch(t, []string{"P1", "P2"}, res.Pivots)
	assert.Equal(t, map[string]bool{"P1": true, "P2": true}, modeltest.Flags(t, fileName, "Geral"))
	// the second backup holds the state left by the first run
	assert.Equal(t, afterFirst, modeltest.ReadFile(t, res.Backup))
}

func TestConfigureMissingSheet(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	original := modeltest.ReadFile(t, fileName)
	c, hook := newConfigurator(fileName)

	res := c.Configure("Resumo", "")
	assert.False(t, res.OK)
	assert.Equal(t, model.ReasonSheetNotFound, res.Reason)
	assert.Equal(t, model.StateSheetMissing, res.State)
	assert.Error(t, res.Err)

	assert.Equal(t, original, modeltest.ReadFile(t, fileName))
	assert.Equal(t, original, modeltest.ReadFile(t, res.Backup))
	assert.Equal(t, []string{`Sheet "Resumo" not found`}, messages(hook, log.ErrorLevel))

	assert.False(t, c.SetRefreshOnLoad("geral", ""), "sheet names are case-sensitive")
}

func TestConfigureNoMatchingPivotTable(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	original := modeltest.ReadFile(t, fileName)
	c, hook := newConfigurator(fileName)

	res := c.Configure("Geral", "P3")
	assert.False(t, res.OK)
	assert.Equal(t, model.ReasonNoMatch, res.Reason)
	assert.Equal(t, model.StateNoMatch, res.State)
	assert.Empty(t, res.Pivots)
	assert.Equal(t, original, modeltest.ReadFile(t, fileName), "nothing is saved without a match")
	assert.Equal(t, []string{`No pivot table found or matching on sheet "Geral"`}, messages(hook, log.WarnLevel))

	res = c.Configure("Vazia", "")
	assert.Equal(t, model.ReasonNoMatch, res.Reason)
	assert.Equal(t, original, modeltest.ReadFile(t, fileName))

	res = c.Configure("Geral", "p1")
	assert.Equal(t, model.ReasonNoMatch, res.Reason, "pivot names are matched exactly")
}

func TestConfigureMissingFile(t *testing.T) {
	dir := t.TempDir()
	c, hook := newConfigurator(filepath.Join(dir, "missing.xlsx"))

	res := c.Configure("Geral", "P1")
	assert.False(t, res.OK)
	assert.Equal(t, model.ReasonFileNotFound, res.Reason)
	assert.Equal(t, model.StateBackingUp, res.State)
	assert.Empty(t, res.Backup)
	assert.Len(t, messages(hook, log.ErrorLevel), 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no backup and no target are created")
}

func TestConfigureMalformedWorkbook(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "broken.xlsx")
	content := []byte("PK but not a zip archive")
	require.NoError(t, os.WriteFile(fileName, content, 0o600))
	c, hook := newConfigurator(fileName)

	res := c.Configure("Geral", "")
	assert.False(t, res.OK)
	assert.Equal(t, model.ReasonFailure, res.Reason)
	assert.Error(t, res.Err)
	assert.Equal(t, content, modeltest.ReadFile(t, fileName))
	assert.Equal(t, content, modeltest.ReadFile(t, res.Backup), "the backup is taken before loading")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.NotNil(t, entry.Data[log.ErrorKey])
}

func TestConfigureSharedCache(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	modeltest.ShareCache(t, fileName, "Geral", "P2", "P1")
	c, _ := newConfigurator(fileName)

	res := c.Configure("Geral", "P1")
	require.True(t, res.OK, "%v: %v", res.Reason, res.Err)
	assert.Equal(t, []string{"P1"}, res.Pivots)
	assert.Equal(t, map[string]bool{"P1": true, "P2": true}, modeltest.Flags(t, fileName, "Geral"),
		"a pivot table sharing the cache sees the flag")
}

func TestInspect(t *testing.T) {
	fileName := modeltest.SalesWorkbook(t, t.TempDir())
	original := modeltest.ReadFile(t, fileName)
	c, hook := newConfigurator(fileName)

	all, err := c.Inspect("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	sheets := map[string]string{}
	for _, pt := range all {
		sheets[pt.Name] = pt.Sheet
		assert.False(t, pt.RefreshOnLoad)
	}
	assert.Equal(t, map[string]string{"P1": "Geral", "P2": "Geral", "P3": "Outra"}, sheets)

	other, err := c.Inspect("Outra")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "P3", other[0].Name)

	_, err = c.Inspect("Resumo")
	assert.Error(t, err)

	assert.Equal(t, original, modeltest.ReadFile(t, fileName))
	_, err = os.Stat(filepath.Join(filepath.Dir(fileName), "Sales.backup.xlsx"))
	assert.True(t, os.IsNotExist(err), "inspection takes no backup")
	assert.Empty(t, messages(hook, log.WarnLevel), "the workbook is released cleanly")
}

func TestConfigureMacroWorkbookKeepsOtherParts(t *testing.T) {
	fileName := modeltest.MacroWorkbook(t, t.TempDir())
	wb, err := model.Open(fileName)
	require.NoError(t, err)
	p1 := modeltest.Find(t, wb, "Geral", "P1")
	require.NoError(t, wb.Close())
	before := modeltest.Entries(t, fileName)
	require.Equal(t, modeltest.VBAProject, before["xl/vbaProject.bin"])

	c, _ := newConfigurator(fileName)
	res := c.Configure("Geral", "P1")
	require.True(t, res.OK, "%v: %v", res.Reason, res.Err)
	assert.Equal(t, filepath.Join(filepath.Dir(fileName), "Macro.backup.xlsm"), res.Backup)
	assert.Equal(t, before, modeltest.Entries(t, res.Backup))

	after := modeltest.Entries(t, fileName)
	require.Len(t, after, len(before))
	for name, content := range before {
		if name == p1.CachePart {
			assert.Contains(t, string(after[name]), `refreshOnLoad="1"`)
			assert.NotContains(t, string(content), `refreshOnLoad="1"`)
			continue
		}
		assert.Equal(t, string(content), string(after[name]), "part %s changed", name)
	}

	assert.Equal(t, modeltest.VBAProject, after["xl/vbaProject.bin"])
	book := string(after["xl/workbook.xml"])
	for _, markup := range []string{`<smartTagPr embed="1"/>`, `<webPublishing codePage="1252"/>`,
		`<fileRecoveryPr repairLoad="1"/>`, `<webPublishObjects count="1">`} {
		assert.Contains(t, book, markup)
	}
	assert.Contains(t, string(after["[Content_Types].xml"]), "application/vnd.ms-excel.sheet.macroEnabled.main+xml")
}

func TestStateAndReasonNames(t *testing.T) {
	assert.Equal(t, "SheetMissing", model.StateSheetMissing.String())
	assert.Equal(t, "End", model.StateEnd.String())
	assert.Equal(t, "State(42)", model.State(42).String())
	assert.Equal(t, "no-match", model.ReasonNoMatch.String())
	assert.Equal(t, "file-not-found", model.ReasonFileNotFound.String())
}
