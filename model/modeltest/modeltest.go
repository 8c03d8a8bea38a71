// Package modeltest builds workbooks with real pivot tables for tests.
package modeltest

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model"
)

// Sheet and pivot table names of the Sales workbook.
const (
	DataSheet  = "Dados"
	MainSheet  = "Geral"
	OtherSheet = "Outra"
	EmptySheet = "Vazia"
)

var salesRows = [][]interface{}{
	{"Month", "Region", "Sales"},
	{"Jan", "North", 100},
	{"Jan", "South", 80},
	{"Feb", "North", 120},
	{"Feb", "South", 95},
}

// SalesWorkbook writes dir/Sales.xlsx. Sheet Geral holds the pivot tables
// P1 (by month) and P2 (by region), sheet Outra holds P3, sheet Vazia
// holds none. Every pivot table has its own cache and all refreshOnLoad
// flags are cleared.
func SalesWorkbook(t testing.TB, dir string) string {
	t.Helper()
	fileName := filepath.Join(dir, "Sales.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", DataSheet))
	for _, name := range []string{MainSheet, OtherSheet, EmptySheet} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	for i, row := range salesRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(DataSheet, cell, &row))
	}

	dataRange := DataSheet + "!A1:C5"
	for _, p := range []struct {
		name, location, row string
	}{
		{"P1", MainSheet + "!A1:D10", "Month"},
		{"P2", MainSheet + "!H1:K10", "Region"},
		{"P3", OtherSheet + "!A1:D10", "Month"},
	} {
		require.NoError(t, f.AddPivotTable(&excelize.PivotTableOptions{
			DataRange:       dataRange,
			PivotTableRange: p.location,
			Name:            p.name,
			Rows:            []excelize.PivotTableField{{Data: p.row}},
			Data:            []excelize.PivotTableField{{Data: "Sales", Subtotal: "Sum", Name: "Total Sales"}},
		}))
	}
	require.NoError(t, f.SaveAs(fileName))

	wb, err := model.Open(fileName)
	require.NoError(t, err)
	defer wb.Close()
	for _, sheet := range wb.SheetNames() {
		pivots, err := wb.PivotTables(sheet)
		require.NoError(t, err)
		for _, pt := range pivots {
			require.NoError(t, wb.SetRefreshOnLoad(pt.CachePart, false))
		}
	}
	require.NoError(t, wb.Save())
	return fileName
}

// ShareCache points the pivot table from at the cache definition of the
// pivot table to, both on the given sheet.
func ShareCache(t testing.TB, fileName, sheet, from, to string) {
	t.Helper()
	wb, err := model.Open(fileName)
	require.NoError(t, err)
	defer wb.Close()

	src, dst := Find(t, wb, sheet, from), Find(t, wb, sheet, to)
	relsPart := model.RelsPath(src.Part)
	rels, ok := wb.Part(relsPart)
	require.True(t, ok, "missing %s", relsPart)
	wb.SetPart(relsPart, bytes.Replace(rels,
		[]byte(path.Base(src.CachePart)), []byte(path.Base(dst.CachePart)), 1))
	require.NoError(t, wb.Save())
}

// Find returns the named pivot table of the sheet.
func Find(t testing.TB, wb *model.Workbook, sheet, name string) model.PivotTable {
	t.Helper()
	pivots, err := wb.PivotTables(sheet)
	require.NoError(t, err)
	for _, pt := range pivots {
		if pt.Name == name {
			return pt
		}
	}
	require.FailNow(t, "pivot table not found", "%s on sheet %s", name, sheet)
	return model.PivotTable{}
}

// Flags reopens the workbook and maps the pivot tables of the sheet to
// their refreshOnLoad flag.
func Flags(t testing.TB, fileName, sheet string) map[string]bool {
	t.Helper()
	wb, err := model.Open(fileName)
	require.NoError(t, err)
	defer wb.Close()
	pivots, err := wb.PivotTables(sheet)
	require.NoError(t, err)
	flags := make(map[string]bool, len(pivots))
	for _, pt := range pivots {
		flags[pt.Name] = pt.RefreshOnLoad
	}
	return flags
}

// ReadFile returns the content of the file, failing the test otherwise.
func ReadFile(t testing.TB, fileName string) []byte {
	t.Helper()
	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	return content
}

// VBAProject is the content of xl/vbaProject.bin in the macro workbook.
var VBAProject = []byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1 VBA project stand-in\x00\x01\x02")

// Markup excelize does not model: re-marshalling workbook.xml would drop
// these attributes.
const workbookExtras = `<smartTagPr embed="1"/><webPublishing codePage="1252"/>` +
	`<fileRecoveryPr repairLoad="1"/><webPublishObjects count="1">` +
	`<webPublishObject id="1" divId="Sales_1" destinationFile="C:\Sales.htm"/></webPublishObjects>`

// MacroWorkbook writes dir/Macro.xlsm: the Sales workbook with a VBA
// project part, the macro-enabled content types and workbook.xml markup
// written the way Excel writes it.
func MacroWorkbook(t testing.TB, dir string) string {
	t.Helper()
	fileName := filepath.Join(dir, "Macro.xlsm")
	require.NoError(t, os.Rename(SalesWorkbook(t, dir), fileName))

	wb, err := model.Open(fileName)
	require.NoError(t, err)
	defer wb.Close()

	book, ok := wb.Part("xl/workbook.xml")
	require.True(t, ok)
	require.True(t, bytes.Contains(book, []byte("</workbook>")))
	wb.SetPart("xl/workbook.xml", bytes.Replace(book,
		[]byte("</workbook>"), []byte(workbookExtras+"</workbook>"), 1))

	types, ok := wb.Part("[Content_Types].xml")
	require.True(t, ok)
	types = bytes.Replace(types,
		[]byte("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"),
		[]byte("application/vnd.ms-excel.sheet.macroEnabled.main+xml"), 1)
	wb.SetPart("[Content_Types].xml", bytes.Replace(types, []byte("</Types>"),
		[]byte(`<Default Extension="bin" ContentType="application/vnd.ms-office.vbaProject"/></Types>`), 1))

	wb.SetPart("xl/vbaProject.bin", VBAProject)
	require.NoError(t, wb.Save())
	return fileName
}

// Entries reads every entry of the zip package into memory.
func Entries(t testing.TB, fileName string) map[string][]byte {
	t.Helper()
	r, err := zip.OpenReader(fileName)
	require.NoError(t, err)
	defer r.Close()

	entries := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = content
	}
	return entries
}
