package model

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.trai.ch/zerr"

	x "github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/model/xlsx"
	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/utils"
)

const (
	rootRelsPart        = "_rels/.rels"
	defaultWorkbookPart = "xl/workbook.xml"
	attrRefreshOnLoad   = "refreshOnLoad"
)

// PivotTable - a pivot table of a worksheet and the cache definition it reads from
type PivotTable struct {
	Sheet         string
	Name          string
	Part          string // e.g. xl/pivotTables/pivotTable1.xml
	CachePart     string // e.g. xl/pivotCache/pivotCacheDefinition1.xml
	CacheID       string
	Location      string
	RefreshOnLoad bool
}

// Workbook is an opened OpenXML spreadsheet package. excelize is only used
// to read it: Save copies the original zip entries and swaps in the parts
// replaced with SetPart, so VBA projects and every part excelize would
// re-marshal stay byte-identical.
type Workbook struct {
	FileName string

	file         *excelize.File
	workbookPart string
	book         x.Workbook
	rels         x.Relationships
	changed      map[string][]byte
}

// Open opens the workbook package at fileName.
func Open(fileName string) (*Workbook, error) {
	if !utils.FileExists(fileName) {
		return nil, zerr.With(ErrFileNotFound, "file", fileName)
	}
	file, err := excelize.OpenFile(fileName)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open workbook"), "file", fileName)
	}
	wb := &Workbook{FileName: fileName, file: file}
	if err := wb.load(); err != nil {
		file.Close()
		return nil, zerr.With(err, "file", fileName)
	}
	return wb, nil
}

func (wb *Workbook) load() error {
	wb.workbookPart = defaultWorkbookPart
	if rels, err := wb.relationships(""); err == nil {
		if docs := rels.ByType(x.RelTypeOfficeDocument); len(docs) > 0 {
			wb.workbookPart = ResolveTarget("", docs[0].Target)
		}
	}
	if err := wb.readXML(wb.workbookPart, &wb.book); err != nil {
		return err
	}
	rels, err := wb.relationships(wb.workbookPart)
	if err != nil {
		return err
	}
	wb.rels = rels
	return nil
}

// Close releases the underlying package resources.
func (wb *Workbook) Close() error {
	if wb == nil || wb.file == nil {
		return nil
	}
	err := wb.file.Close()
	wb.file = nil
	return err
}

// Save writes the package back to the file it was opened from. Only the
// parts replaced with SetPart change.
func (wb *Workbook) Save() error {
	if err := replacePackage(wb.FileName, wb.changed); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to save workbook"), "file", wb.FileName)
	}
	wb.changed = nil
	return nil
}

// SheetNames lists the sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.book.SheetNames()
}

// HasSheet reports whether a sheet with exactly this name exists.
// The comparison is case-sensitive.
func (wb *Workbook) HasSheet(name string) bool {
	_, ok := wb.book.SheetRelID(name)
	return ok
}

// Part returns the raw content of a package part.
func (wb *Workbook) Part(name string) ([]byte, bool) {
	v, ok := wb.file.Pkg.Load(name)
	if !ok {
		return nil, false
	}
	content, ok := v.([]byte)
	return content, ok
}

// SetPart replaces the raw content of a package part. The change is
// written by the next Save.
func (wb *Workbook) SetPart(name string, content []byte) {
	wb.file.Pkg.Store(name, content)
	if wb.changed == nil {
		wb.changed = make(map[string][]byte)
	}
	wb.changed[name] = content
}

func (wb *Workbook) readXML(name string, v interface{}) error {
	content, ok := wb.Part(name)
	if !ok {
		return zerr.With(ErrPartNotFound, "part", name)
	}
	if err := xml.Unmarshal(content, v); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse part"), "part", name)
	}
	return nil
}

// relationships reads the relationships of a part. A part without a rels
// part simply has no relationships.
func (wb *Workbook) relationships(part string) (rels x.Relationships, err error) {
	name := RelsPath(part)
	if _, ok := wb.Part(name); !ok {
		return
	}
	err = wb.readXML(name, &rels)
	return
}

// PivotTables lists the pivot tables of the sheet in the order of the
// sheet relationships, each resolved to its cache definition part.
func (wb *Workbook) PivotTables(sheet string) ([]PivotTable, error) {
	relID, ok := wb.book.SheetRelID(sheet)
	if !ok {
		return nil, zerr.With(ErrSheetNotFound, "sheet", sheet)
	}
	rel, ok := wb.rels.ByID(relID)
	if !ok {
		return nil, zerr.With(zerr.With(ErrPartNotFound, "relationship", relID), "sheet", sheet)
	}
	if !rel.IsType(x.RelTypeWorksheet) {
		// chartsheets and dialog sheets hold no pivot tables
		return nil, nil
	}
	sheetPart := ResolveTarget(wb.workbookPart, rel.Target)
	sheetRels, err := wb.relationships(sheetPart)
	if err != nil {
		return nil, err
	}

	var list []PivotTable
	for _, r := range sheetRels.ByType(x.RelTypePivotTable) {
		pt, err := wb.pivotTable(sheet, ResolveTarget(sheetPart, r.Target))
		if err != nil {
			return nil, err
		}
		list = append(list, pt)
	}
	return list, nil
}

func (wb *Workbook) pivotTable(sheet, part string) (pt PivotTable, err error) {
	var ptd x.PivotTableDefinition
	if err = wb.readXML(part, &ptd); err != nil {
		return
	}
	rels, err := wb.relationships(part)
	if err != nil {
		return
	}
	caches := rels.ByType(x.RelTypePivotCacheDefinition)
	if len(caches) == 0 {
		err = zerr.With(zerr.With(ErrPivotCacheNotFound, "pivot_table", ptd.Name), "part", part)
		return
	}
	pt = PivotTable{
		Sheet:     sheet,
		Name:      ptd.Name,
		Part:      part,
		CachePart: ResolveTarget(part, caches[0].Target),
		CacheID:   ptd.CacheID,
		Location:  ptd.Location.Ref,
	}
	var pcd x.PivotCacheDefinition
	if err = wb.readXML(pt.CachePart, &pcd); err != nil {
		return
	}
	pt.RefreshOnLoad = pcd.IsRefreshOnLoad()
	return
}

// SetRefreshOnLoad sets the refreshOnLoad flag of a pivot cache definition
// part by editing the attribute in place. Every pivot table sharing the
// cache sees the new value. false removes the attribute, its schema default.
func (wb *Workbook) SetRefreshOnLoad(cachePart string, value bool) error {
	content, ok := wb.Part(cachePart)
	if !ok {
		return zerr.With(ErrPartNotFound, "part", cachePart)
	}
	var attr string
	if value {
		attr = x.FormatBool(true)
	}
	edited, err := setRootAttr(content, attrRefreshOnLoad, attr)
	if err != nil {
		return zerr.With(err, "part", cachePart)
	}
	wb.SetPart(cachePart, edited)
	return nil
}

// RelsPath returns the relationships part of a package part,
// e.g. xl/workbook.xml -> xl/_rels/workbook.xml.rels. The package root is "".
func RelsPath(part string) string {
	if part == "" {
		return rootRelsPart
	}
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// ResolveTarget resolves a relationship target against its source part.
// Absolute targets are relative to the package root.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(source), target)
}
