package xlsx

import "encoding/xml"

// Workbook mirrors the parts of xl/workbook.xml needed to map sheet names
// to their worksheet parts.
type Workbook struct {
	XMLName xml.Name `xml:"workbook"`
	Sheets  struct {
		Sheet []struct {
			Name    string `xml:"name,attr"`
			SheetID string `xml:"sheetId,attr"`
			State   string `xml:"state,attr"`
			// r:id, matched on the local name since the prefix varies between producers
			ID string `xml:"id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
	PivotCaches struct {
		PivotCache []struct {
			CacheID string `xml:"cacheId,attr"`
			ID      string `xml:"id,attr"`
		} `xml:"pivotCache"`
	} `xml:"pivotCaches"`
}

// SheetRelID returns the relationship id of the named sheet. The match is
// exact and case-sensitive.
func (wb *Workbook) SheetRelID(name string) (string, bool) {
	for _, s := range wb.Sheets.Sheet {
		if s.Name == name {
			return s.ID, true
		}
	}
	return "", false
}

// SheetNames lists the sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, 0, len(wb.Sheets.Sheet))
	for _, s := range wb.Sheets.Sheet {
		names = append(names, s.Name)
	}
	return names
}
