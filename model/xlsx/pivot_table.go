package xlsx

import "encoding/xml"

// PivotTableDefinition mirrors the root of xl/pivotTables/pivotTableN.xml.
type PivotTableDefinition struct {
	XMLName        xml.Name `xml:"pivotTableDefinition"`
	Name           string   `xml:"name,attr"`
	CacheID        string   `xml:"cacheId,attr"`
	DataCaption    string   `xml:"dataCaption,attr"`
	UpdatedVersion string   `xml:"updatedVersion,attr"`
	CreatedVersion string   `xml:"createdVersion,attr"`
	Location       struct {
		Ref            string `xml:"ref,attr"`
		FirstHeaderRow string `xml:"firstHeaderRow,attr"`
		FirstDataRow   string `xml:"firstDataRow,attr"`
		FirstDataCol   string `xml:"firstDataCol,attr"`
	} `xml:"location"`
	PivotFields struct {
		Count string `xml:"count,attr"`
	} `xml:"pivotFields"`
	DataFields struct {
		Count     string `xml:"count,attr"`
		DataField []struct {
			Name     string `xml:"name,attr"`
			Fld      string `xml:"fld,attr"`
			Subtotal string `xml:"subtotal,attr"`
		} `xml:"dataField"`
	} `xml:"dataFields"`
}
