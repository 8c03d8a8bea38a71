package xlsx

import "encoding/xml"

// PivotCacheDefinition mirrors the root of xl/pivotCache/pivotCacheDefinitionN.xml.
// Only the attributes the refresher reads are mapped; the part itself is
// never re-marshaled.
type PivotCacheDefinition struct {
	XMLName               xml.Name `xml:"pivotCacheDefinition"`
	ID                    string   `xml:"id,attr"`
	RefreshOnLoad         string   `xml:"refreshOnLoad,attr"`
	RefreshedBy           string   `xml:"refreshedBy,attr"`
	RefreshedDate         string   `xml:"refreshedDate,attr"`
	CreatedVersion        string   `xml:"createdVersion,attr"`
	RefreshedVersion      string   `xml:"refreshedVersion,attr"`
	MinRefreshableVersion string   `xml:"minRefreshableVersion,attr"`
	RecordCount           string   `xml:"recordCount,attr"`
	CacheSource           struct {
		Type            string `xml:"type,attr"`
		WorksheetSource struct {
			Ref   string `xml:"ref,attr"`
			Sheet string `xml:"sheet,attr"`
			Name  string `xml:"name,attr"`
		} `xml:"worksheetSource"`
	} `xml:"cacheSource"`
	CacheFields struct {
		Count      string `xml:"count,attr"`
		CacheField []struct {
			Name string `xml:"name,attr"`
		} `xml:"cacheField"`
	} `xml:"cacheFields"`
}

// IsRefreshOnLoad reports whether the refreshOnLoad attribute holds an
// xsd:boolean true value. An absent attribute means false.
func (pcd *PivotCacheDefinition) IsRefreshOnLoad() bool {
	return ParseBool(pcd.RefreshOnLoad)
}

// ParseBool parses an xsd:boolean attribute value.
func ParseBool(v string) bool {
	switch v {
	case "1", "true":
		return true
	}
	return false
}

// FormatBool renders an xsd:boolean the way Excel writes it.
func FormatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
