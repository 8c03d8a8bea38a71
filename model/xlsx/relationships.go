package xlsx

import (
	"encoding/xml"
	"strings"
)

// Relationship types followed when walking from the workbook to the pivot caches.
const (
	RelTypeOfficeDocument       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeWorksheet            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelTypePivotTable           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/pivotTable"
	RelTypePivotCacheDefinition = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/pivotCacheDefinition"
)

// Relationships maps a *.rels part: relationship ids to their targets.
type Relationships struct {
	XMLName       xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship is a single entry of a *.rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Target     string `xml:",attr"`
	Type       string `xml:",attr"`
	TargetMode string `xml:",attr,omitempty"`
}

// IsType matches the relationship type by its last path segment, so that
// both transitional and strict (purl.oclc.org) namespaces are accepted.
func (r Relationship) IsType(relType string) bool {
	if r.Type == relType {
		return true
	}
	i := strings.LastIndex(relType, "/")
	j := strings.LastIndex(r.Type, "/")
	return i >= 0 && j >= 0 && r.Type[j:] == relType[i:]
}

// IsExternal reports whether the target points outside the package.
func (r Relationship) IsExternal() bool {
	return r.TargetMode == "External"
}

// ByID returns the relationship with the given id.
func (rels *Relationships) ByID(id string) (Relationship, bool) {
	for _, r := range rels.Relationships {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// ByType returns the internal relationships of the given type in document order.
func (rels *Relationships) ByType(relType string) (list []Relationship) {
	for _, r := range rels.Relationships {
		if r.IsType(relType) && !r.IsExternal() {
			list = append(list, r)
		}
	}
	return
}
