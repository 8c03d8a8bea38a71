package model

import "go.trai.ch/zerr"

var (
	// ErrFileNotFound is returned when the target workbook does not exist.
	ErrFileNotFound = zerr.New("file not found")

	// ErrSheetNotFound is returned when no worksheet has the requested name.
	ErrSheetNotFound = zerr.New("sheet not found")

	// ErrPartNotFound is returned when a relationship points to a part missing from the package.
	ErrPartNotFound = zerr.New("package part not found")

	// ErrPivotCacheNotFound is returned when a pivot table has no cache definition relationship.
	ErrPivotCacheNotFound = zerr.New("pivot cache definition not found")

	// ErrNoMatchingPivotTable is returned when the sheet has no pivot table matching the filter.
	ErrNoMatchingPivotTable = zerr.New("no matching pivot table")

	// ErrNoRootElement is returned when a part holds no XML element.
	ErrNoRootElement = zerr.New("no root element")
)
