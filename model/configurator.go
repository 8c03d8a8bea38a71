package model

import (
	"fmt"
	"path/filepath"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"go.trai.ch/zerr"

	"github.com/Prodigyb0y/OpenXML-Pivot-Table-Auto-Refresher/utils"
)

// LoggerName tags every entry emitted by a Configurator.
const LoggerName = "pivot-refresh"

// State - step of a single Configure invocation
type State int

// Configure runs Start → BackingUp → Loaded → {SheetMissing | NoMatch | Configuring → Saved} → End.
const (
	StateStart State = iota
	StateBackingUp
	StateLoaded
	StateSheetMissing
	StateNoMatch
	StateConfiguring
	StateSaved
	StateEnd
)

var stateNames = [...]string{
	"Start", "BackingUp", "Loaded", "SheetMissing", "NoMatch", "Configuring", "Saved", "End",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Reason classifies why a Configure call did not succeed.
type Reason int

const (
	// ReasonNone - the call succeeded
	ReasonNone Reason = iota
	// ReasonFileNotFound - the target file does not exist
	ReasonFileNotFound
	// ReasonSheetNotFound - the workbook has no sheet with the requested name
	ReasonSheetNotFound
	// ReasonNoMatch - the sheet has no pivot table matching the filter
	ReasonNoMatch
	// ReasonFailure - I/O, parse or save error, or a panic in the document library
	ReasonFailure
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonFileNotFound:
		return "file-not-found"
	case ReasonSheetNotFound:
		return "sheet-not-found"
	case ReasonNoMatch:
		return "no-match"
	case ReasonFailure:
		return "failure"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Result is the outcome of a Configure call.
type Result struct {
	OK     bool
	Reason Reason
	Err    error
	// State is the last state reached before End.
	State  State
	Backup string
	// Pivots lists the pivot tables whose cache got the flag, in sheet order.
	Pivots []string
}

func (r Result) fail(reason Reason, err error) Result {
	r.OK, r.Reason, r.Err = false, reason, err
	return r
}

// Configurator turns on refresh-on-load for the pivot tables of one workbook.
// It is not safe for concurrent use on the same file.
type Configurator struct {
	FileName string
	log      log.FieldLogger
}

// NewConfigurator creates a configurator for the workbook at fileName. The
// file is not accessed until an operation runs. A nil logger means the
// process-wide logrus logger.
func NewConfigurator(fileName string, logger log.FieldLogger) *Configurator {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Configurator{
		FileName: fileName,
		log: logger.WithFields(log.Fields{
			"logger": LoggerName,
			"file":   fileName,
		}),
	}
}

// CreateBackup copies the target to its backup path (report.xlsx ->
// report.backup.xlsx), replacing an earlier backup, and returns that path.
func (c *Configurator) CreateBackup() (string, error) {
	backup, _, err := c.createBackup()
	return backup, err
}

func (c *Configurator) createBackup() (string, Reason, error) {
	if !utils.FileExists(c.FileName) {
		return "", ReasonFileNotFound, zerr.With(ErrFileNotFound, "file", c.FileName)
	}
	backup := utils.BackupFileName(c.FileName)
	if _, err := utils.CopyFile(c.FileName, backup); err != nil {
		return "", ReasonFailure, zerr.With(zerr.Wrap(err, "failed to create backup"), "backup", backup)
	}
	c.log.WithField("backup", backup).Infof("Backup created at %q", backup)
	return backup, ReasonNone, nil
}

// SetRefreshOnLoad sets refresh-on-load on the pivot tables of the sheet,
// or only on the one named pivot when pivot is not empty. It reports
// whether the workbook was updated; the reason of a failure goes to the log.
func (c *Configurator) SetRefreshOnLoad(sheet, pivot string) bool {
	return c.Configure(sheet, pivot).OK
}

// Configure is SetRefreshOnLoad with the full outcome. It never panics and
// never returns an error other than through Result.
func (c *Configurator) Configure(sheet, pivot string) (res Result) {
	logger := c.log.WithField("sheet", sheet)
	if pivot != "" {
		logger = logger.WithField("pivot", pivot)
	}

	res.State = StateStart
	defer func() {
		if r := recover(); r != nil {
			res = res.fail(ReasonFailure, zerr.With(zerr.New(fmt.Sprint("panic: ", r)), "state", res.State.String()))
			logger.WithError(res.Err).WithFields(log.Fields{
				"state": res.State,
				"stack": string(debug.Stack()),
			}).Error("Unexpected failure while processing the workbook")
		}
	}()
	unexpected := func(err error) Result {
		logger.WithError(err).WithField("state", res.State).Error("Unexpected failure while processing the workbook")
		return res.fail(ReasonFailure, err)
	}

	res.State = StateBackingUp
	backup, reason, err := c.createBackup()
	if err != nil {
		logger.WithError(err).Error("Backup failed, the workbook was not touched")
		return res.fail(reason, err)
	}
	res.Backup = backup

	logger.Infof("Loading workbook %q...", filepath.Base(c.FileName))
	wb, err := Open(c.FileName)
	if err != nil {
		return unexpected(err)
	}
	defer func() {
		if err := wb.Close(); err != nil {
			logger.WithError(err).Warn("Failed to release the workbook")
		}
	}()
	res.State = StateLoaded

	if !wb.HasSheet(sheet) {
		res.State = StateSheetMissing
		logger.Errorf("Sheet %q not found", sheet)
		return res.fail(ReasonSheetNotFound, zerr.With(ErrSheetNotFound, "sheet", sheet))
	}

	pivots, err := wb.PivotTables(sheet)
	if err != nil {
		return unexpected(err)
	}
	for _, pt := range pivots {
		if pivot != "" && pt.Name != pivot {
			continue
		}
		res.State = StateConfiguring
		if err := wb.SetRefreshOnLoad(pt.CachePart, true); err != nil {
			return unexpected(zerr.With(err, "pivot_table", pt.Name))
		}
		res.Pivots = append(res.Pivots, pt.Name)
		logger.WithFields(log.Fields{
			"pivot_table": pt.Name,
			"cache":       pt.CachePart,
		}).Infof("Set refreshOnLoad=true for %q", pt.Name)
	}

	if len(res.Pivots) == 0 {
		res.State = StateNoMatch
		logger.Warnf("No pivot table found or matching on sheet %q", sheet)
		return res.fail(ReasonNoMatch, zerr.With(ErrNoMatchingPivotTable, "sheet", sheet))
	}

	logger.Info("Saving workbook...")
	if err := wb.Save(); err != nil {
		return unexpected(err)
	}
	res.State = StateSaved
	res.OK, res.Reason = true, ReasonNone
	logger.WithField("pivot_tables", res.Pivots).Info("Workbook updated successfully")
	return res
}

// Inspect lists the pivot tables of the sheet, or of every sheet when sheet
// is empty, with their current refresh-on-load flag. The file is only read.
func (c *Configurator) Inspect(sheet string) ([]PivotTable, error) {
	wb, err := Open(c.FileName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := wb.Close(); err != nil {
			c.log.WithError(err).Warn("Failed to release the workbook")
		}
	}()

	sheets := []string{sheet}
	if sheet == "" {
		sheets = wb.SheetNames()
	} else if !wb.HasSheet(sheet) {
		return nil, zerr.With(ErrSheetNotFound, "sheet", sheet)
	}

	var list []PivotTable
	for _, name := range sheets {
		pivots, err := wb.PivotTables(name)
		if err != nil {
			return nil, err
		}
		list = append(list, pivots...)
	}
	c.log.WithField("pivot_tables", len(list)).Debug("Inspected workbook")
	return list, nil
}
