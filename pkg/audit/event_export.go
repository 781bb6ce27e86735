package audit

import (
	"fmt"
	"sort"
	"strings"
)

// DataExportEvent records a logical database export or import run from the CLI.
type DataExportEvent struct {
	Operation    string // export or import
	ArchiveID    string
	Path         string
	Tables       map[string]int
	Success      bool
	ErrorMessage string
}

func (e DataExportEvent) MessageID() string {
	return "data-" + e.Operation
}

func (e DataExportEvent) Message() string {
	if !e.Success {
		return withError(fmt.Sprintf("database %s of %s failed", e.Operation, e.Path), e.ErrorMessage)
	}
	total := 0
	for _, n := range e.Tables {
		total += n
	}
	return fmt.Sprintf("database %s %s: %d rows in %d tables (%s)", e.Operation, e.ArchiveID, total, len(e.Tables), e.Path)
}

func (e DataExportEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e DataExportEvent) Facility() int {
	return FacilityLocal0
}

func (e DataExportEvent) StructuredData() map[string]map[string]string {
	names := make([]string, 0, len(e.Tables))
	for name := range e.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	return map[string]map[string]string{
		SDIDSubject: {
			"archive": e.ArchiveID,
			"tables":  strings.Join(names, ","),
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
