// Package importer backfills attendance from a spreadsheet of start and stop
// times.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Row is one valid sheet line. Line is 1-based as shown in a spreadsheet app.
type Row struct {
	Line  int
	Start time.Time
	Stop  time.Time
}

// ReadFile reads (start, stop) pairs from the active sheet of an xlsx file.
// The first row is a header. Cells hold Excel date-time serials which are
// read as wall clock times in loc. Invalid rows are reported, not returned.
func ReadFile(ctx context.Context, path string, loc *time.Location) ([]Row, []string) {
	var rows []Row
	var errResult []string
	ctxLogger := log.WithContext(ctx)

	if loc == nil {
		loc = time.Local
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		errStr := fmt.Errorf("Unable to open the timesheet. Please confirm the file is in xlsx format. ")
		ctxLogger.WithError(err).Error(errStr)
		return nil, append(errResult, errStr.Error())
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	ctxLogger.Info("SheetName: ", sheet)
	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		errStr := fmt.Errorf("Unable to read sheet %v: %v", sheet, err)
		ctxLogger.WithError(err).Error(errStr)
		return nil, append(errResult, errStr.Error())
	}

	for index, cell := range cells {
		if index == 0 {
			continue
		}
		line := index + 1
		if blank(cell) {
			continue
		}
		if len(cell) < 2 {
			errResult = append(errResult, fmt.Sprintf("Row %d: expected punch in and punch out columns", line))
			continue
		}

		start, err := parseCell(cell[0], loc)
		if err != nil {
			errResult = append(errResult, fmt.Sprintf("Row %d: invalid punch in %q", line, cell[0]))
			continue
		}
		stop, err := parseCell(cell[1], loc)
		if err != nil {
			errResult = append(errResult, fmt.Sprintf("Row %d: invalid punch out %q", line, cell[1]))
			continue
		}
		if stop.Before(start) {
			errResult = append(errResult, fmt.Sprintf("Row %d: punch out is before punch in", line))
			continue
		}

		rows = append(rows, Row{Line: line, Start: start, Stop: stop})
	}
	return rows, errResult
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseCell(raw string, loc *time.Location) (time.Time, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, err
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}
