// Package punch turns a start/stop interval into an OrangeHRM attendance
// record and submits it.
package punch

import (
	"strconv"
	"time"
)

const (
	NoteIn  = "App In"
	NoteOut = "App out"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Record is the body posted to the attendance endpoint.
type Record struct {
	EmployeeIdentifier string `json:"employee_identifier"`
	PunchInDate        string `json:"punch_in_date"`
	PunchInTime        string `json:"punch_in_time"`
	PunchInTzOffset    string `json:"punch_in_tz_offset"`
	PunchInNote        string `json:"punch_in_note"`
	PunchOutDate       string `json:"punch_out_date"`
	PunchOutTime       string `json:"punch_out_time"`
	PunchOutTzOffset   string `json:"punch_out_tz_offset"`
	PunchOutNote       string `json:"punch_out_note"`
}

// NewRecord localizes start and stop independently in loc, so each carries
// the offset in effect at its own instant. A nil loc means time.Local.
func NewRecord(employeeID string, start, stop time.Time, loc *time.Location) Record {
	if loc == nil {
		loc = time.Local
	}
	inDate, inTime, inOffset := localize(start, loc)
	outDate, outTime, outOffset := localize(stop, loc)
	return Record{
		EmployeeIdentifier: employeeID,
		PunchInDate:        inDate,
		PunchInTime:        inTime,
		PunchInTzOffset:    inOffset,
		PunchInNote:        NoteIn,
		PunchOutDate:       outDate,
		PunchOutTime:       outTime,
		PunchOutTzOffset:   outOffset,
		PunchOutNote:       NoteOut,
	}
}

func localize(t time.Time, loc *time.Location) (date, clock, offset string) {
	local := t.In(loc)
	_, seconds := local.Zone()
	return local.Format(dateLayout), local.Format(timeLayout), FormatOffset(seconds)
}

// FormatOffset renders a UTC offset in seconds as signed decimal hours:
// -18000 is "-5", 19800 is "5.5".
func FormatOffset(seconds int) string {
	return strconv.FormatFloat(float64(seconds)/3600, 'f', -1, 64)
}
