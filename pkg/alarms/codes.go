package alarms

import "strconv"

// Alarm field names.
const (
	FieldSeverity    = "SEVR"
	FieldStatus      = "STAT"
	FieldMessage     = "AMSG"
	FieldNewStatus   = "NSTA"
	FieldNewSeverity = "NSEV"
	FieldNewMessage  = "NAMSG"
	FieldDescription = "DESC"
)

const (
	NoAlarm     = "NO_ALARM"
	StatusUDF   = "UDF"
	recordTitle = "Record name"
)

// Fields are read for every record. The description isn't an alarm field but
// makes the report readable.
var Fields = []string{FieldSeverity, FieldStatus, FieldNewSeverity, FieldNewStatus, FieldDescription}

// MessageFields are only available on EPICS 7 and later.
var MessageFields = []string{FieldMessage, FieldNewMessage}

var (
	shortFields = []string{FieldSeverity, FieldStatus, FieldNewSeverity, FieldNewStatus}
	longFields  = []string{FieldDescription, FieldMessage, FieldNewMessage}
)

// statusNames is indexed by the numeric alarm status (epicsAlarmCondition).
var statusNames = [...]string{
	"NO_ALARM",
	"READ",
	"WRITE",
	"HIHI",
	"HIGH",
	"LOLO",
	"LOW",
	"STATE",
	"COS",
	"COMM",
	"TIMEOUT",
	"HW_LIMIT",
	"CALC",
	"SCAN",
	"LINK",
	"SOFT",
	"BAD_SUB",
	"UDF",
	"DISABLE",
	"SIMM",
	"READ_ACCESS",
	"WRITE_ACCESS",
}

// severityNames is indexed by the numeric alarm severity (epicsAlarmSeverity).
var severityNames = [...]string{
	"NO_ALARM",
	"MINOR",
	"MAJOR",
	"INVALID",
}

// StatusName returns the name of a numeric alarm status. Anything that is not
// a known status code is returned unchanged.
func StatusName(value string) string {
	return lookup(statusNames[:], value)
}

// SeverityName returns the name of a numeric alarm severity. Anything that is
// not a known severity code is returned unchanged.
func SeverityName(value string) string {
	return lookup(severityNames[:], value)
}

func lookup(table []string, value string) string {
	code, err := strconv.Atoi(value)
	if err != nil || code < 0 || code >= len(table) {
		return value
	}
	return table[code]
}

// normalize converts numeric codes read from enum fields into their names.
func normalize(field, value string) string {
	switch field {
	case FieldStatus, FieldNewStatus:
		return StatusName(value)
	case FieldSeverity, FieldNewSeverity:
		return SeverityName(value)
	}
	return value
}
