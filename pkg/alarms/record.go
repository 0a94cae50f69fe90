package alarms

// Record holds the alarm state of one EPICS record.
type Record struct {
	Name   string
	values map[string]string
}

// NewRecord returns a Record without alarms: severities and statuses are
// NO_ALARM, text fields are empty.
func NewRecord(name string) Record {
	return Record{
		Name: name,
		values: map[string]string{
			FieldSeverity:    NoAlarm,
			FieldStatus:      NoAlarm,
			FieldNewSeverity: NoAlarm,
			FieldNewStatus:   NoAlarm,
			FieldDescription: "",
			FieldMessage:     "",
			FieldNewMessage:  "",
		},
	}
}

// Channel returns the channel name of a record field.
func Channel(record, field string) string {
	return record + "." + field
}

// Set stores the value read for a field. Numeric severities and statuses are
// stored by name.
func (r *Record) Set(field, value string) {
	if r.values == nil {
		*r = NewRecord(r.Name)
	}
	r.values[field] = normalize(field, value)
}

// Get returns the value of a field, or "" when the field was never set.
func (r Record) Get(field string) string {
	return r.values[field]
}

// Ignorable reports whether the record can be left out of an alarm report:
// either nothing is in alarm, or the record is only undefined (UDF) and
// undefined records are not wanted.
func (r Record) Ignorable(includeUDF bool) bool {
	if r.Get(FieldSeverity) == NoAlarm &&
		r.Get(FieldStatus) == NoAlarm &&
		r.Get(FieldNewSeverity) == NoAlarm {
		return true
	}
	return r.Get(FieldStatus) == StatusUDF && !includeUDF
}
