// Package errorlist models the heat pump's error list and the operations on it.
package errorlist

// Record is one row of the device's error list. All fields keep the source
// formatting from the ISG page; nothing is reinterpreted as a number or date.
type Record struct {
	Number   string // positional index shown by the ISG, not part of identity
	Code     string
	HeatPump string
	Date     string
	Time     string
}

// Key identifies a record independently of its display position.
type Key struct {
	Code     string
	HeatPump string
	Date     string
	Time     string
}

// Key returns the identity key of the record. Number is excluded because the
// ISG renumbers rows as the list shifts.
func (r Record) Key() Key {
	return Key{Code: r.Code, HeatPump: r.HeatPump, Date: r.Date, Time: r.Time}
}
