package calendar

import "time"

// Window is an inclusive month/day range within one calendar year.
type Window struct {
	FromMonth time.Month
	FromDay   int
	ToMonth   time.Month
	ToDay     int
}

// TransferWindows are the ranges in which AI transfers and negotiations
// may execute: all of January, July through August, and the first two days
// of September.
var TransferWindows = []Window{
	{FromMonth: time.January, FromDay: 1, ToMonth: time.January, ToDay: 31},
	{FromMonth: time.July, FromDay: 1, ToMonth: time.September, ToDay: 2},
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	key := int(d.Month())*100 + d.Day()
	from := int(w.FromMonth)*100 + w.FromDay
	to := int(w.ToMonth)*100 + w.ToDay
	return key >= from && key <= to
}

// InTransferWindow reports whether d falls in any transfer window.
func InTransferWindow(d Date) bool {
	for _, w := range TransferWindows {
		if w.Contains(d) {
			return true
		}
	}
	return false
}
