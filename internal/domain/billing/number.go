package billing

import (
	"fmt"
	"time"
)

// DayLayout is the YYYY-MM-DD form used for calendar days.
const DayLayout = "2006-01-02"

// InvoiceNumber formats the issue date as DDMMYY followed by a zero-padded
// three digit sequence. Sequences above 999 simply widen the suffix.
func InvoiceNumber(issueDate time.Time, sequence int) string {
	return fmt.Sprintf("%s%03d", issueDate.Format("020106"), sequence)
}

// DayKey is the calendar day used by the per-day sequence counter.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
