package order

import (
	"fmt"
	"regexp"
	"time"
)

const numberDayLayout = "20060102"

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{4,}$`)

// FormatNumber renders the business number ORD-YYYYMMDD-NNNN.
func FormatNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", day.Format(numberDayLayout), seq)
}

func DayKey(t time.Time) string {
	return t.Format(numberDayLayout)
}

func ValidNumber(n string) bool {
	return numberPattern.MatchString(n)
}
