package grant

import (
	"fmt"
	"time"
)

// FallbackStorageDate is stored when a submitted date cannot be parsed.
// Kept from the previous system, which fell back to the epoch in local
// time; existing rows carry this value so it must stay recognizable.
const FallbackStorageDate = "1969-12-31"

// UnspecifiedDate is displayed when a stored value fails to parse as a
// date at all.
const UnspecifiedDate = "[Unspecified]"

const storageDateLayout = "2006-01-02"

// displayDateLayouts are tried in order when parsing submitted dates.
// Forms send m/d/Y but users paste all sorts of things.
var displayDateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"1-2-2006",
}

// ToStorageDate converts a submitted date to the Y-m-d storage form.
// Unparseable input yields FallbackStorageDate; callers are expected to
// log a warning when that happens.
func ToStorageDate(display string) string {
	for _, layout := range displayDateLayouts {
		if t, err := time.Parse(layout, display); err == nil {
			return t.Format(storageDateLayout)
		}
	}
	return FallbackStorageDate
}

// FromStorageDate converts a stored Y-m-d date back to m/d/Y display text
// without leading zeros. Values that do not parse come back as
// UnspecifiedDate.
func FromStorageDate(stored string) string {
	t, err := time.Parse(storageDateLayout, stored)
	if err != nil {
		return UnspecifiedDate
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}
