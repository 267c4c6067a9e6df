package events

import (
	"strings"
	"time"

	"recreo/errs"
	"recreo/proximity"
	"recreo/utils"
)

// FirstAvailableID is the smallest positive integer not in ids. It scans
// every id on each creation.
func FirstAvailableID(ids []int) int {
	used := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		used[id] = struct{}{}
	}
	for i := 1; ; i++ {
		if _, ok := used[i]; !ok {
			return i
		}
	}
}

// Input is the create and update body. Empty fields are left unchanged on
// update.
type Input struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Type            string           `json:"type"`
	LocationID      string           `json:"locationId"`
	Location        string           `json:"location"`
	Sports          utils.StringList `json:"sports"`
	Category        utils.StringList `json:"category"`
	StartDate       string           `json:"startDate"`
	EndDate         string           `json:"endDate"`
	Interval        string           `json:"interval"`
	LocationAddName string           `json:"locationAddName"`
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := proximity.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errs.Validation("Body parameter '" + field + "' is not a valid date.")
	}
	return t, nil
}

// dates resolves the schedule, defaulting either end to now.
func (in Input) dates(now time.Time) (start, end time.Time, err error) {
	start, end = now, now
	if in.StartDate != "" {
		if start, err = parseDate("startDate", in.StartDate); err != nil {
			return
		}
	}
	if in.EndDate != "" {
		if end, err = parseDate("endDate", in.EndDate); err != nil {
			return
		}
	}
	if start.After(end) {
		err = errs.Validation(proximity.InvalidDateRangeMsg)
	}
	return
}
