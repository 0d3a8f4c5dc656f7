package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day format used in journal queries and export names.
const DateLayout = "2006-01-02"

// ParseID parses a store id from a path or flag value.
func ParseID(val string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", val)
	}
	return id, nil
}

// ParseIDs parses a comma separated id list such as "1,2, 3".
// An empty string yields an empty, non-nil slice.
func ParseIDs(val string) ([]int64, error) {
	ids := make([]int64, 0)
	for _, part := range strings.Split(val, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := ParseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseDate parses a YYYY-MM-DD day in the local zone. An empty value means today.
func ParseDate(val string) (time.Time, error) {
	if strings.TrimSpace(val) == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(val), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", val)
	}
	return day, nil
}
