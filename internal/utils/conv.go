package utils

import (
	"strconv"
)

// ParseID parses a positive numeric path id, returns 0 if invalid
func ParseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
