package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseAmount converts a stored quantity such as "2.7" or " 130 " to a
// float64. An empty field reads as zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite amount %q", s)
	}
	return v, nil
}
