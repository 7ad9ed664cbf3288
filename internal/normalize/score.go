package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// A digit run may carry comma group separators ("1,234").
var scoreDigits = regexp.MustCompile(`\d+(?:,\d{3})*`)

// ParseScore reads the first digit run in text, so "1 point" and "123 points"
// both parse. Text without digits scores 0.
func ParseScore(text string) int {
	match := scoreDigits.FindString(text)
	if match == "" {
		return 0
	}
	points, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return points
}
