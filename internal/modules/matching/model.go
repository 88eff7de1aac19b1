// README: Destination matching: bidirectional substring filter over candidates.
package matching

import (
	"strings"
	"unicode/utf8"
)

// minDirectionLen guards against one- and two-letter directions matching
// half the city.
const minDirectionLen = 3

// Match keeps the candidates whose destination and the driver's direction
// contain each other, either way round, case-insensitive. A direction
// shorter than minDirectionLen matches nothing.
func Match[T any](direction string, candidates []T, destinationOf func(T) string) []T {
	direction = strings.ToLower(strings.TrimSpace(direction))
	if utf8.RuneCountInString(direction) < minDirectionLen {
		return nil
	}
	var out []T
	for _, c := range candidates {
		dest := strings.ToLower(strings.TrimSpace(destinationOf(c)))
		if dest == "" {
			continue
		}
		if strings.Contains(dest, direction) || strings.Contains(direction, dest) {
			out = append(out, c)
		}
	}
	return out
}
