package unparse

import "strings"

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func lcmInt(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a / gcdInt(a, b) * b
}

// mergeMessages implements spec.md §4.8's message merge: several BMS
// messages on the same (track, channel) are combined into one at the LCM of
// their pair-counts, each original pair landing at its proportionally
// scaled slot. A "00" pair never overwrites a real one.
func mergeMessages(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	if len(msgs) == 1 {
		return msgs[0]
	}

	counts := make([]int, len(msgs))
	total := 0
	for i, m := range msgs {
		counts[i] = len(m) / 2
		total = lcmInt(total, counts[i])
	}
	if total == 0 {
		return ""
	}

	slots := make([]string, total)
	for i := range slots {
		slots[i] = "00"
	}
	for i, m := range msgs {
		n := counts[i]
		if n == 0 {
			continue
		}
		scale := total / n
		for p := 0; p < n; p++ {
			pair := m[p*2 : p*2+2]
			if pair == "00" {
				continue
			}
			slots[p*scale] = pair
		}
	}
	return strings.Join(slots, "")
}
