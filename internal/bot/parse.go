package bot

import (
	"strconv"
	"strings"

	workorder "easypcm_backend/internal/workorder/service"
)

var noneAnswers = map[string]bool{"NENHUMA": true, "NENHUM": true, "NAO": true, "NÃO": true}

// ParseHHMM parses a wall-clock time of day ("8:05", "23:59") and returns
// minutes since midnight.
func ParseHHMM(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ParseTotalDuration parses a total-duration answer given instead of a start
// time: bare digits are minutes, an "h"/"hora(s)" suffix means hours, and an
// optional leading "TOTAL" marker is ignored.
func ParseTotalDuration(s string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(t, "total") {
		t = strings.TrimSpace(strings.TrimPrefix(t, "total"))
	}
	if allDigits(t) {
		n, _ := strconv.Atoi(t)
		return n, true
	}
	t = strings.ReplaceAll(t, "horas", "h")
	t = strings.ReplaceAll(t, "hora", "h")
	t = strings.ReplaceAll(t, " ", "")
	if num, found := strings.CutSuffix(t, "h"); found && allDigits(num) {
		n, _ := strconv.Atoi(num)
		return n * 60, true
	}
	return 0, false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ElapsedMinutes computes end-start in minutes, assuming an end earlier than
// the start crossed midnight. Never negative.
func ElapsedMinutes(start, end int) int {
	if end < start {
		end += 24 * 60
	}
	if end < start {
		return 0
	}
	return end - start
}

// SafeFloatString normalizes a decimal-comma money answer to a dotted
// numeric string. Non-numeric input is kept literally (best effort); an
// empty answer maps to the no-information sentinel.
func SafeFloatString(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return workorder.NoInformation
	}
	dotted := strings.ReplaceAll(t, ",", ".")
	if _, err := strconv.ParseFloat(dotted, 64); err != nil {
		return t
	}
	return dotted
}

// ParseNameList splits a comma-separated answer into trimmed, non-empty
// items.
func ParseNameList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseMaterialsList is ParseNameList with the extra rule that
// "nenhuma"-style answers mean no materials at all.
func ParseMaterialsList(s string) []string {
	if noneAnswers[strings.ToUpper(strings.TrimSpace(s))] {
		return nil
	}
	return ParseNameList(s)
}
