package in

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "studytrace/internal/platform/errors"
)

var thresholdOption = regexp.MustCompile(`^(.+?)\s*\(\s*([0-9]+(?:\.[0-9]+)?)\s*min\s*\)$`)

// ParseThresholdOptions decodes "Component (N min)" entries into a
// component to minutes mapping.
func ParseThresholdOptions(options []string) (map[string]float64, error) {
	out := make(map[string]float64, len(options))
	for _, option := range options {
		m := thresholdOption.FindStringSubmatch(strings.TrimSpace(option))
		if m == nil {
			return nil, fmt.Errorf("%w: threshold option %q", apperrors.ErrInvalidInput, option)
		}
		minutes, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: threshold option %q", apperrors.ErrInvalidInput, option)
		}
		out[strings.TrimSpace(m[1])] = minutes
	}
	return out, nil
}

// FormatThresholdOptions encodes a mapping as "Component (N min)" entries
// sorted by component.
func FormatThresholdOptions(thresholds map[string]float64) []string {
	components := make([]string, 0, len(thresholds))
	for c := range thresholds {
		components = append(components, c)
	}
	sort.Strings(components)
	out := make([]string, 0, len(components))
	for _, c := range components {
		out = append(out, fmt.Sprintf("%s (%s min)", c, strconv.FormatFloat(thresholds[c], 'f', -1, 64)))
	}
	return out
}

// ParseThresholdAssignments decodes Component=minutes pairs as given on the
// command line.
func ParseThresholdAssignments(pairs map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for component, raw := range pairs {
		minutes, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
			return nil, fmt.Errorf("%w: threshold %q for %q", apperrors.ErrInvalidInput, raw, component)
		}
		out[strings.TrimSpace(component)] = minutes
	}
	return out, nil
}
