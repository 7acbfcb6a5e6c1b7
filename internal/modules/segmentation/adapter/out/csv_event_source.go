package out

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"studytrace/internal/modules/segmentation/domain"
	segmentationout "studytrace/internal/modules/segmentation/port/out"
	apperrors "studytrace/internal/platform/errors"
)

const (
	colStudent    = "Student ID"
	colUnixTime   = "Unix_Time"
	colDuration   = "Duration"
	colEstimated  = "Estimated_Duration"
	colComponent  = "Component"
	colCourseArea = "Course_Area"
	colEventName  = "Event_Name"
)

var requiredColumns = []string{colStudent, colUnixTime, colDuration, colEstimated, colComponent, colCourseArea}

// CSVEventSource reads an exported interaction log with one header row.
type CSVEventSource struct {
	path string
}

func NewCSVEventSource(path string) segmentationout.EventSource {
	return &CSVEventSource{path: path}
}

func (s *CSVEventSource) LoadEvents(ctx context.Context, window domain.Window) ([]domain.Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return readCSVEvents(ctx, f, window)
}

func readCSVEvents(ctx context.Context, r io.Reader, window domain.Window) ([]domain.Event, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: csv column %q missing", apperrors.ErrInvalidInput, name)
		}
	}
	eventCol, hasEventName := cols[colEventName]

	var events []domain.Event
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		ts, err := parseUnix(record[cols[colUnixTime]])
		if err != nil {
			return nil, fmt.Errorf("line %d %s: %w", line, colUnixTime, err)
		}
		if !window.Contains(ts) {
			continue
		}
		duration, err := parseSeconds(record[cols[colDuration]])
		if err != nil {
			return nil, fmt.Errorf("line %d %s: %w", line, colDuration, err)
		}
		estimated, err := parseSeconds(record[cols[colEstimated]])
		if err != nil {
			return nil, fmt.Errorf("line %d %s: %w", line, colEstimated, err)
		}
		e := domain.Event{
			StudentID:         strings.TrimSpace(record[cols[colStudent]]),
			Timestamp:         ts,
			Duration:          duration,
			EstimatedDuration: estimated,
			Component:         strings.TrimSpace(record[cols[colComponent]]),
			CourseArea:        strings.TrimSpace(record[cols[colCourseArea]]),
		}
		if hasEventName {
			e.EventName = strings.TrimSpace(record[eventCol])
		}
		events = append(events, e)
	}
	return sortChronological(events), nil
}

func parseUnix(raw string) (time.Time, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", apperrors.ErrInvalidInput, raw)
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
}

// parseSeconds treats an empty cell as zero.
func parseSeconds(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: seconds %q", apperrors.ErrInvalidInput, raw)
	}
	return v, nil
}
