package trial

import (
	"regexp"
	"strconv"
)

var (
	// Matches the solver's time line, e.g. "Time: 1.234 seconds".
	// The solver prints a second Time: line for its internal sequential
	// comparison run; the parallel run's line comes first, so the first
	// match is the one we want.
	timeRegex = regexp.MustCompile(`Time:\s+([0-9]*\.?[0-9]+)\s+seconds`)

	distanceRegex       = regexp.MustCompile(`Best distance:\s+([\d\.]+)`)
	tasksProcessedRegex = regexp.MustCompile(`Tasks processed:\s+(\d+)`)
	tasksCreatedRegex   = regexp.MustCompile(`Tasks created:\s+(\d+)`)
	speedupRegex        = regexp.MustCompile(`Speedup:\s+([\d\.]+)x`)
)

// ExtractionError reports solver output that contained no parseable
// time line. The raw output is kept so the caller can surface it.
type ExtractionError struct {
	Output string
}

func (e *ExtractionError) Error() string {
	return "could not extract time from output"
}

// ExtractTime scrapes the execution time from the solver's stdout.
// Returns an *ExtractionError when no time line is present.
func ExtractTime(output string) (float64, error) {
	matches := timeRegex.FindStringSubmatch(output)
	if matches == nil {
		return 0, &ExtractionError{Output: output}
	}
	seconds, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, &ExtractionError{Output: output}
	}
	return seconds, nil
}

// ExtractStats scrapes the solver's secondary figures. Missing lines
// are not errors; the corresponding fields stay zero.
func ExtractStats(output string) Stats {
	var stats Stats

	if m := distanceRegex.FindStringSubmatch(output); m != nil {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil {
			stats.BestDistance = val
		}
	}
	if m := tasksProcessedRegex.FindStringSubmatch(output); m != nil {
		if val, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			stats.TasksProcessed = val
		}
	}
	if m := tasksCreatedRegex.FindStringSubmatch(output); m != nil {
		if val, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			stats.TasksCreated = val
		}
	}
	if m := speedupRegex.FindStringSubmatch(output); m != nil {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil {
			stats.Speedup = val
		}
	}

	return stats
}
