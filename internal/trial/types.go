package trial

import "strconv"

// Request describes a single solver invocation.
type Request struct {
	TSPFile string `json:"tsp_file"`
	Cities  int    `json:"cities"`
	Threads int    `json:"threads"`
	// Cutoff is the solver's optional search cutoff. Zero means the
	// argument is omitted entirely.
	Cutoff int `json:"cutoff,omitempty"`
}

// Args returns the solver argv in its fixed positional order:
// file, city count, thread count, then the cutoff when set.
func (r Request) Args() []string {
	args := []string{r.TSPFile, strconv.Itoa(r.Cities), strconv.Itoa(r.Threads)}
	if r.Cutoff > 0 {
		args = append(args, strconv.Itoa(r.Cutoff))
	}
	return args
}

// Output is the captured output of one solver run.
type Output struct {
	Stdout string
	Stderr string
}

// Stats carries the secondary figures the solver reports alongside its
// time line. All fields are best-effort; a missing line leaves the zero
// value.
type Stats struct {
	BestDistance   float64 `json:"best_distance,omitempty"`
	TasksProcessed int64   `json:"tasks_processed,omitempty"`
	TasksCreated   int64   `json:"tasks_created,omitempty"`
	Speedup        float64 `json:"speedup,omitempty"`
}

// Result is one measured trial: the thread count it ran with and the
// execution time scraped from the solver's output.
type Result struct {
	Threads int     `json:"threads"`
	Seconds float64 `json:"seconds"`
	Stats   Stats   `json:"stats,omitempty"`
}
