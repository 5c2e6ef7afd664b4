package session

// Events a Runner emits when wired to a live UI. Consumers receive them
// over the channel set on Runner.Events; a nil channel disables emission.
type (
	// TrialStarted fires before a solver invocation.
	TrialStarted struct {
		Index   int // 1-based position in the session
		Total   int
		Threads int
	}

	// TrialDone fires after a time was extracted.
	TrialDone struct {
		Threads int
		Seconds float64
	}

	// Done fires once, after the chart was written.
	Done struct {
		PlotPath string
	}

	// Failed fires once, when the session aborts.
	Failed struct {
		Err error
	}
)
