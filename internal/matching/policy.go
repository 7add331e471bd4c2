package matching

// FailurePolicy names how a component reacts when its external model call
// fails. The reference behavior is Degrade for semantic scoring and
// Propagate for rewrite generation; both are explicit here so neither
// happens by accident.
type FailurePolicy int

const (
	// Degrade substitutes a safe zero value and lets the analysis continue.
	Degrade FailurePolicy = iota
	// Propagate surfaces the failure to the caller, aborting the analysis.
	Propagate
)

func (p FailurePolicy) String() string {
	switch p {
	case Degrade:
		return "degrade"
	case Propagate:
		return "propagate"
	default:
		return "unknown"
	}
}
