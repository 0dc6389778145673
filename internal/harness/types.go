package harness

// Trace event kinds.
const (
	EventCheck = "check"
	EventIdiv  = "idiv"
)

// TraceEvent is one entry of a scenario trace: either a certificate check
// read back from the log, or an integer division case.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`

	// check
	Step          string   `json:"step,omitempty"`
	Rule          string   `json:"rule,omitempty"`
	Coefficients  []string `json:"coefficients,omitempty"`
	LCD           string   `json:"lcd,omitempty"`
	Inequality    string   `json:"inequality,omitempty"`
	Contradiction bool     `json:"contradiction,omitempty"`

	// idiv
	Term    string `json:"term,omitempty"`
	Divisor string `json:"divisor,omitempty"`
	Output  string `json:"output,omitempty"`

	// Error is the error code (or message when there is no code).
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// RunID is the run the checks were logged under.
	RunID string `json:"run_id"`

	// Trace holds checks in seq order followed by idiv cases.
	Trace []TraceEvent `json:"trace"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addEvent(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
