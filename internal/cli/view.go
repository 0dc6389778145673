package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/farkas/internal/store"
)

// CheckView is the JSON form of one checked step, shared by check and log.
type CheckView struct {
	Seq           int64    `json:"seq"`
	Step          string   `json:"step"`
	Rule          string   `json:"rule"`
	Accepted      bool     `json:"accepted"`
	Coefficients  []string `json:"coefficients,omitempty"`
	LCD           string   `json:"lcd,omitempty"`
	Inequality    string   `json:"inequality,omitempty"`
	Contradiction bool     `json:"contradiction"`
	ErrorCode     string   `json:"error_code,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func newCheckView(rec store.CheckRecord) CheckView {
	return CheckView{
		Seq:           rec.Seq,
		Step:          rec.Step,
		Rule:          rec.Rule,
		Accepted:      rec.Accepted(),
		Coefficients:  rec.Coefficients,
		LCD:           rec.LCD,
		Inequality:    rec.Inequality,
		Contradiction: rec.Contradiction,
		ErrorCode:     rec.ErrorCode,
		Error:         rec.ErrorMessage,
	}
}

// writeCheckText prints one line per step, then detail lines for
// rejected steps, e.g.
//
//	✓ bound [farkas] (<= 0 -2)  coeffs [1 -1]
//	✗ weak [farkas] (<= 0 1)  not a contradiction
func writeCheckText(w io.Writer, views []CheckView) {
	for _, v := range views {
		mark := "✓"
		if !v.Accepted {
			mark = "✗"
		}
		switch {
		case v.ErrorCode != "":
			fmt.Fprintf(w, "%s %s [%s] %s\n", mark, v.Step, v.Rule, v.ErrorCode)
			fmt.Fprintf(w, "  %s\n", v.Error)
		case !v.Contradiction:
			fmt.Fprintf(w, "%s %s [%s] %s  not a contradiction\n", mark, v.Step, v.Rule, v.Inequality)
		default:
			fmt.Fprintf(w, "%s %s [%s] %s  coeffs [%s]\n", mark, v.Step, v.Rule, v.Inequality, strings.Join(v.Coefficients, " "))
		}
	}
}
