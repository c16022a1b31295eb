// Package report renders a run result as a human-readable summary.
package report

import (
	"fmt"
	"strings"

	"github.com/sarchlab/vtb/verify"
)

// Format renders the run result as a multi-line summary. The output is
// deterministic for a given result.
func Format(res verify.RunResult) string {
	var b strings.Builder

	verdict := "FAIL"
	if res.Passed {
		verdict = "PASS"
	}

	fmt.Fprintf(&b, "verdict:    %s\n", verdict)
	fmt.Fprintf(&b, "state:      %s\n", res.State)
	fmt.Fprintf(&b, "policy:     %s\n", res.Policy)
	fmt.Fprintf(&b, "seed:       %d\n", res.Seed)
	fmt.Fprintf(&b, "end tick:   %d\n", res.EndTick)
	fmt.Fprintf(&b, "issued:     %d\n", res.Issued)
	fmt.Fprintf(&b, "observed:   %d\n", res.Observed)
	fmt.Fprintf(&b, "checked:    %d\n", res.Checked)
	fmt.Fprintf(&b, "passes:     %d\n", res.Passes)
	fmt.Fprintf(&b, "mismatches: %d\n", res.Mismatches)
	fmt.Fprintf(&b, "spurious:   %d\n", res.Spurious)
	fmt.Fprintf(&b, "coverage:   %.1f%%\n", res.Coverage.OverallPercent)

	for _, bin := range res.Coverage.Bins {
		mark := " "
		if bin.Hit {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s: %d hits\n", mark, bin.Name, bin.HitCount)
	}

	if res.FatalErr != nil {
		fmt.Fprintf(&b, "fatal:      %v\n", res.FatalErr)
	}

	if len(res.Failures) > 0 {
		fmt.Fprintf(&b, "failures:\n")
		for _, f := range res.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}

	return b.String()
}
