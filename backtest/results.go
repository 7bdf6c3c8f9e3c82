package backtest

import (
	"fmt"
	"io"
	"strings"
)

var separator = strings.Repeat("=", 55)

// PrintResult writes the final summary block of a run.
func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Final balance   [$] %.2f\n", r.FinalBalance)
	fmt.Fprintf(w, "Net Performance [%%] %.2f\n", r.NetPerformancePct)
	fmt.Fprintf(w, "Trades Executed [#] %d\n", r.Trades)
	fmt.Fprintln(w, separator)
}

// PrintRun writes a detailed report of a run, for comparing
// parameterizations across journal entries.
func PrintRun(w io.Writer, r Result) {
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Instrument:    %s\n", r.Instrument)
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format("2006-01-02"))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format("2006-01-02"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Start Balance: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "Final Balance: %.2f\n", r.FinalBalance)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.NetPerformancePct)
	fmt.Fprintf(w, "Trades:        %d\n", r.Trades)
	fmt.Fprintln(w, separator)
}
