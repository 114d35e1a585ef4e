package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/modsync/modsync/internal/reconcile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)

	printer = message.NewPrinter(language.English)
)

// DisableColor turns off ANSI colours, honouring NO_COLOR and non-TTY output.
func DisableColor(disable bool) {
	color.NoColor = disable || os.Getenv("NO_COLOR") != ""
}

// statusLabels are the short tags printed in front of each artifact.
var statusLabels = map[reconcile.Status]string{
	reconcile.StatusUpToDate:        "up to date",
	reconcile.StatusUpdated:         "updated",
	reconcile.StatusUpdateAvailable: "update available",
	reconcile.StatusUnresolved:      "skipped",
	reconcile.StatusLookupFailed:    "lookup failed",
	reconcile.StatusUpdateAborted:   "not updated",
	reconcile.StatusUpdateFailed:    "UPDATE FAILED",
}

func colorFor(s reconcile.Status) *color.Color {
	switch s {
	case reconcile.StatusUpdated, reconcile.StatusUpToDate:
		return green
	case reconcile.StatusUpdateAvailable:
		return cyan
	case reconcile.StatusUpdateFailed:
		return red
	case reconcile.StatusUnresolved:
		return faint
	default:
		return yellow
	}
}

// Print writes the per-artifact lines and the run summary to w.
func Print(w io.Writer, rep *reconcile.Report) {
	if rep.DryRun {
		cyan.Fprintf(w, "Dry run: no files will be changed.\n")
	}
	fmt.Fprintf(w, "Checking %s against %s\n\n", rep.ModsDir, rep.Target)

	for i := range rep.Results {
		printResult(w, &rep.Results[i])
	}

	printFailures(w, rep)
	printSummary(w, rep)
}

func printResult(w io.Writer, res *reconcile.Result) {
	status := res.Status()
	colorFor(status).Fprintf(w, "  %-16s", statusLabels[status])
	fmt.Fprintf(w, " %s", res.Artifact.Name)

	switch status {
	case reconcile.StatusUpdated:
		fmt.Fprintf(w, " -> %s", res.Installed)
	case reconcile.StatusUpdateAvailable, reconcile.StatusUpdateFailed, reconcile.StatusUpdateAborted:
		fmt.Fprintf(w, " -> %s", res.Latest)
	}
	if res.Identity.Kind == reconcile.IdentitySearch {
		faint.Fprintf(w, " (matched by name search, please verify)")
	}
	fmt.Fprintln(w)

	if res.Downgrade {
		yellow.Fprintf(w, "  %-16s registry's latest compatible release is older than the installed version\n", "")
	}
	if res.Err != nil && status != reconcile.StatusUpdateFailed {
		faint.Fprintf(w, "  %-16s %v\n", "", res.Err)
	}
}

// printFailures lists artifacts that are now only present in the backup dir.
func printFailures(w io.Writer, rep *reconcile.Report) {
	var failed []*reconcile.Result
	for i := range rep.Results {
		if rep.Results[i].Status() == reconcile.StatusUpdateFailed {
			failed = append(failed, &rep.Results[i])
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintln(w)
	red.Fprintf(w, "%d mod(s) were backed up but their update did not install:\n", len(failed))
	for _, res := range failed {
		fmt.Fprintf(w, "  %s\n", res.Artifact.Name)
		fmt.Fprintf(w, "    backup: %s\n", res.BackupPath)
		fmt.Fprintf(w, "    error:  %v\n", res.Err)
	}
	fmt.Fprintf(w, "Move the backup back into %s or re-run once the registry is reachable.\n", rep.ModsDir)
}

func printSummary(w io.Writer, rep *reconcile.Report) {
	counts := rep.Counts()

	fmt.Fprintln(w)
	printer.Fprintf(w, "%d mod(s) checked in %s", len(rep.Results), rep.Duration().Round(time.Millisecond))
	for _, s := range reconcile.Statuses {
		if n := counts[s]; n > 0 {
			printer.Fprintf(w, ", %d %s", n, statusLabels[s])
		}
	}
	fmt.Fprintln(w)

	if b := rep.BytesDownloaded(); b > 0 {
		printer.Fprintf(w, "Downloaded %d bytes.\n", b)
	}
}
