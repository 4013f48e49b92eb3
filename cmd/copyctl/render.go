package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"copyd/internal/protocol"

	"github.com/docker/go-units"
)

func printJobs(w io.Writer, jobs []protocol.JobSummary) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tWRITES\tPROGRESS\tSOURCE\tDESTINATION")
	for _, job := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			job.ID, job.Status, job.Writes, percent(job.Percentage), job.Source, job.Destination)
	}
	tw.Flush()
}

func printFrame(w io.Writer, jobs []protocol.JobSummary, elapsed time.Duration) {
	running := 0
	for _, job := range jobs {
		if job.Status == "running" {
			running++
		}
	}
	fmt.Fprintf(w, "%d job(s), %d running (elapsed: %s)\n\n", len(jobs), running, units.HumanDuration(elapsed))
	printJobs(w, jobs)
}

func percent(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p*100, 'f', 1, 64) + "%"
}
