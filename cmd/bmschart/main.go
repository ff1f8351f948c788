// Command bmschart parses a .bms or .bmson file given on argv, compiles
// it, and prints a diagnostic report plus a timeline summary to stdout.
// Adapted from the teacher's cmd/corelx driver shape; argument parsing and
// process exit codes beyond a coarse success/failure split are out of
// scope for this example, the same role the teacher's example mains play
// for internal/corelx.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nitro-core-dx/internal/chartmodel"

	bmscore "nitro-core-dx"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <chart.bms|chart.bmson>\n", os.Args[0])
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %v\n", err)
		os.Exit(1)
	}

	var out bmscore.ParseOutput
	if strings.EqualFold(filepath.Ext(path), ".bmson") {
		out = bmscore.ParseBMSON(string(source))
	} else {
		out = bmscore.ParseBMS(string(source), nil)
	}

	for _, d := range out.Warnings {
		fmt.Printf("%s: %s\n", d.Severity, d.Error())
	}
	if out.Err != nil {
		fmt.Fprintf(os.Stderr, "parse failed: %v\n", out.Err)
		os.Exit(1)
	}

	chart, diags := bmscore.Compile(out.Model)
	for _, d := range diags {
		fmt.Printf("%s: %s\n", d.Severity, d.Error())
	}

	fmt.Printf("title: %s\n", out.Model.MusicInfo.Title)
	fmt.Printf("events: %d (flow events: %d)\n", len(chart.AllEvents), len(chart.FlowEventsByY))
	if chart.InitBPM != nil {
		fmt.Printf("initial bpm: %s\n", chart.InitBPM.FloatString(3))
	}

	eng := bmscore.NewEngine(chart, 2*time.Second, chartmodel.NewDecimalInt(130), time.Now())
	fmt.Printf("session: %s\n", eng.SessionID)
}
