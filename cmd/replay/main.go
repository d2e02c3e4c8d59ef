package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/beatoven/dspcoffee-bridge/internal/replay"
)

// #region main
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: replay <fixture.json>")
		os.Exit(2)
	}

	fx, err := replay.LoadFixture(os.Args[1])
	if err != nil {
		log.Fatalf("load fixture: %v", err)
	}
	if fx.Description != "" {
		fmt.Printf("Replaying: %s\n", fx.Description)
	}

	results, summary, err := replay.Run(fx)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}

	for _, r := range results {
		status := "ok"
		if !r.Matched {
			status = "MISMATCH: " + r.Note
		}
		ops := "-"
		if len(r.OpsKinds) > 0 {
			ops = strings.Join(r.OpsKinds, ",")
		}
		fmt.Printf("[%3d] action=%-14s best=%-20s score=%.4f current=%-20s ops=%-24s %s\n",
			r.Index, orDash(r.Action), orDash(r.BestPresetID), r.BestScore, orDash(r.CurrentPreset), ops, status)
	}

	fmt.Printf("\n%d events: %d matched, %d mismatched\n", summary.Total, summary.Matched, summary.Mismatched)
	if summary.Mismatched > 0 {
		os.Exit(1)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// #endregion main
