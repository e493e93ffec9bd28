// Command ftsdemo drives the kernel over a small, hard-coded posting
// fixture and prints the resulting output table. It exists to exercise
// the pipeline end to end without a network listener: this repository
// does not serve requests.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/NickG-1/qlever/config"
	"github.com/NickG-1/qlever/kernel"
	"github.com/NickG-1/qlever/model"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		limitsFile = flag.String("limits", "", "Path to a YAML limits file (optional, defaults otherwise)")
		topK       = flag.Int("k", 2, "Number of contexts to keep per entity")
	)
	flag.Parse()

	if *help {
		fmt.Printf("ftsdemo - runs the FTS join/aggregation kernel over a fixed demo fixture\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                    # Run with default limits and k=2\n", os.Args[0])
		fmt.Printf("  %s --k 1              # Keep only the single best context per entity\n", os.Args[0])
		fmt.Printf("  %s --limits ./l.yaml  # Load resource limits from a YAML file\n", os.Args[0])
		return
	}

	if *version {
		fmt.Println("ftsdemo v1.0.0")
		return
	}

	limits := config.DefaultLimits()
	if *limitsFile != "" {
		loaded, err := config.LoadLimits(*limitsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading limits: %v\n", err)
			os.Exit(1)
		}
		limits = loaded
	}
	if problems := limits.Validate(); len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "invalid limits: %v\n", problems)
		os.Exit(1)
	}

	pipeline := kernel.NewPipeline(limits)

	lists := []model.WordEntityPostings{
		{
			CIDs:   []model.ContextID{1, 2, 3, 5},
			Scores: []model.Score{3, 1, 2, 4},
			WIDs:   [][]model.WordID{{10, 11, 10, 12}},
		},
		{
			CIDs:   []model.ContextID{2, 3, 4, 5},
			EIDs:   []model.EntityID{100, 101, 102, 100},
			Scores: []model.Score{5, 6, 7, 8},
			WIDs:   [][]model.WordID{{20, 21, 20, 21}},
		},
	}
	ranges := []model.IdRange{
		{First: 10, Last: 12},
		{First: 20, Last: 21},
	}

	out, err := pipeline.RunWordSearch("demo", ranges, lists, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("result: %d rows (context, count, entity, one word per list)\n", out.Len())
	for _, row := range out.Rows {
		fmt.Println(row)
	}
}
