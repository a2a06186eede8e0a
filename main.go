package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	configFlag := flag.String("config", "", "Path to a YAML config file")
	dataFlag := flag.String("data", "", "Ledger file path (overrides config)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Food Ledger
by Insight Delivered

Logs food entries to an append-only ledger file and reports daily
calorie and macro totals.

Usage:
  food-ledger [flags] <command> [command flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Commands:
  init      Create the ledger file if it does not exist
  log       Append an entry (-name, -calories, -protein, -carbs, -fat, -date)
  list      Show entries and totals for a day (-date, -all)
  totals    Show totals for a day (-date)
  serve     Run the HTTP API (-addr)

Examples:
  # Log a meal for today
  food-ledger log -name "Rice, white, cooked" -calories 130 -protein 2.7 -carbs 28 -fat 0.3

  # Show yesterday's entries
  food-ledger list -date 2026-02-10

  # Use a different ledger file
  food-ledger -data /var/lib/food/log.csv totals

  # Serve the API on port 8080
  food-ledger serve -addr :8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("food-ledger v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	app, err := newApp(*configFlag, *dataFlag)
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	if err := app.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fatalf("Error: %v\n", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
