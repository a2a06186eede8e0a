package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/insightdelivered/food-ledger/internal/api"
	"github.com/insightdelivered/food-ledger/internal/config"
	"github.com/insightdelivered/food-ledger/internal/ledger"
	"github.com/insightdelivered/food-ledger/internal/logging"
	"github.com/insightdelivered/food-ledger/internal/models"
	"github.com/insightdelivered/food-ledger/internal/report"
)

// cliApp wires configuration, logging and the store for one invocation.
type cliApp struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *ledger.Store
	out    io.Writer
	now    func() time.Time
}

func newApp(configPath, dataPath string) (*cliApp, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.Ledger.Path = dataPath
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	sc, err := cfg.StoreConfig()
	if err != nil {
		return nil, err
	}
	store, err := ledger.New(sc, ledger.WithLogger(logging.Component(logger, "ledger")))
	if err != nil {
		return nil, err
	}

	return &cliApp{cfg: cfg, logger: logger, store: store, out: os.Stdout, now: time.Now}, nil
}

func (a *cliApp) run(command string, args []string) error {
	switch command {
	case "init":
		return a.runInit()
	case "log":
		return a.runLog(args)
	case "list":
		return a.runList(args)
	case "totals":
		return a.runTotals(args)
	case "serve":
		return a.runServe(args)
	default:
		return fmt.Errorf("unknown command %q (expected init, log, list, totals or serve)", command)
	}
}

func (a *cliApp) runInit() error {
	if err := a.store.Ensure(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ledger ready: %s\n", a.store.Path())
	return nil
}

func (a *cliApp) runLog(args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	name := fs.String("name", "", "Food name (required)")
	calories := fs.Float64("calories", 0, "Calories (kcal)")
	protein := fs.Float64("protein", 0, "Protein (g)")
	carbs := fs.Float64("carbs", 0, "Carbohydrates (g)")
	fat := fs.Float64("fat", 0, "Fat (g)")
	date := fs.String("date", "", "Day to log against, YYYY-MM-DD (defaults to today, UTC)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*name) == "" {
		return errors.New("-name is required")
	}
	for _, v := range []float64{*calories, *protein, *carbs, *fat} {
		if v < 0 {
			return errors.New("nutrition values must not be negative")
		}
	}

	entry := models.NewRecord(*name, *calories,
		ledger.RoundTenth(*protein), ledger.RoundTenth(*carbs), ledger.RoundTenth(*fat), a.now())
	if *date != "" {
		if _, err := time.Parse(models.DateLayout, *date); err != nil {
			return fmt.Errorf("invalid -date %q: expected YYYY-MM-DD", *date)
		}
		entry.Date = *date
	}

	if err := a.store.Append(entry); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %s (%s) on %s\n", entry.Name, entry.ID, entry.Date)
	return nil
}

func (a *cliApp) runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	date := fs.String("date", "", "Day to show, YYYY-MM-DD (defaults to today, UTC)")
	all := fs.Bool("all", false, "Show every entry regardless of date")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := a.dayOrToday(*date)
	title := "Food log for " + filter
	if *all {
		filter = ""
		title = "Food log (all days)"
	}

	res, err := a.store.LoadReport(filter)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, report.Day(title, res.Records, ledger.Aggregate(res.Records)))
	if res.Skipped > 0 {
		fmt.Fprintf(a.out, "Warning: %d malformed row(s) skipped in %s\n", res.Skipped, a.store.Path())
	}
	return nil
}

func (a *cliApp) runTotals(args []string) error {
	fs := flag.NewFlagSet("totals", flag.ContinueOnError)
	date := fs.String("date", "", "Day to total, YYYY-MM-DD (defaults to today, UTC)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day := a.dayOrToday(*date)
	records, err := a.store.Load(day)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d entr(ies)\n%s\n", day, len(records), report.Totals(ledger.Aggregate(records)))
	return nil
}

func (a *cliApp) runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.Server.Addr, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.store.Ensure(); err != nil {
		return err
	}

	h := &api.Handler{
		Store:     a.store,
		Logger:    logging.Component(a.logger, "api"),
		StaticDir: a.cfg.Server.StaticDir,
	}
	app := h.NewApp()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		a.logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	a.logger.Info("food-ledger listening", "addr", *addr, "ledger", a.store.Path())
	return app.Listen(*addr)
}

func (a *cliApp) dayOrToday(date string) string {
	if date != "" {
		return date
	}
	return a.now().UTC().Format(models.DateLayout)
}
