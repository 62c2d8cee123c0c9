package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"stockroom"
	"stockroom/internal/config"
	"stockroom/internal/logger"
	"stockroom/metrics"
	stockrpc "stockroom/rpc"
	sqlitestore "stockroom/sqlite"
	"stockroom/xlsx"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const usage = `usage: stockroom <command> [flags]

commands:
  serve    answer request packets on stdin, responses on stdout
  report   print dashboard, production requirements and costing
  export   write an xlsx workbook (-o path)
  import   add ingredients from the Stock sheet of an xlsx workbook
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.IsProduction(), cfg.LogLevel)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "serve":
		err = serve(cfg, log)
	case "report":
		err = report(cfg, log, os.Stdout)
	case "export":
		err = export(cfg, log, args)
	case "import":
		err = importIngredients(cfg, log, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

func open(cfg *config.Config, log zerolog.Logger) (*stockroom.Stockroom, *sqlitestore.Store, error) {
	store, err := sqlitestore.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	stock, err := stockroom.Open(store, cfg.StateKey, stockroom.WithLogger(log))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	stock.AddHook(store.EventLog())
	return stock, store, nil
}

func serve(cfg *config.Config, log zerolog.Logger) error {
	stock, store, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	collector := metrics.NewCollector(cfg.MetricsPrefix)
	collector.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector.Observe(stock.Snapshot())
	stock.AddHook(collector.Hook())
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener stopped")
			}
		}()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
	}

	log.Info().Str("db", cfg.DBPath).Str("key", cfg.StateKey).Msg("serving on stdio")
	return stockrpc.NewServer(stock, log).Serve(os.Stdin, os.Stdout)
}

func report(cfg *config.Config, log zerolog.Logger, w io.Writer) error {
	stock, store, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	cf := stockroom.NewCurrencyFormatter(cfg.Currency)
	snap := stock.Snapshot()
	dash := stock.Dashboard()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Today\t%s\n", dash.Today)
	fmt.Fprintf(tw, "Orders due today\t%d\n", dash.TodayOrders)
	fmt.Fprintf(tw, "Pending orders\t%d\n", dash.Pending)
	fmt.Fprintf(tw, "Revenue\t%s (%d delivered)\n", cf.Format(dash.Financials.Revenue), dash.Financials.DeliveredCount)
	fmt.Fprintf(tw, "Loss\t%s (%d cancelled)\n", cf.Format(dash.Financials.Loss), dash.Financials.CancelledCount)
	fmt.Fprintf(tw, "Effectiveness\t%s%%\n", dash.Financials.EffectivenessRate.StringFixed(2))

	fmt.Fprintln(tw, "\nLOW STOCK\tSTOCK\tMIN")
	for _, ing := range dash.LowStock {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ing.Name, stockroom.FormatStock(ing.CurrentStock, ing.Unit), stockroom.FormatStock(ing.MinStock, ing.Unit))
	}

	reqs, err := snap.ProductionRequirements()
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "\nINGREDIENT\tNEEDED\tIN STOCK\tMISSING")
	for _, r := range reqs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.IngredientName,
			stockroom.FormatStock(r.TotalNeeded, r.Unit),
			stockroom.FormatStock(r.CurrentStock, r.Unit),
			stockroom.FormatStock(r.Missing, r.Unit))
	}

	costs, err := snap.ProductCosting()
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "\nPRODUCT\tPRICE\tVARIABLE COST\tMARGIN")
	for _, c := range costs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, cf.Format(c.Price), cf.Format(c.VariableCost), cf.Format(c.Margin))
	}
	return tw.Flush()
}

func export(cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	path := fs.String("o", cfg.ExportPath, "output xlsx path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stock, store, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Create(*path)
	if err != nil {
		return err
	}
	if err := xlsx.Export(f, stock.Snapshot(), stockroom.NewCurrencyFormatter(cfg.Currency)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", *path).Msg("workbook exported")
	return nil
}

func importIngredients(cfg *config.Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import needs exactly one workbook path")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	ingredients, err := xlsx.ReadIngredients(f)
	if err != nil {
		return err
	}

	stock, store, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	added := 0
	for _, ing := range ingredients {
		if _, err := stock.AddIngredient(ing); err != nil {
			if errors.Is(err, stockroom.ErrDuplicateID) {
				log.Warn().Str("id", ing.ID).Str("name", ing.Name).Msg("ingredient already on file, skipped")
				continue
			}
			return err
		}
		added++
	}
	log.Info().Int("added", added).Int("read", len(ingredients)).Msg("ingredients imported")
	return nil
}
