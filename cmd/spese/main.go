package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"spesedesk/internal/backend"
	"spesedesk/internal/cli"
	"spesedesk/internal/config"
	"spesedesk/internal/ledger"
	"spesedesk/internal/log"
	"spesedesk/internal/tui"
)

const usage = `usage: spese [command]

commands:
  (none)    open the interactive expense form
  list      print all expenses
  summary   print monthly totals
`

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(os.Stderr)

	logger, closeLog, err := cli.SetupLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = run(ctx, cfg, logger, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		logger.Error("Exiting with error", log.FieldError, err)
		fmt.Fprintln(os.Stderr, err)
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string, stdout io.Writer) error {
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "", "list", "summary":
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Failed to close backend", log.FieldError, err)
		}
	}()

	logger.Info("Starting spese", log.FieldOperation, log.OpStartup,
		log.FieldBackend, res.Type.String(), log.FieldPath, res.Store.Path())

	l, loadErr := ledger.New(ctx, res.Store,
		ledger.WithLogger(logger),
		ledger.WithCurrencySymbol(cfg.CurrencySymbol))
	if l == nil {
		return loadErr
	}

	switch command {
	case "list":
		if loadErr != nil {
			return loadErr
		}
		fmt.Fprintln(stdout, tui.RenderRecords(l.Records(), "", cfg.CurrencySymbol))
		return nil
	case "summary":
		if loadErr != nil {
			return loadErr
		}
		fmt.Fprintln(stdout, l.Summary())
		return nil
	}

	app := tui.New(l, stdout, cfg.CurrencySymbol, logger)
	if loadErr != nil {
		// Keep going with an empty ledger so the form stays usable.
		app.Report(loadErr, "")
	} else {
		app.Report(nil, fmt.Sprintf("loaded %d expenses from %s", l.Len(), res.Store.Path()))
	}
	err = app.Run(ctx)
	logger.Info("Stopping spese", log.FieldOperation, log.OpShutdown, log.FieldCount, l.Len())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
