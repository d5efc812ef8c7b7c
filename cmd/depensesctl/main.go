// depensesctl is the command-line companion to the web app: record, list,
// balance, delete and reconcile entries against the configured backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"depenses/internal/backend"
	"depenses/internal/cli"
	"depenses/internal/core"
	"depenses/internal/services"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(&balanceCmd{}, "")
	commander.Register(&historyCmd{}, "")
	commander.Register(&addCmd{}, "")
	commander.Register(&deleteCmd{}, "")
	commander.Register(&reconcileCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openServices wires the configured backend into a ledger and recurrence
// service. The caller must invoke the returned cleanup.
func openServices() (*services.LedgerService, *services.RecurrenceService, string, func(), error) {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	pair, err := core.NewPair(cfg.ParticipantA, cfg.ParticipantB)
	if err != nil {
		return nil, nil, "", nil, fmt.Errorf("invalid participant configuration: %w", err)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, "", nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		return nil, nil, "", nil, fmt.Errorf("create backend: %w", err)
	}

	ledger := services.NewLedgerService(result.Ledger, pair, nil)
	recur := services.NewRecurrenceService(ledger, result.Ledger)
	cleanup := func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}
	return ledger, recur, cfg.Currency, cleanup, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
