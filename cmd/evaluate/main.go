// Command evaluate runs the rule catalog once against a payload file and
// prints the report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/okian/gwbadge/internal/adapters/repository"
	service "github.com/okian/gwbadge/internal/app"
	"github.com/okian/gwbadge/internal/domain/types"
	"github.com/okian/gwbadge/pkg/logger"
)

func main() {
	var (
		input  = flag.String("in", "-", "Payload file, or - for stdin")
		squad  = flag.String("squad", "local", "Squad id the unlock set is kept under")
		view   = flag.String("view", string(types.ViewAll), "Report view: all or earned")
		dbPath = flag.String("db", "", "SQLite file keeping unlock sets between runs (in-memory when empty)")
	)
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(os.Getenv("GWBADGE_LOG_LEVEL"))

	if err := run(context.Background(), *input, *squad, types.ParseView(*view), *dbPath, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString("evaluate: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, input, squad string, view types.View, dbPath string, stdin io.Reader, stdout io.Writer) error {
	body, err := readInput(input, stdin)
	if err != nil {
		return err
	}

	opts := []service.Option{service.WithHistoryWorkers(1)}
	if dbPath != "" {
		db, err := repository.OpenSQLite(ctx, dbPath)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithStore("sqlite", db))
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	report, err := svc.Evaluate(ctx, squad, body, view)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readInput(input string, stdin io.Reader) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(stdin)
	}
	body, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return body, nil
}
