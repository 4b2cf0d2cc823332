// Command ratesctl reads, writes and watches the upstream rates document
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/domain/repository"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/config"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/db"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/fatih/color"
)

const usage = `Usage: ratesctl <command> [flags]

Commands:
  get                          print the current rates document
  publish -buy <n> -sell <n>   replace the rates document
  watch                        print every change until interrupted
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	// Driver logs go to stderr so stdout stays readable
	log := logger.NewJSONLogger(os.Stderr, logger.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.OpenRatesDocumentStore(ctx, cfg, log)
	if err != nil {
		fail(err)
	}

	err = run(ctx, store, os.Args[1], os.Args[2:], os.Stdout)
	if closeErr := store.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fail(err)
	}
}

func run(ctx context.Context, store repository.RatesDocumentStore, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "get":
		doc, err := store.Fetch(ctx)
		if err != nil {
			return err
		}
		printDoc(out, "current", *doc)
		return nil

	case "publish":
		fs := flag.NewFlagSet("publish", flag.ContinueOnError)
		fs.SetOutput(out)
		buy := fs.Float64("buy", 0, "purchase price, PEN per USD")
		sell := fs.Float64("sell", 0, "sale price, PEN per USD")
		if err := fs.Parse(args); err != nil {
			return err
		}

		doc := entity.RatesDocument{PurchasePrice: *buy, SalePrice: *sell}
		if err := store.Publish(ctx, doc); err != nil {
			return err
		}
		printDoc(out, "published", doc)
		if *buy <= 0 || *sell <= 0 {
			color.New(color.FgYellow).Fprintln(out, "warning: quotes stay at 0 until both prices are positive")
		}
		return nil

	case "watch":
		color.New(color.Faint).Fprintln(out, "watching rates document, Ctrl+C to stop")
		err := store.Watch(ctx, func(doc entity.RatesDocument) {
			printDoc(out, "update", doc)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err

	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func printDoc(out io.Writer, label string, doc entity.RatesDocument) {
	color.New(color.FgCyan, color.Bold).Fprintf(out, "%-9s ", label)
	fmt.Fprintf(out, "buy %s  sell %s\n",
		color.GreenString("%s", doc.Buy().StringFixed(3)),
		color.RedString("%s", doc.Sell().StringFixed(3)))
}

func fail(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
