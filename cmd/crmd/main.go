// Command crmd serves the client CRM API over HTTP and runs reports
// against its database.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hcviolins/crm/api"
	"github.com/hcviolins/crm/config"
	"github.com/hcviolins/crm/gormcrm"
	"github.com/hcviolins/crm/report"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).
		With().Timestamp().Logger()

	var envFile string

	root := &cobra.Command{
		Use:           "crmd",
		Short:         "Client CRM for the instrument shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env when present)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), log, cfg)
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print tag counts and due reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), log, cfg)
		},
	}

	root.AddCommand(serve, reportCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("crmd failed")
	}
}

func runServe(ctx context.Context, log zerolog.Logger, cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return err
	}

	store := gormcrm.New(db, log)
	if err := store.AutoMigrate(); err != nil {
		return err
	}

	server := api.NewServer(store, log, api.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: server.Routes()}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runReport(ctx context.Context, log zerolog.Logger, cfg *config.Config) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	r := report.New(db, log)

	tags, err := r.TagCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Println("clients per tag:")
	for _, t := range tags {
		fmt.Printf("  %-12s %d\n", t.Tag, t.Count)
	}

	interests, err := r.InterestBreakdown(ctx)
	if err != nil {
		return err
	}
	fmt.Println("clients per interest level:")
	for _, i := range interests {
		label := i.Interest
		if label == "" {
			label = "(unset)"
		}
		fmt.Printf("  %-12s %d\n", label, i.Count)
	}

	due, err := r.RemindersDue(ctx, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("overdue reminders: %d\n", len(due))
	for _, d := range due {
		name := ""
		if d.FirstName != nil {
			name = *d.FirstName
		}
		if d.LastName != nil {
			name += " " + *d.LastName
		}
		fmt.Printf("  %s  %s (%s)\n", d.DueAt.Format("2006-01-02"), d.Message, name)
	}

	without, err := r.ClientsWithoutInstruments(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("clients without instruments: %d\n", without)
	return nil
}
