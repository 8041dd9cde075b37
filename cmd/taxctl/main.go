// taxctl is the operator CLI for the Civitas portal: it seeds a fresh
// document, runs the yearly batch assessment, and prints the ledger summary
// against the same store the server uses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/civitas/api/internal/config"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
	"github.com/stwalsh4118/civitas/api/internal/services"
	"github.com/stwalsh4118/civitas/api/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:          "taxctl",
		Short:        "Operator tooling for the Civitas municipal tax portal",
		SilenceUsage: true,
	}

	root.AddCommand(seedCmd(), assessCmd(), summaryCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRepo loads configuration and opens the configured store. The caller
// must Close the returned store.
func openRepo(ctx context.Context) (*repository.Repository, store.DocumentStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	var s store.DocumentStore
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		s, err = store.NewPostgresStore(ctx, cfg.Database)
	default:
		s, err = store.NewFileStore(cfg.Store.DataPath)
	}
	if err != nil {
		return nil, nil, err
	}

	repo, err := repository.New(ctx, s)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return repo, s, nil
}

func seedCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Initialize the portal document (seeds demo accounts on first run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, s, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if force {
				doc, err := models.Seed()
				if err != nil {
					return fmt.Errorf("failed to build seed document: %w", err)
				}
				if err := s.Save(ctx, doc); err != nil {
					return fmt.Errorf("failed to persist seed document: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "document re-seeded")
				return nil
			}

			// repository.New already seeded if the document was missing
			var users int
			repo.View(func(doc *models.Document) { users = len(doc.Users) })
			fmt.Fprintf(cmd.OutOrStdout(), "document ready (%d users)\n", users)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard the existing document and re-seed")
	return cmd
}

func assessCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the batch tax assessment for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, s, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			svc := services.NewTaxService(repo, logger.New("cli"))
			created, err := svc.AssessYear(ctx, year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "year %d: %d new assessments\n", year, created)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "assessment year")
	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the ledger summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, s, err := openRepo(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			svc := services.NewFinanceService(repo, logger.New("cli"))
			sum := svc.Summary()
			fmt.Fprintf(cmd.OutOrStdout(), "revenue:  %d\nexpenses: %d\nbalance:  %d\n",
				sum.Revenue, sum.Expenses, sum.Balance)
			return nil
		},
	}
}
