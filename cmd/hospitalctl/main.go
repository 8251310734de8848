package main

import (
	"context"
	"fmt"
	"os"

	"hospital-locator/internal/config"
	"hospital-locator/internal/database"
	"hospital-locator/internal/logger"
	"hospital-locator/internal/repository"
	"hospital-locator/internal/seed"
	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospitalctl",
		Short: "Operator tooling for the hospital locator",
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(accountCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles what every subcommand needs from the running configuration
type env struct {
	cfg          *config.Config
	logger       *zap.Logger
	store        *database.Store
	hospitalRepo *repository.HospitalRepository
	auditRepo    *repository.AuditRepository
}

func connect(ctx context.Context) (*env, error) {
	cfg := config.LoadConfig()
	zapLogger, err := logger.NewLogger(cfg.Log.Level, "console", "hospitalctl")
	if err != nil {
		return nil, err
	}

	store, err := database.Connect(ctx, cfg, zapLogger)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:          cfg,
		logger:       zapLogger,
		store:        store,
		hospitalRepo: repository.NewHospitalRepo(store.Database(), cfg.Mongo.Collection, cfg.Mongo.QueryTimeout),
		auditRepo:    repository.NewAuditRepo(store.Database(), cfg.Mongo.QueryTimeout),
	}, nil
}

func (e *env) close(ctx context.Context) {
	_ = e.store.Close(ctx)
	_ = e.logger.Sync()
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert curated hospitals from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")

			hospitals, err := seed.LoadFile(path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			if err := e.hospitalRepo.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("failed to ensure indexes: %w", err)
			}

			inserted, updated := 0, 0
			for _, h := range hospitals {
				created, err := e.hospitalRepo.UpsertHospital(ctx, h)
				if err != nil {
					return fmt.Errorf("failed to upsert hospital %d: %w", *h.HospitalID, err)
				}
				if created {
					inserted++
				} else {
					updated++
				}
			}

			fmt.Printf("Seeded %d hospital(s): %d inserted, %d updated.\n", len(hospitals), inserted, updated)
			return nil
		},
	}
	cmd.Flags().String("file", "data/hospitals.yaml", "Path to the hospitals seed file")
	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage hospital accounts",
	}
	cmd.AddCommand(activationCmd("activate", "Allow a hospital account to log in again", true))
	cmd.AddCommand(activationCmd("deactivate", "Block a hospital account and revoke its tokens", false))
	return cmd
}

func activationCmd(use, short string, active bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			tokens := utils.NewTokenIssuer(e.cfg.JWT.Secret, e.cfg.JWT.AccessTokenExpiry)
			accounts := service.NewAccountService(e.hospitalRepo, e.auditRepo, tokens, nil, e.logger, e.cfg.Security.BcryptCost)

			view, err := accounts.SetActiveByEmail(ctx, email, active)
			if err != nil {
				return err
			}

			fmt.Printf("Hospital %s (%s) is_active=%t\n", view.HospitalName, view.Email, view.IsActive)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Email of the hospital account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
