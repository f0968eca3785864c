package main

import (
	"context"
	"fmt"
	"time"

	"campus-marketplace/internal/adapters/auth"
	"campus-marketplace/internal/adapters/db"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var seedTokenTTL time.Duration

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo items and pickup points",
	Long: `Loads the demo catalog and pickup points, then prints an access token
for the demo seller so the API can be exercised without an identity provider.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().DurationVar(&seedTokenTTL, "token-ttl", 24*time.Hour, "lifetime of the printed demo token")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	dbConn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn); err != nil {
		return err
	}

	seeded, err := db.SeedDemoData(ctx, dbConn, time.Now().UTC())
	if err != nil {
		return err
	}
	log.Info().Int("items", seeded).Msg("Demo data loaded")

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.AdminEmails)
	token, err := verifier.Sign(db.SeedSellerID, "demo.seller@campus.edu", seedTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to sign demo token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "demo seller token (valid %s):\n%s\n", seedTokenTTL, token)
	return nil
}
