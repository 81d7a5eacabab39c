package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ismailukman/millionaire-live/internal/config"
	"github.com/ismailukman/millionaire-live/internal/infra/memory"
	pgstore "github.com/ismailukman/millionaire-live/internal/infra/postgres"
	"github.com/ismailukman/millionaire-live/internal/packcsv"
)

// NewLoadPackCmd imports a CSV question pack into Postgres.
func NewLoadPackCmd(configPath *string) *cobra.Command {
	var (
		file    string
		packID  string
		title   string
		ownerID string
	)
	cmd := &cobra.Command{
		Use:   "loadpack",
		Short: "Import a CSV question pack into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadPack(cmd.Context(), *configPath, file, packID, title, ownerID)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the CSV file (level,question,a,b,c,d,correct[,explanation])")
	cmd.Flags().StringVar(&packID, "id", "", "pack id")
	cmd.Flags().StringVar(&title, "title", "", "pack title")
	cmd.Flags().StringVar(&ownerID, "owner", "system", "owner uid")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func runLoadPack(ctx context.Context, configPath, file, packID, title, ownerID string) error {
	logger := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	questions, err := packcsv.ParseQuestions(f)
	if err != nil {
		return err
	}
	// Imported packs reuse the standard ladder and lifeline set.
	pack, err := packcsv.BuildPack(packID, ownerID, title, questions, memory.DefaultPack().Config)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pgstore.NewPackLoader(pool).SavePack(ctx, pack); err != nil {
		return err
	}
	logger.Info().Str("pack", packID).Int("questions", len(questions)).Msg("pack imported")
	return nil
}
