package main

import (
	"context"
	"errors"
	"os"

	"hospital-appointment/cmd/bootstrap"
	"hospital-appointment/config"
	"hospital-appointment/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hospital-appointment",
		Short:         "Hospital appointment booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newCreateAdminCommand())
	return root
}

// loadConfig reads configuration and builds the logger every command shares.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Errorf("Failed to load config: %v", err)
		return nil, nil, err
	}
	return cfg, bootstrap.NewLogger(cfg.Log.Level), nil
}

func newServeCommand() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			if migrateFirst {
				if err := database.MigrateUp(cfg.DB.URL(), log); err != nil {
					log.Errorf("Failed to migrate database: %v", err)
					return err
				}
			}

			app, err := bootstrap.New(cmd.Context(), cfg, log)
			if err != nil {
				log.Errorf("Failed to initialize application: %v", err)
				return err
			}

			if err := app.Run(cmd.Context()); err != nil {
				log.Errorf("Server stopped with error: %v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.MigrateUp(cfg.DB.URL(), log); err != nil {
				log.Errorf("Failed to migrate database: %v", err)
				return err
			}
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the given number of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cfg.DB.URL(), steps, log); err != nil {
				log.Errorf("Failed to roll back database: %v", err)
				return err
			}
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func newCreateAdminCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			admins, closeDB, err := bootstrap.NewAdminUsecase(cfg, log)
			if err != nil {
				log.Errorf("Failed to connect to database: %v", err)
				return err
			}
			defer closeDB()

			admin, err := admins.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				log.Errorf("Failed to create administrator: %v", err)
				return err
			}

			log.WithField("user_id", admin.ID).Info("Administrator created")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
