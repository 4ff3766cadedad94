package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/myway/panel-api/internal/config"
	"github.com/myway/panel-api/internal/repository/postgres"
	authService "github.com/myway/panel-api/internal/service/auth"
	"github.com/myway/panel-api/internal/service/backup"
	"github.com/myway/panel-api/internal/service/store"
	"github.com/myway/panel-api/pkg/auth"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/messaging"
	"github.com/myway/panel-api/pkg/messaging/memory"
	"github.com/myway/panel-api/pkg/messaging/redis"
	"github.com/myway/panel-api/pkg/metrics"
	"github.com/myway/panel-api/pkg/security"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mywayctl",
		Short:        "Operations tool for the MyWay panel",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(operatorCmd())
	rootCmd.AddCommand(allowlistCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type env struct {
	cfg *config.Config
	db  *sqlx.DB
	log *logger.Logger
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg: cfg,
		db:  db,
		log: logger.NewLogger(cfg.Log.ToLoggerConfig()),
	}, nil
}

// broker returns the Redis broker when one is reachable so running API
// instances refresh after an import. Otherwise changes stay local.
func (e *env) broker() messaging.Broker {
	if e.cfg.Redis.URL != "" {
		rb, err := redis.NewRedisBroker(e.cfg.Redis.ToBrokerConfig(), e.log.Zerolog())
		if err == nil {
			return rb
		}
		e.log.Warn("redis unavailable, live views will not refresh", "error", err.Error())
	}
	return memory.NewBroker()
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.db.Close()

			count, err := postgres.NewMigrator(e.db).Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.db.Close()

			statuses, err := postgres.NewMigrator(e.db).Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func newBackupService(e *env, broker messaging.Broker) *backup.Service {
	patients := postgres.NewPatientRepository(e.db)
	queue := postgres.NewQueueRepository(e.db)
	hub := store.NewHub(broker, patients, queue, e.log, metrics.New("mywayctl"))
	return backup.NewService(postgres.NewTransactor(e.db), patients, queue, hub, e.log)
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every patient and queue entry to a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			e, err := setup()
			if err != nil {
				return err
			}
			defer e.db.Close()

			svc := newBackupService(e, memory.NewBroker())
			b, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = svc.Filename()
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(b); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d patients and %d queue entries to %s\n", len(b.Patients), len(b.Queue), out)
			}
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output file, - for stdout (default: dated file name)")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a JSON backup, replacing records with the same id",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			b, err := backup.Decode(f)
			if err != nil {
				return err
			}

			e, err := setup()
			if err != nil {
				return err
			}
			defer e.db.Close()

			broker := e.broker()
			defer broker.Close()

			result, err := newBackupService(e, broker).Import(cmd.Context(), b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d patients and %d queue entries.\n", result.Patients, result.Queue)
			return nil
		},
	}
	cmd.Flags().String("file", "", "Backup file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAuthService(e *env) *authService.Service {
	return authService.NewService(
		postgres.NewOperatorRepository(e.db),
		security.NewBcryptHasher(e.cfg.Auth.BcryptCost),
		auth.NewJWTService(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTIssuer, e.cfg.Auth.TokenTTL),
		authService.NewAllowList(e.cfg.Auth.AllowedEmails),
		e.cfg.Auth.TokenTTL,
		e.log,
	)
}

func operatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage panel operator accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an operator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password := os.Getenv("MYWAY_OPERATOR_PASSWORD")
			if password == "" {
				return fmt.Errorf("set MYWAY_OPERATOR_PASSWORD to the new operator's password")
			}

			e, err := setup()
			if err != nil {
				return err
			}
			defer e.db.Close()

			op, err := newAuthService(e).CreateOperator(cmd.Context(), email, name, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created operator %s (%s)\n", op.Email, op.ID)
			return nil
		},
	}
	addCmd.Flags().String("email", "", "Operator e-mail address")
	addCmd.Flags().String("name", "", "Display name")
	_ = addCmd.MarkFlagRequired("email")
	cmd.AddCommand(addCmd)

	return cmd
}

func allowlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Inspect the operator allow-list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check EMAIL",
		Short: "Report whether an address may use the panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			allowed := authService.NewAllowList(cfg.Auth.AllowedEmails).Allowed(args[0])
			if !allowed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not allowed\n", args[0])
				return fmt.Errorf("%s is not on the allow-list", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: allowed\n", args[0])
			return nil
		},
	})

	return cmd
}
