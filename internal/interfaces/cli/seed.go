package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/database/seed"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// seedStore writes the sample data set into the configured database.
var seedStore = seedPostgres

func newSeedCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample clients and deadlines into an empty PostgreSQL store",
		Long: "seed connects to the database named in the server config (--config or\n" +
			"CONSULTTRACK_* environment), applies migrations and writes the sample\n" +
			"data set. A store that already has clients is left untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.LoadOrEnv(cc.ConfigPath)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != "postgres" {
				return errors.New(errors.ErrCodeInvalidConfig, "seed needs store.driver postgres; the memory store seeds itself at startup").
					WithDetail(cfg.Store.Driver)
			}

			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			wrote, err := seedStore(ctx, cfg, !skipMigrate, cc.Logger)
			if err != nil {
				return err
			}
			out := map[string]bool{"seeded": wrote}
			return render(cmd, cc, out, func(w io.Writer) {
				if wrote {
					PrintSuccess(w, "sample data loaded")
					return
				}
				fmt.Fprintln(w, "store already has clients; nothing written")
			})
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply migrations first")
	return cmd
}

func seedPostgres(ctx context.Context, cfg *config.Config, migrate bool, log logging.Logger) (bool, error) {
	if migrate {
		if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
			return false, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return false, err
	}
	defer pool.Close()

	store := repositories.NewStore(pool, log)
	return seed.Load(ctx, store.Clients, store.Deadlines, time.Now())
}

//Personal.AI order the ending
