package command

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Alp4ka/moderator"
)

// app holds what every subcommand needs: configuration, logger and database.
type app struct {
	cfg *moderator.Config
	log *zap.Logger
	db  *gorm.DB
}

func newApp(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg, err := moderator.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	log, err := moderator.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	db, err := moderator.OpenDB(cfg.Database, debug)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

// withTimeout bounds one user action by the configured store timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Store.Timeout)
}

func (a *app) close() {
	_ = a.log.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *app) store() *moderator.GORMStore {
	return moderator.NewGORMStore(a.db).WithLogger(a.log.Named("store"))
}

func (a *app) identity() *moderator.GORMIdentity {
	return moderator.NewGORMIdentity(a.db, a.cfg.Identity.UID).WithLogger(a.log.Named("identity"))
}

func (a *app) console(notifier moderator.Notifier) *moderator.Console {
	store := a.store()
	audit := moderator.NewGORMAuditSink(a.db).WithLogger(a.log.Named("audit"))

	pager := moderator.NewPager(store).
		WithPageSize(a.cfg.Store.PageSize).
		WithLogger(a.log.Named("pager"))

	mod := moderator.NewModerator(store, audit).WithLogger(a.log.Named("moderator"))

	return moderator.NewConsole(a.identity(), pager, mod).
		WithNotifier(notifier).
		WithContactTemplate(a.cfg.Contact).
		WithLogger(a.log.Named("console"))
}

var nowUTC = func() time.Time { return time.Now().UTC() }
