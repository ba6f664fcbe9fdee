package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/pkg/config"
)

// Direction selects which way migrations run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate applies (or, with steps > 0 and Down, rolls back) schema migrations.
// steps <= 0 means all.
func Migrate(cfg *config.Config, direction Direction, steps int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	migrator, err := migrate.New(cfg.Migrations.Path, URL(cfg.Database))
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	switch {
	case direction == Up && steps > 0:
		err = migrator.Steps(steps)
	case direction == Up:
		err = migrator.Up()
	case direction == Down && steps > 0:
		err = migrator.Steps(-steps)
	case direction == Down:
		err = migrator.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, verr := migrator.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", verr)
	}
	logger.Info("migrations applied", zap.String("direction", string(direction)), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
