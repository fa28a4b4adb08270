package migration

import (
	"github.com/smallbiznis/inkwell/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, log *zap.Logger) error {
		if err := Apply(conn); err != nil {
			return err
		}
		if err := seed.EnsureRoles(conn); err != nil {
			return err
		}
		log.Named("migrations").Info("schema ready", zap.String("dialect", conn.Dialector.Name()))
		return nil
	}),
)
