package server

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/repository/file"
	"taskboard/internal/repository/memory"
	"taskboard/internal/service"
)

// Gateways is one storage backend seen through the service contracts.
type Gateways struct {
	Boards  service.BoardGateway
	Columns service.ColumnGateway
	Tasks   service.TaskGateway

	close func() error
}

func (g *Gateways) Close() error {
	if g.close == nil {
		return nil
	}
	return g.close()
}

// OpenGateways opens the backend named by cfg.StorageBackend.
func OpenGateways(cfg *config.Config, logger *log.Logger) (*Gateways, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		b, err := file.Open(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{
			"dir":       cfg.DataDir,
			"listeners": b.Boards.Cascade().Listeners(),
		}).Info("file storage opened")
		return &Gateways{Boards: b.Boards, Columns: b.Columns, Tasks: b.Tasks}, nil

	case config.BackendMemory:
		b := memory.New(logger)
		logger.Warn("memory storage selected, data is lost on exit")
		return &Gateways{Boards: b.Boards, Columns: b.Columns, Tasks: b.Tasks}, nil

	case config.BackendPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.New(logger, gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := repository.Migrate(db); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database handle: %w", err)
		}
		logger.WithField("host", cfg.DBHost).Info("connected to database")
		return &Gateways{
			Boards:  repository.NewBoardRepository(db),
			Columns: repository.NewColumnRepository(db),
			Tasks:   repository.NewTaskRepository(db),
			close:   sqlDB.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
