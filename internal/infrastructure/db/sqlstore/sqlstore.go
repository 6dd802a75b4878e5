// Package sqlstore implements the repositories on a relational database through gorm.
// SQLite is the default dialect; PostgreSQL is selected with the "postgres" driver.
package sqlstore

import (
	"context"
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	slowQueryThreshold = 200 * time.Millisecond
)

// Config captures the settings required to open the database.
type Config struct {
	Driver string
	DSN    string
}

// Open connects to the database and verifies connectivity.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(stdlog.New(log, "", 0), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	if cfg.Driver != DriverPostgres {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore ping: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&userModel{}, &memberModel{}, &taskModel{}, &activityModel{})
}

// Pinger adapts a gorm connection to readiness checks.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Name() string { return p.db.Dialector.Name() }

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ── Models ────────────────────────────────────────────────────────────────────

type userModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

type memberModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"uniqueIndex;not null;size:36"`
	IsManager bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (memberModel) TableName() string { return "members" }

type taskModel struct {
	ID          string                      `gorm:"primaryKey;size:36"`
	Title       string                      `gorm:"not null"`
	Description string                      `gorm:"type:text;not null"`
	Hours       float64                     `gorm:"not null"`
	TaskDate    time.Time                   `gorm:"not null;index:idx_tasks_assignee_date,priority:2"`
	Tags        datatypes.JSONSlice[string] `gorm:"not null"`
	AssigneeID  string                      `gorm:"not null;size:36;index:idx_tasks_assignee_date,priority:1"`
	Status      string                      `gorm:"not null;size:16;index"`
	Feedback    *string                     `gorm:"type:text"`
	Completed   bool                        `gorm:"not null"`
	Version     int                         `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskModel) TableName() string { return "tasks" }

type activityModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	TaskID     string    `gorm:"not null;size:36;index"`
	ActorID    string    `gorm:"not null;size:36"`
	Action     string    `gorm:"not null;size:32"`
	FromStatus string    `gorm:"size:16"`
	ToStatus   string    `gorm:"size:16"`
	Feedback   string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"not null;index"`
}

func (activityModel) TableName() string { return "task_activity" }
