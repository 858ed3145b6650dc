package migration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/photoid-studio/internal"
)

// Migration is an ordered schema change. Version is a zero-padded
// sequence plus short name (e.g. "0001_initial_schema") so lexical order
// is total order. Up and Down run inside a transaction owned by the
// engine and must not commit themselves.
type Migration struct {
	Version string
	Name    string
	Up      func(tx *gorm.DB) error
	Down    func(tx *gorm.DB) error
}

// SchemaMigration tracks applied versions and is the sole source of truth
// for the schema state.
type SchemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// Status is the read-only answer to "where is the schema right now".
type Status struct {
	Applied []string
	Pending []string
}

// Engine applies registered migrations strictly in ascending version
// order, one transaction per migration.
type Engine struct {
	db         *gorm.DB
	logger     *slog.Logger
	migrations []Migration
}

func NewEngine(db *gorm.DB, logger *slog.Logger, migrations []Migration) (*Engine, error) {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	seen := make(map[string]bool, len(sorted))
	for _, m := range sorted {
		if m.Version == "" {
			return nil, fmt.Errorf("migration %q has empty version", m.Name)
		}
		if seen[m.Version] {
			return nil, fmt.Errorf("duplicate migration version %s", m.Version)
		}
		if m.Up == nil || m.Down == nil {
			return nil, fmt.Errorf("migration %s must define both up and down", m.Version)
		}
		seen[m.Version] = true
	}

	return &Engine{db: db, logger: logger, migrations: sorted}, nil
}

// ApplyAll applies every pending migration in ascending order. Each
// migration runs in its own transaction and its tracking row is written
// only after the forward operation succeeds, so a failure leaves the
// version unrecorded and halts the remaining sequence. Re-running after a
// partial failure is safe: applied versions are skipped.
func (e *Engine) ApplyAll(ctx context.Context) error {
	if err := e.ensureTable(ctx); err != nil {
		return err
	}

	applied, err := e.appliedVersions(ctx)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range e.migrations {
		if applied[m.Version] {
			continue
		}
		pending++

		e.logger.Info("applying migration", "version", m.Version)

		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			record := SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now(),
			}
			return tx.Create(&record).Error
		})
		if err != nil {
			e.logger.Error("migration failed, halting sequence", "version", m.Version, "error", err)
			// Deterministic for a given schema state, so it must not
			// carry the retryable storage code.
			return internal.NewMigrationError(
				fmt.Sprintf("apply migration %s failed", m.Version),
				internal.ErrCodeMigrationFailed,
			).WithCause(err)
		}
	}

	if pending == 0 {
		e.logger.Info("no pending migrations")
	} else {
		e.logger.Info("migrations applied", "count", pending)
	}
	return nil
}

// Rollback runs the backward operation of one migration and removes its
// tracking row. Backward operations must run in strict reverse order:
// rolling back anything but the latest applied version fails.
func (e *Engine) Rollback(ctx context.Context, version string) error {
	if err := e.ensureTable(ctx); err != nil {
		return err
	}

	applied, err := e.appliedList(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, v := range applied {
		if v == version {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("rollback %s: %w", version, internal.ErrMigrationNotApplied)
	}
	if latest := applied[len(applied)-1]; latest != version {
		return fmt.Errorf("rollback %s: %s is still applied: %w", version, latest, internal.ErrMigrationOutOfOrder)
	}

	var target *Migration
	for i := range e.migrations {
		if e.migrations[i].Version == version {
			target = &e.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("rollback %s: not registered: %w", version, internal.ErrMigrationNotApplied)
	}

	e.logger.Info("rolling back migration", "version", version)

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return tx.Where("version = ?", version).Delete(&SchemaMigration{}).Error
	})
	if err != nil {
		return internal.NewMigrationError(
			fmt.Sprintf("rollback migration %s failed", version),
			internal.ErrCodeMigrationFailed,
		).WithCause(err)
	}
	return nil
}

// Status reports applied and pending versions without side effects. On a
// virgin store it does not create the tracking table; everything is
// simply pending.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	status := Status{Applied: []string{}, Pending: []string{}}

	if !e.db.WithContext(ctx).Migrator().HasTable(&SchemaMigration{}) {
		for _, m := range e.migrations {
			status.Pending = append(status.Pending, m.Version)
		}
		return status, nil
	}

	applied, err := e.appliedVersions(ctx)
	if err != nil {
		return Status{}, err
	}

	for _, m := range e.migrations {
		if applied[m.Version] {
			status.Applied = append(status.Applied, m.Version)
		} else {
			status.Pending = append(status.Pending, m.Version)
		}
	}
	return status, nil
}

func (e *Engine) ensureTable(ctx context.Context) error {
	migrator := e.db.WithContext(ctx).Migrator()
	if migrator.HasTable(&SchemaMigration{}) {
		return nil
	}
	if err := migrator.CreateTable(&SchemaMigration{}); err != nil {
		return internal.NewStorageError("create schema_migrations table", err)
	}
	return nil
}

func (e *Engine) appliedVersions(ctx context.Context) (map[string]bool, error) {
	list, err := e.appliedList(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(list))
	for _, v := range list {
		applied[v] = true
	}
	return applied, nil
}

func (e *Engine) appliedList(ctx context.Context) ([]string, error) {
	var versions []string
	err := e.db.WithContext(ctx).
		Model(&SchemaMigration{}).
		Order("version ASC").
		Pluck("version", &versions).Error
	if err != nil {
		return nil, internal.NewStorageError("read schema_migrations", err)
	}
	return versions, nil
}
