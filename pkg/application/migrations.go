package application

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationDir is the directory every module keeps its goose files in.
const MigrationDir = "migrations"

var ErrNoDatabase = errors.New("database is disabled")

type MigrationManager interface {
	RegisterSchema(fs ...*embed.FS)
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
	Status(ctx context.Context) error
	Files() ([]string, error)
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []fs.FS
}

func (m *migrationManager) RegisterSchema(schemas ...*embed.FS) {
	for _, s := range schemas {
		m.schemas = append(m.schemas, s)
	}
}

// Files lists the merged migration files in version order.
func (m *migrationManager) Files() ([]string, error) {
	entries, err := fs.ReadDir(mergedFS(m.schemas), MigrationDir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}

func (m *migrationManager) prepare() (func() error, func(context.Context, string) error, error) {
	if m.pool == nil {
		return nil, nil, ErrNoDatabase
	}
	goose.SetBaseFS(mergedFS(m.schemas))
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, nil, errors.Wrap(err, "set goose dialect")
	}
	db := stdlib.OpenDBFromPool(m.pool)
	return db.Close, func(ctx context.Context, op string) error {
		switch op {
		case "up":
			return goose.UpContext(ctx, db, MigrationDir, goose.WithAllowMissing())
		case "down":
			return goose.DownContext(ctx, db, MigrationDir)
		default:
			return goose.StatusContext(ctx, db, MigrationDir)
		}
	}, nil
}

func (m *migrationManager) exec(ctx context.Context, op string) error {
	closeDB, run, err := m.prepare()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()
	if err := run(ctx, op); err != nil {
		return errors.Wrapf(err, "migrate %s", op)
	}
	return nil
}

func (m *migrationManager) Run(ctx context.Context) error {
	return m.exec(ctx, "up")
}

func (m *migrationManager) Rollback(ctx context.Context) error {
	return m.exec(ctx, "down")
}

func (m *migrationManager) Status(ctx context.Context) error {
	return m.exec(ctx, "status")
}

// mergedFS overlays module schemas so goose sees a single directory.
type mergedFS []fs.FS

func (m mergedFS) Open(name string) (fs.File, error) {
	for _, fsys := range m {
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (m mergedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	var (
		out   []fs.DirEntry
		found bool
	)
	for _, fsys := range m {
		entries, err := fs.ReadDir(fsys, name)
		if err != nil {
			continue
		}
		found = true
		out = append(out, entries...)
	}
	if !found {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}
