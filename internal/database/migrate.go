package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"friendsapp/internal/middleware"
)

type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

//go:embed migrations/*/*.sql
var migrationFS embed.FS

// migrations holds the registered scripts per dialect name.
var migrations = map[string][]Migration{}

func init() {
	for _, dialect := range []string{DriverPostgres, DriverSQLite} {
		if err := RegisterMigrations(migrationFS, dialect); err != nil {
			fmt.Printf("failed to register %s migrations: %v\n", dialect, err)
		}
	}
}

// RegisterMigrations loads NNNNNN_name.{up,down}.sql pairs from migrations/<dialect>.
func RegisterMigrations(fsys fs.FS, dialect string) error {
	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	registered := make([]Migration, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			middleware.Logger.Warn("Skipping migration with invalid naming", slog.String("file", name))
			continue
		}

		var version int
		if _, err := fmt.Sscanf(parts[0], "%d", &version); err != nil {
			middleware.Logger.Warn("Skipping migration with invalid version", slog.String("file", name))
			continue
		}

		upBytes, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read up migration %s: %w", name, err)
		}

		downName := base + ".down.sql"
		downBytes, err := fs.ReadFile(fsys, path.Join(dir, downName))
		if err != nil {
			return fmt.Errorf("failed to read down migration %s: %w", downName, err)
		}

		registered = append(registered, Migration{
			Version:    version,
			Name:       parts[1],
			UpScript:   string(upBytes),
			DownScript: string(downBytes),
		})
	}

	sort.Slice(registered, func(i, j int) bool {
		return registered[i].Version < registered[j].Version
	})

	migrations[dialect] = registered
	return nil
}

// GetMigrations returns the ordered migrations for a dialect.
func GetMigrations(dialect string) []Migration {
	return migrations[dialect]
}

func GetMigrationByVersion(dialect string, version int) *Migration {
	for _, m := range migrations[dialect] {
		if m.Version == version {
			return &m
		}
	}
	return nil
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}
