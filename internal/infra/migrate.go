package infra

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func novoMigrador(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return m, nil
}

// Migrar applies every pending up migration. A schema already at the latest
// version is not an error.
func Migrar(dsn string) error {
	m, err := novoMigrador(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	versao, dirty, _ := m.Version()
	log.Info().Uint("versao", versao).Bool("dirty", dirty).Msg("migrations: schema atualizado")
	return nil
}

// Reverter rolls back the given number of migrations.
func Reverter(dsn string, passos int) error {
	if passos <= 0 {
		return fmt.Errorf("passos deve ser positivo")
	}
	m, err := novoMigrador(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-passos); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	versao, dirty, _ := m.Version()
	log.Info().Uint("versao", versao).Bool("dirty", dirty).Int("passos", passos).Msg("migrations: revertido")
	return nil
}
