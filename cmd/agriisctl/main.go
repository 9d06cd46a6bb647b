// Command agriisctl runs maintenance tasks against the Agriis database:
// schema migrations, bootstrap of the first administrator, password hashing
// and an on-demand deadline sweep.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "agriisctl",
	Short:         "Ferramentas de manutenção do Agriis",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedAdminCmd, hashPasswordCmd, expirarPedidosCmd)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("agriisctl")
		os.Exit(1)
	}
}
