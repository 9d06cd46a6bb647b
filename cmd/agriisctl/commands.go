package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"agriis/internal/config"
	"agriis/internal/infra"
	"agriis/internal/model"
	"agriis/internal/repository"
	"agriis/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// =============================================================================
// MIGRATE
// =============================================================================

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica ou reverte as migrations do banco",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas as migrations pendentes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return infra.Migrar(cfg.DatabaseURL)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [passos]",
	Short: "Reverte as últimas N migrations (padrão 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passos := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("passos inválido: %q", args[0])
			}
			passos = n
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return infra.Reverter(cfg.DatabaseURL, passos)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

// =============================================================================
// SEED-ADMIN
// =============================================================================

var (
	seedNome  string
	seedEmail string
	seedSenha string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Cria ou redefine o usuário administrador",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(seedSenha) < 8 {
			return fmt.Errorf("--senha deve ter ao menos 8 caracteres")
		}
		db, err := abrirBanco()
		if err != nil {
			return err
		}
		return seedAdmin(cmd, repository.NewUsuarioRepository(db))
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedNome, "nome", "Administrador", "nome exibido")
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "admin@agriis.com.br", "e-mail de login")
	seedAdminCmd.Flags().StringVar(&seedSenha, "senha", "", "senha inicial (mínimo 8 caracteres)")
	_ = seedAdminCmd.MarkFlagRequired("senha")
}

func seedAdmin(cmd *cobra.Command, usuarios repository.UsuarioRepository) error {
	ctx := cmd.Context()
	email := strings.ToLower(strings.TrimSpace(seedEmail))
	hash, err := bcrypt.GenerateFromPassword([]byte(seedSenha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	existente, err := usuarios.ObterPorEmail(ctx, email)
	switch {
	case err == nil:
		existente.SenhaHash = string(hash)
		existente.Rol = model.RolAdministrador
		existente.Ativo = true
		if err := usuarios.Atualizar(ctx, existente); err != nil {
			return err
		}
		log.Info().Int("id", existente.ID).Str("email", email).Msg("administrador redefinido")
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		u := &model.Usuario{Nome: seedNome, Email: email, SenhaHash: string(hash), Rol: model.RolAdministrador, Ativo: true}
		if err := usuarios.Criar(ctx, u); err != nil {
			return err
		}
		log.Info().Int("id", u.ID).Str("email", email).Msg("administrador criado")
		return nil
	default:
		return err
	}
}

// =============================================================================
// HASH-PASSWORD
// =============================================================================

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <senha>",
	Short: "Imprime o hash bcrypt de uma senha",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return nil
	},
}

// =============================================================================
// EXPIRAR-PEDIDOS
// =============================================================================

var expirarPedidosCmd = &cobra.Command{
	Use:   "expirar-pedidos",
	Short: "Cancela agora os pedidos em negociação com prazo vencido",
	Long: `Executa uma varredura imediata de prazos, a mesma feita periodicamente pelo servidor.
Nenhuma notificação por e-mail é enfileirada.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := infra.NewDatabase(cfg.DatabaseURL, false)
		if err != nil {
			return err
		}
		pedidos := service.NewPedidoService(
			repository.NewPedidoRepository(db),
			repository.NewProdutorRepository(db),
			repository.NewFornecedorRepository(db),
			repository.NewCatalogoRepository(db),
			nil,
			cfg.PrazoLimitePedido(),
		)
		n, err := pedidos.ExpirarVencidos(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "%d pedido(s) cancelado(s) por tempo limite\n", n)
		return err
	},
}

func abrirBanco() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return infra.NewDatabase(cfg.DatabaseURL, false)
}
