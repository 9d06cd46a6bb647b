package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CriarUsuarioRequest struct {
	Nome    string  `json:"nome"    validate:"required,min=2,max=200"`
	Email   string  `json:"email"   validate:"required,email,max=254"`
	Celular *string `json:"celular" validate:"omitempty,max=20"`
	Cpf     *string `json:"cpf"     validate:"omitempty,min=11,max=14"`
	Senha   string  `json:"senha"   validate:"required,min=8"`
	Rol     string  `json:"rol"     validate:"required,oneof=administrador produtor fornecedor"`
}

type AtualizarUsuarioRequest struct {
	Nome    string  `json:"nome"    validate:"omitempty,min=2,max=200"`
	Celular *string `json:"celular" validate:"omitempty,max=20"`
	Rol     string  `json:"rol"     validate:"omitempty,oneof=administrador produtor fornecedor"`
}

type AlterarSenhaRequest struct {
	SenhaAtual string `json:"senha_atual"`
	NovaSenha  string `json:"nova_senha"  validate:"required,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID           int        `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	Celular      *string    `json:"celular"`
	Rol          string     `json:"rol"`
	Ativo        bool       `json:"ativo"`
	UltimoAcesso *time.Time `json:"ultimo_acesso"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	Usuario      UsuarioResponse `json:"usuario"`
}
