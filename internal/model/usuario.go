package model

import "time"

// Roles accepted in Usuario.Rol and in JWT claims.
const (
	RolAdministrador = "administrador"
	RolProdutor      = "produtor"
	RolFornecedor    = "fornecedor"
)

// Usuario is a platform login. Producer and supplier memberships live in
// UsuarioProdutor / UsuarioFornecedor.
type Usuario struct {
	EntidadeBase
	Nome         string  `gorm:"type:varchar(200);not null"`
	Email        string  `gorm:"type:varchar(254);uniqueIndex;not null"`
	Celular      *string `gorm:"type:varchar(20)"`
	Cpf          *string `gorm:"type:varchar(11)"`
	SenhaHash    string  `gorm:"not null"`
	Rol          string  `gorm:"type:varchar(20);not null"`
	Ativo        bool    `gorm:"not null;default:true"`
	UltimoAcesso *time.Time
}

func (Usuario) TableName() string { return "usuarios" }

// RefreshToken is a persisted, rotating refresh credential.
type RefreshToken struct {
	EntidadeBase
	Token      string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	UsuarioID  int       `gorm:"not null;index"`
	ExpiraEm   time.Time `gorm:"not null"`
	RevogadoEm *time.Time
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Valido reports whether the token can still be exchanged.
func (t *RefreshToken) Valido(agora time.Time) bool {
	return t.RevogadoEm == nil && agora.Before(t.ExpiraEm)
}

func (t *RefreshToken) Revogar(agora time.Time) {
	if t.RevogadoEm == nil {
		t.RevogadoEm = &agora
	}
}
