package model

import "github.com/shopspring/decimal"

// Roles a user may hold inside a supplier.
const (
	RoleFornecedorAdmin     = "Admin"
	RoleFornecedorComercial = "Comercial"
	RoleFornecedorTecnico   = "Tecnico"
)

// Fornecedor is an input supplier (seller).
type Fornecedor struct {
	EntidadeBase
	Nome              string          `gorm:"type:varchar(200);not null"`
	Cnpj              string          `gorm:"type:varchar(14);uniqueIndex;not null"`
	InscricaoEstadual *string         `gorm:"type:varchar(30)"`
	Endereco          *string         `gorm:"type:varchar(300)"`
	Municipio         *string         `gorm:"type:varchar(120)"`
	Uf                *string         `gorm:"type:char(2)"`
	Telefone          *string         `gorm:"type:varchar(20)"`
	Email             *string         `gorm:"type:varchar(254)"`
	MoedaPadrao       string          `gorm:"type:char(3);not null;default:'BRL'"`
	PedidoMinimo      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Ativo             bool            `gorm:"not null;default:true"`

	Usuarios []UsuarioFornecedor `gorm:"foreignKey:FornecedorID;constraint:OnDelete:CASCADE"`
}

func (Fornecedor) TableName() string { return "fornecedores" }

// UsuarioFornecedor links a login to the supplier it represents.
type UsuarioFornecedor struct {
	EntidadeBase
	UsuarioID    int    `gorm:"not null;uniqueIndex:ux_usuario_fornecedor"`
	FornecedorID int    `gorm:"not null;uniqueIndex:ux_usuario_fornecedor"`
	Role         string `gorm:"type:varchar(20);not null"`
	Ativo        bool   `gorm:"not null;default:true"`
}

func (UsuarioFornecedor) TableName() string { return "usuarios_fornecedores" }
