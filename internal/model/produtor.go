package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type StatusProdutor string

const (
	StatusProdutorPendenteValidacaoAutomatica StatusProdutor = "PendenteValidacaoAutomatica"
	StatusProdutorPendenteValidacaoManual     StatusProdutor = "PendenteValidacaoManual"
	StatusProdutorAutorizadoAutomaticamente   StatusProdutor = "AutorizadoAutomaticamente"
	StatusProdutorAutorizadoManualmente       StatusProdutor = "AutorizadoManualmente"
	StatusProdutorNegado                      StatusProdutor = "Negado"
)

func (s StatusProdutor) Autorizado() bool {
	return s == StatusProdutorAutorizadoAutomaticamente || s == StatusProdutorAutorizadoManualmente
}

// Produtor is a rural producer (buyer), identified by CPF or CNPJ.
type Produtor struct {
	EntidadeBase
	Nome              string          `gorm:"type:varchar(200);not null"`
	Cpf               *string         `gorm:"type:varchar(11);uniqueIndex"`
	Cnpj              *string         `gorm:"type:varchar(14);uniqueIndex"`
	InscricaoEstadual *string         `gorm:"type:varchar(30)"`
	TipoAtividade     *string         `gorm:"type:varchar(100)"`
	AreaPlantio       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status            StatusProdutor  `gorm:"type:varchar(40);not null;index"`

	Culturas []Cultura        `gorm:"many2many:produtor_culturas;"`
	Usuarios []UsuarioProdutor `gorm:"foreignKey:ProdutorID;constraint:OnDelete:CASCADE"`
}

func (Produtor) TableName() string { return "produtores" }

// UsuarioProdutor links a login to a producer it may act for.
type UsuarioProdutor struct {
	EntidadeBase
	UsuarioID      int  `gorm:"not null;uniqueIndex:ux_usuario_produtor"`
	ProdutorID     int  `gorm:"not null;uniqueIndex:ux_usuario_produtor"`
	EhProprietario bool `gorm:"not null;default:false"`
	Ativo          bool `gorm:"not null;default:true"`
}

func (UsuarioProdutor) TableName() string { return "usuarios_produtores" }

// DefinirDocumento normalizes and validates the producer's CPF or CNPJ.
// Exactly one must be provided.
func (p *Produtor) DefinirDocumento(cpf, cnpj string) error {
	cpf, cnpj = SomenteDigitos(cpf), SomenteDigitos(cnpj)
	switch {
	case cpf == "" && cnpj == "":
		return fmt.Errorf("%w: informe CPF ou CNPJ", ErrArgumentoInvalido)
	case cpf != "" && cnpj != "":
		return fmt.Errorf("%w: informe apenas CPF ou CNPJ", ErrArgumentoInvalido)
	case cpf != "":
		if !CpfValido(cpf) {
			return fmt.Errorf("%w: CPF inválido", ErrArgumentoInvalido)
		}
		p.Cpf, p.Cnpj = &cpf, nil
	default:
		if !CnpjValido(cnpj) {
			return fmt.Errorf("%w: CNPJ inválido", ErrArgumentoInvalido)
		}
		p.Cpf, p.Cnpj = nil, &cnpj
	}
	return nil
}

// Documento returns whichever of CPF/CNPJ is set.
func (p *Produtor) Documento() string {
	if p.Cpf != nil {
		return *p.Cpf
	}
	if p.Cnpj != nil {
		return *p.Cnpj
	}
	return ""
}

// Validar applies a manual review decision.
func (p *Produtor) Validar(autorizado bool) error {
	if autorizado && p.Status.Autorizado() {
		return fmt.Errorf("%w: produtor %d já autorizado", ErrTransicaoInvalida, p.ID)
	}
	if !autorizado && p.Status == StatusProdutorNegado {
		return fmt.Errorf("%w: produtor %d já negado", ErrTransicaoInvalida, p.ID)
	}
	if autorizado {
		p.Status = StatusProdutorAutorizadoManualmente
	} else {
		p.Status = StatusProdutorNegado
	}
	return nil
}
