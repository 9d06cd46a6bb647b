package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type StatusCombo string

const (
	StatusComboAtivo    StatusCombo = "Ativo"
	StatusComboInativo  StatusCombo = "Inativo"
	StatusComboExpirado StatusCombo = "Expirado"
	StatusComboSuspenso StatusCombo = "Suspenso"
)

type ModalidadePagamento string

const (
	ModalidadeNormal ModalidadePagamento = "Normal"
	ModalidadeBarter ModalidadePagamento = "Barter"
)

type TipoDesconto string

const (
	TipoDescontoPercentual      TipoDesconto = "Percentual"
	TipoDescontoValorPorHectare TipoDesconto = "ValorPorHectare"
)

// Combo is a supplier bundle offered to producers within a hectare range,
// a validity window and optionally a set of municipalities.
type Combo struct {
	EntidadeBase
	Nome                 string              `gorm:"type:varchar(200);not null"`
	Descricao            *string             `gorm:"type:varchar(1000)"`
	FornecedorID         int                 `gorm:"not null;index"`
	SafraID              int                 `gorm:"not null;index"`
	HectareMinimo        decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	HectareMaximo        decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	DataInicio           time.Time           `gorm:"not null"`
	DataFim              time.Time           `gorm:"not null"`
	ModalidadePagamento  ModalidadePagamento `gorm:"type:varchar(20);not null"`
	Status               StatusCombo         `gorm:"type:varchar(20);not null;index"`
	PermiteAlteracaoItem bool                `gorm:"not null;default:false"`
	PermiteExclusaoItem  bool                `gorm:"not null;default:false"`
	RestricoesMunicipios []string            `gorm:"type:jsonb;serializer:json"`

	Itens              []ComboItem              `gorm:"foreignKey:ComboID;constraint:OnDelete:CASCADE"`
	LocaisRecebimento  []ComboLocalRecebimento  `gorm:"foreignKey:ComboID;constraint:OnDelete:CASCADE"`
	CategoriasDesconto []ComboCategoriaDesconto `gorm:"foreignKey:ComboID;constraint:OnDelete:CASCADE"`
}

func (Combo) TableName() string { return "combos" }

type ComboItem struct {
	EntidadeBase
	ComboID            int             `gorm:"not null;index"`
	ProdutoID          int             `gorm:"not null;index"`
	Quantidade         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PrecoUnitario      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PercentualDesconto decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	ProdutoObrigatorio bool            `gorm:"not null;default:false"`
	Ordem              int             `gorm:"not null;default:0"`
}

func (ComboItem) TableName() string { return "combo_itens" }

type ComboLocalRecebimento struct {
	EntidadeBase
	ComboID            int             `gorm:"not null;index"`
	Nome               string          `gorm:"type:varchar(200);not null"`
	Municipio          string          `gorm:"type:varchar(120);not null"`
	Uf                 string          `gorm:"type:char(2);not null"`
	PrecoAdicional     decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	PercentualDesconto decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	LocalPadrao        bool            `gorm:"not null;default:false"`
}

func (ComboLocalRecebimento) TableName() string { return "combo_locais_recebimento" }

// ComboCategoriaDesconto is one discount tier selected by the producer's area.
type ComboCategoriaDesconto struct {
	EntidadeBase
	ComboID                 int             `gorm:"not null;index"`
	Nome                    string          `gorm:"type:varchar(120);not null"`
	TipoDesconto            TipoDesconto    `gorm:"type:varchar(20);not null"`
	PercentualDesconto      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	ValorDescontoPorHectare decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	HectareMinimo           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	HectareMaximo           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Ativo                   bool            `gorm:"not null;default:true"`
}

func (ComboCategoriaDesconto) TableName() string { return "combo_categorias_desconto" }

// ValidarIntervalos checks the hectare range and the date window.
func (c *Combo) ValidarIntervalos() error {
	if c.HectareMinimo.IsNegative() {
		return fmt.Errorf("%w: hectare mínimo não pode ser negativo", ErrArgumentoInvalido)
	}
	if !c.HectareMaximo.GreaterThan(c.HectareMinimo) {
		return fmt.Errorf("%w: hectare máximo deve ser maior que o mínimo", ErrArgumentoInvalido)
	}
	if !c.DataFim.After(c.DataInicio) {
		return fmt.Errorf("%w: data fim deve ser posterior à data início", ErrArgumentoInvalido)
	}
	for _, cat := range c.CategoriasDesconto {
		if cat.HectareMinimo.IsNegative() || cat.HectareMaximo.LessThan(cat.HectareMinimo) {
			return fmt.Errorf("%w: faixa de hectares inválida na categoria %q", ErrArgumentoInvalido, cat.Nome)
		}
	}
	return nil
}

func normalizarMunicipio(m string) string { return strings.ToLower(strings.TrimSpace(m)) }

// PossuiRestricaoMunicipio reports whether the combo is limited to specific municipalities.
func (c *Combo) PossuiRestricaoMunicipio() bool {
	for _, m := range c.RestricoesMunicipios {
		if normalizarMunicipio(m) != "" {
			return true
		}
	}
	return false
}

// MunicipioPermitido reports whether municipio may buy the combo.
func (c *Combo) MunicipioPermitido(municipio string) bool {
	if !c.PossuiRestricaoMunicipio() {
		return true
	}
	alvo := normalizarMunicipio(municipio)
	for _, m := range c.RestricoesMunicipios {
		if normalizarMunicipio(m) == alvo {
			return true
		}
	}
	return false
}

// Vigente reports whether agora falls inside [DataInicio, DataFim].
func (c *Combo) Vigente(agora time.Time) bool {
	return !agora.Before(c.DataInicio) && !agora.After(c.DataFim)
}

// AtendeHectare reports whether hectare falls inside [HectareMinimo, HectareMaximo].
func (c *Combo) AtendeHectare(hectare decimal.Decimal) bool {
	return hectare.GreaterThanOrEqual(c.HectareMinimo) && hectare.LessThanOrEqual(c.HectareMaximo)
}

// ValidoParaProdutor is the combo eligibility predicate.
func (c *Combo) ValidoParaProdutor(hectare decimal.Decimal, municipio string, agora time.Time) bool {
	return c.Status == StatusComboAtivo &&
		c.Vigente(agora) &&
		c.AtendeHectare(hectare) &&
		c.MunicipioPermitido(municipio)
}

// CategoriaParaHectare returns the best active tier containing hectare, or nil.
// Ties are broken by the larger discount on valorBase.
func (c *Combo) CategoriaParaHectare(hectare, valorBase decimal.Decimal) *ComboCategoriaDesconto {
	var melhor *ComboCategoriaDesconto
	melhorValor := decimal.Zero
	for i := range c.CategoriasDesconto {
		cat := &c.CategoriasDesconto[i]
		if !cat.Ativo || hectare.LessThan(cat.HectareMinimo) || hectare.GreaterThan(cat.HectareMaximo) {
			continue
		}
		v := cat.Desconto(hectare, valorBase)
		if melhor == nil || v.GreaterThan(melhorValor) {
			melhor, melhorValor = cat, v
		}
	}
	return melhor
}

// CalcularDesconto returns the discount granted on valorBase for a producer
// with the given area. The discount never exceeds valorBase.
func (c *Combo) CalcularDesconto(hectare, valorBase decimal.Decimal) decimal.Decimal {
	cat := c.CategoriaParaHectare(hectare, valorBase)
	if cat == nil {
		return decimal.Zero
	}
	return cat.Desconto(hectare, valorBase)
}

func (cat *ComboCategoriaDesconto) Desconto(hectare, valorBase decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch cat.TipoDesconto {
	case TipoDescontoPercentual:
		d = valorBase.Mul(cat.PercentualDesconto).Div(cem)
	case TipoDescontoValorPorHectare:
		d = cat.ValorDescontoPorHectare.Mul(hectare)
	}
	if d.GreaterThan(valorBase) {
		d = valorBase
	}
	return d.Round(2)
}

// AlterarStatus moves the combo through its lifecycle. Expirado is terminal.
func (c *Combo) AlterarStatus(novo StatusCombo, agora time.Time) error {
	if c.Status == StatusComboExpirado {
		return fmt.Errorf("%w: combo %d expirado", ErrTransicaoInvalida, c.ID)
	}
	switch novo {
	case StatusComboAtivo:
		if agora.After(c.DataFim) {
			return fmt.Errorf("%w: combo %d fora da vigência", ErrTransicaoInvalida, c.ID)
		}
	case StatusComboInativo, StatusComboSuspenso:
		if c.Status == novo {
			return fmt.Errorf("%w: combo %d já está %s", ErrTransicaoInvalida, c.ID, novo)
		}
	case StatusComboExpirado:
		if !agora.After(c.DataFim) {
			return fmt.Errorf("%w: combo %d ainda está vigente", ErrTransicaoInvalida, c.ID)
		}
	default:
		return fmt.Errorf("%w: status de combo %q desconhecido", ErrArgumentoInvalido, novo)
	}
	c.Status = novo
	c.TocarAtualizacao(agora)
	return nil
}
