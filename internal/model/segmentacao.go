package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Segmentacao groups producers by planted area so a supplier can grant
// per-category discounts.
type Segmentacao struct {
	EntidadeBase
	FornecedorID int     `gorm:"not null;index"`
	Nome         string  `gorm:"type:varchar(200);not null"`
	Descricao    *string `gorm:"type:varchar(500)"`
	EhPadrao     bool    `gorm:"not null;default:false"`
	Ativo        bool    `gorm:"not null;default:true"`

	Grupos []GrupoSegmentacao `gorm:"foreignKey:SegmentacaoID;constraint:OnDelete:CASCADE"`
}

func (Segmentacao) TableName() string { return "segmentacoes" }

type GrupoSegmentacao struct {
	EntidadeBase
	SegmentacaoID int              `gorm:"not null;index"`
	Nome          string           `gorm:"type:varchar(200);not null"`
	AreaMinima    decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	AreaMaxima    *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Ativo         bool             `gorm:"not null;default:true"`

	Regras []RegraDescontoSegmentacao `gorm:"foreignKey:GrupoSegmentacaoID;constraint:OnDelete:CASCADE"`
}

func (GrupoSegmentacao) TableName() string { return "grupos_segmentacao" }

type RegraDescontoSegmentacao struct {
	EntidadeBase
	GrupoSegmentacaoID int             `gorm:"not null;index"`
	Categoria          string          `gorm:"type:varchar(100);not null"`
	PercentualDesconto decimal.Decimal `gorm:"type:numeric(5,2);not null"`
}

func (RegraDescontoSegmentacao) TableName() string { return "regras_desconto_segmentacao" }

// ContemArea reports whether area falls in the group's range; a nil
// AreaMaxima means open-ended.
func (g *GrupoSegmentacao) ContemArea(area decimal.Decimal) bool {
	if area.LessThan(g.AreaMinima) {
		return false
	}
	return g.AreaMaxima == nil || area.LessThanOrEqual(*g.AreaMaxima)
}

func (s *Segmentacao) ValidarGrupos() error {
	for _, g := range s.Grupos {
		if g.AreaMinima.IsNegative() || (g.AreaMaxima != nil && g.AreaMaxima.LessThan(g.AreaMinima)) {
			return fmt.Errorf("%w: faixa de área inválida no grupo %q", ErrArgumentoInvalido, g.Nome)
		}
		for _, r := range g.Regras {
			if r.PercentualDesconto.IsNegative() || r.PercentualDesconto.GreaterThan(cem) {
				return fmt.Errorf("%w: percentual inválido na regra %q", ErrArgumentoInvalido, r.Categoria)
			}
		}
	}
	return nil
}

// Desconto returns the discount percentage for a producer area and product
// category, or zero when no active group/rule matches.
func (s *Segmentacao) Desconto(area decimal.Decimal, categoria string) decimal.Decimal {
	if !s.Ativo {
		return decimal.Zero
	}
	for _, g := range s.Grupos {
		if !g.Ativo || !g.ContemArea(area) {
			continue
		}
		for _, r := range g.Regras {
			if strings.EqualFold(r.Categoria, categoria) {
				return r.PercentualDesconto
			}
		}
	}
	return decimal.Zero
}
