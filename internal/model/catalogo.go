package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto is an input sold by a supplier.
type Produto struct {
	EntidadeBase
	FornecedorID int     `gorm:"not null;uniqueIndex:ux_produto_fornecedor_codigo"`
	Codigo       string  `gorm:"type:varchar(50);not null;uniqueIndex:ux_produto_fornecedor_codigo"`
	Nome         string  `gorm:"type:varchar(200);not null"`
	Unidade      string  `gorm:"type:varchar(10);not null"`
	Categoria    string  `gorm:"type:varchar(100);not null;index"`
	CulturaID    *int    `gorm:"index"`
	Descricao    *string `gorm:"type:varchar(1000)"`
	Ativo        bool    `gorm:"not null;default:true"`
}

func (Produto) TableName() string { return "produtos" }

// Catalogo is a supplier's price list for a season.
type Catalogo struct {
	EntidadeBase
	FornecedorID int        `gorm:"not null;index"`
	SafraID      int        `gorm:"not null;index"`
	Nome         string     `gorm:"type:varchar(200);not null"`
	Moeda        string     `gorm:"type:char(3);not null;default:'BRL'"`
	DataInicio   time.Time  `gorm:"not null"`
	DataFim      *time.Time
	Ativo        bool       `gorm:"not null;default:true"`

	Itens []CatalogoItem `gorm:"foreignKey:CatalogoID;constraint:OnDelete:CASCADE"`
}

func (Catalogo) TableName() string { return "catalogos" }

type CatalogoItem struct {
	EntidadeBase
	CatalogoID int             `gorm:"not null;uniqueIndex:ux_catalogo_produto"`
	ProdutoID  int             `gorm:"not null;uniqueIndex:ux_catalogo_produto"`
	PrecoBase  decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Ativo      bool            `gorm:"not null;default:true"`
}

func (CatalogoItem) TableName() string { return "catalogo_itens" }

// Vigente reports whether the catalog is active at agora.
func (c *Catalogo) Vigente(agora time.Time) bool {
	if !c.Ativo || agora.Before(c.DataInicio) {
		return false
	}
	return c.DataFim == nil || !agora.After(*c.DataFim)
}

// PrecoProduto returns the active base price for produtoID.
func (c *Catalogo) PrecoProduto(produtoID int) (decimal.Decimal, bool) {
	for _, it := range c.Itens {
		if it.ProdutoID == produtoID && it.Ativo {
			return it.PrecoBase, true
		}
	}
	return decimal.Zero, false
}
