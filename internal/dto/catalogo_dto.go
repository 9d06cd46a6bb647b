package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Produtos ────────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	FornecedorID int     `json:"fornecedor_id" validate:"required,gt=0"`
	Codigo       string  `json:"codigo"        validate:"required,max=50"`
	Nome         string  `json:"nome"          validate:"required,max=200"`
	Unidade      string  `json:"unidade"       validate:"required,max=10"`
	Categoria    string  `json:"categoria"     validate:"required,max=100"`
	CulturaID    *int    `json:"cultura_id"    validate:"omitempty,gt=0"`
	Descricao    *string `json:"descricao"     validate:"omitempty,max=1000"`
}

type AtualizarProdutoRequest struct {
	Nome      string  `json:"nome"       validate:"omitempty,max=200"`
	Unidade   string  `json:"unidade"    validate:"omitempty,max=10"`
	Categoria string  `json:"categoria"  validate:"omitempty,max=100"`
	CulturaID *int    `json:"cultura_id" validate:"omitempty,gt=0"`
	Descricao *string `json:"descricao"  validate:"omitempty,max=1000"`
	Ativo     *bool   `json:"ativo"`
}

type ProdutoResponse struct {
	ID           int     `json:"id"`
	FornecedorID int     `json:"fornecedor_id"`
	Codigo       string  `json:"codigo"`
	Nome         string  `json:"nome"`
	Unidade      string  `json:"unidade"`
	Categoria    string  `json:"categoria"`
	CulturaID    *int    `json:"cultura_id"`
	Descricao    *string `json:"descricao"`
	Ativo        bool    `json:"ativo"`
}

// ─── Catálogos ───────────────────────────────────────────────────────────────

type CriarCatalogoRequest struct {
	FornecedorID int        `json:"fornecedor_id" validate:"required,gt=0"`
	SafraID      int        `json:"safra_id"      validate:"required,gt=0"`
	Nome         string     `json:"nome"          validate:"required,max=200"`
	Moeda        string     `json:"moeda"         validate:"omitempty,len=3"`
	DataInicio   time.Time  `json:"data_inicio"   validate:"required"`
	DataFim      *time.Time `json:"data_fim"`
}

type AtualizarCatalogoRequest struct {
	Nome       string     `json:"nome"        validate:"omitempty,max=200"`
	Moeda      string     `json:"moeda"       validate:"omitempty,len=3"`
	DataInicio *time.Time `json:"data_inicio"`
	DataFim    *time.Time `json:"data_fim"`
	Ativo      *bool      `json:"ativo"`
}

type CatalogoItemRequest struct {
	ProdutoID int             `json:"produto_id" validate:"required,gt=0"`
	PrecoBase decimal.Decimal `json:"preco_base" validate:"min=0"`
}

type CatalogoItemResponse struct {
	ProdutoID int             `json:"produto_id"`
	PrecoBase decimal.Decimal `json:"preco_base"`
	Ativo     bool            `json:"ativo"`
}

type CatalogoResponse struct {
	ID           int                    `json:"id"`
	FornecedorID int                    `json:"fornecedor_id"`
	SafraID      int                    `json:"safra_id"`
	Nome         string                 `json:"nome"`
	Moeda        string                 `json:"moeda"`
	DataInicio   time.Time              `json:"data_inicio"`
	DataFim      *time.Time             `json:"data_fim"`
	Ativo        bool                   `json:"ativo"`
	Vigente      bool                   `json:"vigente"`
	Itens        []CatalogoItemResponse `json:"itens"`
}

type PrecoProdutoResponse struct {
	CatalogoID int             `json:"catalogo_id"`
	ProdutoID  int             `json:"produto_id"`
	PrecoBase  decimal.Decimal `json:"preco_base"`
	Moeda      string          `json:"moeda"`
}
