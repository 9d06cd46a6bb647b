package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ComboItemInput struct {
	ProdutoID          int             `json:"produto_id"          validate:"required,gt=0"`
	Quantidade         decimal.Decimal `json:"quantidade"          validate:"gt=0"`
	PrecoUnitario      decimal.Decimal `json:"preco_unitario"      validate:"min=0"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto" validate:"min=0,max=100"`
	ProdutoObrigatorio bool            `json:"produto_obrigatorio"`
	Ordem              int             `json:"ordem"               validate:"min=0"`
}

type ComboLocalRecebimentoInput struct {
	Nome               string          `json:"nome"                validate:"required,max=200"`
	Municipio          string          `json:"municipio"           validate:"required,max=120"`
	Uf                 string          `json:"uf"                  validate:"required,len=2"`
	PrecoAdicional     decimal.Decimal `json:"preco_adicional"     validate:"min=0"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto" validate:"min=0,max=100"`
	LocalPadrao        bool            `json:"local_padrao"`
}

type ComboCategoriaDescontoInput struct {
	Nome                    string          `json:"nome"                       validate:"required,max=120"`
	TipoDesconto            string          `json:"tipo_desconto"              validate:"required,oneof=Percentual ValorPorHectare"`
	PercentualDesconto      decimal.Decimal `json:"percentual_desconto"        validate:"min=0,max=100"`
	ValorDescontoPorHectare decimal.Decimal `json:"valor_desconto_por_hectare" validate:"min=0"`
	HectareMinimo           decimal.Decimal `json:"hectare_minimo"             validate:"min=0"`
	HectareMaximo           decimal.Decimal `json:"hectare_maximo"             validate:"min=0"`
}

type CriarComboRequest struct {
	Nome                 string                        `json:"nome"                   validate:"required,max=200"`
	Descricao            *string                       `json:"descricao"              validate:"omitempty,max=1000"`
	FornecedorID         int                           `json:"fornecedor_id"          validate:"required,gt=0"`
	SafraID              int                           `json:"safra_id"               validate:"required,gt=0"`
	HectareMinimo        decimal.Decimal               `json:"hectare_minimo"         validate:"min=0"`
	HectareMaximo        decimal.Decimal               `json:"hectare_maximo"         validate:"gt=0"`
	DataInicio           time.Time                     `json:"data_inicio"            validate:"required"`
	DataFim              time.Time                     `json:"data_fim"               validate:"required"`
	ModalidadePagamento  string                        `json:"modalidade_pagamento"   validate:"required,oneof=Normal Barter"`
	PermiteAlteracaoItem bool                          `json:"permite_alteracao_item"`
	PermiteExclusaoItem  bool                          `json:"permite_exclusao_item"`
	RestricoesMunicipios []string                      `json:"restricoes_municipios"  validate:"dive,max=120"`
	Itens                []ComboItemInput              `json:"itens"                  validate:"dive"`
	LocaisRecebimento    []ComboLocalRecebimentoInput  `json:"locais_recebimento"     validate:"dive"`
	CategoriasDesconto   []ComboCategoriaDescontoInput `json:"categorias_desconto"    validate:"dive"`
}

type AtualizarComboRequest struct {
	Nome                 string                        `json:"nome"                   validate:"required,max=200"`
	Descricao            *string                       `json:"descricao"              validate:"omitempty,max=1000"`
	HectareMinimo        decimal.Decimal               `json:"hectare_minimo"         validate:"min=0"`
	HectareMaximo        decimal.Decimal               `json:"hectare_maximo"         validate:"gt=0"`
	DataInicio           time.Time                     `json:"data_inicio"            validate:"required"`
	DataFim              time.Time                     `json:"data_fim"               validate:"required"`
	ModalidadePagamento  string                        `json:"modalidade_pagamento"   validate:"required,oneof=Normal Barter"`
	PermiteAlteracaoItem bool                          `json:"permite_alteracao_item"`
	PermiteExclusaoItem  bool                          `json:"permite_exclusao_item"`
	RestricoesMunicipios []string                      `json:"restricoes_municipios"  validate:"dive,max=120"`
	Itens                []ComboItemInput              `json:"itens"                  validate:"dive"`
	LocaisRecebimento    []ComboLocalRecebimentoInput  `json:"locais_recebimento"     validate:"dive"`
	CategoriasDesconto   []ComboCategoriaDescontoInput `json:"categorias_desconto"    validate:"dive"`
}

type AlterarStatusComboRequest struct {
	Status string `json:"status" validate:"required,oneof=Ativo Inativo Expirado Suspenso"`
}

type CalcularDescontoComboRequest struct {
	Hectare   decimal.Decimal `json:"hectare"    validate:"min=0"`
	ValorBase decimal.Decimal `json:"valor_base" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ComboItemResponse struct {
	ID                 int             `json:"id"`
	ProdutoID          int             `json:"produto_id"`
	Quantidade         decimal.Decimal `json:"quantidade"`
	PrecoUnitario      decimal.Decimal `json:"preco_unitario"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto"`
	ProdutoObrigatorio bool            `json:"produto_obrigatorio"`
	Ordem              int             `json:"ordem"`
}

type ComboLocalRecebimentoResponse struct {
	ID                 int             `json:"id"`
	Nome               string          `json:"nome"`
	Municipio          string          `json:"municipio"`
	Uf                 string          `json:"uf"`
	PrecoAdicional     decimal.Decimal `json:"preco_adicional"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto"`
	LocalPadrao        bool            `json:"local_padrao"`
}

type ComboCategoriaDescontoResponse struct {
	ID                      int             `json:"id"`
	Nome                    string          `json:"nome"`
	TipoDesconto            string          `json:"tipo_desconto"`
	PercentualDesconto      decimal.Decimal `json:"percentual_desconto"`
	ValorDescontoPorHectare decimal.Decimal `json:"valor_desconto_por_hectare"`
	HectareMinimo           decimal.Decimal `json:"hectare_minimo"`
	HectareMaximo           decimal.Decimal `json:"hectare_maximo"`
	Ativo                   bool            `json:"ativo"`
}

type ComboResponse struct {
	ID                   int                              `json:"id"`
	Nome                 string                           `json:"nome"`
	Descricao            *string                          `json:"descricao"`
	FornecedorID         int                              `json:"fornecedor_id"`
	SafraID              int                              `json:"safra_id"`
	HectareMinimo        decimal.Decimal                  `json:"hectare_minimo"`
	HectareMaximo        decimal.Decimal                  `json:"hectare_maximo"`
	DataInicio           time.Time                        `json:"data_inicio"`
	DataFim              time.Time                        `json:"data_fim"`
	ModalidadePagamento  string                           `json:"modalidade_pagamento"`
	Status               string                           `json:"status"`
	PermiteAlteracaoItem bool                             `json:"permite_alteracao_item"`
	PermiteExclusaoItem  bool                             `json:"permite_exclusao_item"`
	RestricoesMunicipios []string                         `json:"restricoes_municipios"`
	Itens                []ComboItemResponse              `json:"itens"`
	LocaisRecebimento    []ComboLocalRecebimentoResponse  `json:"locais_recebimento"`
	CategoriasDesconto   []ComboCategoriaDescontoResponse `json:"categorias_desconto"`
}

type DescontoComboResponse struct {
	ComboID   int             `json:"combo_id"`
	Hectare   decimal.Decimal `json:"hectare"`
	ValorBase decimal.Decimal `json:"valor_base"`
	Categoria *string         `json:"categoria"`
	Desconto  decimal.Decimal `json:"desconto"`
}
