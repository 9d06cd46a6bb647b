package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Culturas ────────────────────────────────────────────────────────────────

type CriarCulturaRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=100"`
	Descricao *string `json:"descricao" validate:"omitempty,max=500"`
}

type AtualizarCulturaRequest struct {
	Nome      string  `json:"nome"      validate:"omitempty,min=2,max=100"`
	Descricao *string `json:"descricao" validate:"omitempty,max=500"`
	Ativo     *bool   `json:"ativo"`
}

type CulturaResponse struct {
	ID        int     `json:"id"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao"`
	Ativo     bool    `json:"ativo"`
}

// ─── Safras ──────────────────────────────────────────────────────────────────

type CriarSafraRequest struct {
	PlantioInicial time.Time `json:"plantio_inicial" validate:"required"`
	PlantioFinal   time.Time `json:"plantio_final"   validate:"required"`
	PlantioNome    string    `json:"plantio_nome"    validate:"required,max=50"`
	Descricao      string    `json:"descricao"       validate:"required,max=200"`
	AnoColheita    int       `json:"ano_colheita"    validate:"required,gte=1900,lte=2200"`
}

type AtualizarSafraRequest = CriarSafraRequest

type SafraResponse struct {
	ID             int       `json:"id"`
	Nome           string    `json:"nome"`
	PlantioInicial time.Time `json:"plantio_inicial"`
	PlantioFinal   time.Time `json:"plantio_final"`
	PlantioNome    string    `json:"plantio_nome"`
	Descricao      string    `json:"descricao"`
	AnoColheita    int       `json:"ano_colheita"`
	Atual          bool      `json:"atual"`
}

// ─── Pagamentos ──────────────────────────────────────────────────────────────

type CriarFormaPagamentoRequest struct {
	Descricao string `json:"descricao" validate:"required,min=2,max=100"`
}

type AtualizarFormaPagamentoRequest struct {
	Descricao string `json:"descricao" validate:"omitempty,min=2,max=100"`
	Ativo     *bool  `json:"ativo"`
}

type FormaPagamentoResponse struct {
	ID        int    `json:"id"`
	Descricao string `json:"descricao"`
	Ativo     bool   `json:"ativo"`
}

type AssociarFormaPagamentoRequest struct {
	FornecedorID     int `json:"fornecedor_id"      validate:"required,gt=0"`
	CulturaID        int `json:"cultura_id"         validate:"required,gt=0"`
	FormaPagamentoID int `json:"forma_pagamento_id" validate:"required,gt=0"`
}

type CulturaFormaPagamentoResponse struct {
	ID             int                    `json:"id"`
	FornecedorID   int                    `json:"fornecedor_id"`
	CulturaID      int                    `json:"cultura_id"`
	FormaPagamento FormaPagamentoResponse `json:"forma_pagamento"`
}

// ─── Segmentações ────────────────────────────────────────────────────────────

type RegraDescontoInput struct {
	Categoria          string          `json:"categoria"           validate:"required,max=100"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto" validate:"min=0,max=100"`
}

type GrupoSegmentacaoInput struct {
	Nome       string               `json:"nome"        validate:"required,max=200"`
	AreaMinima decimal.Decimal      `json:"area_minima" validate:"min=0"`
	AreaMaxima *decimal.Decimal     `json:"area_maxima"`
	Regras     []RegraDescontoInput `json:"regras"      validate:"dive"`
}

type CriarSegmentacaoRequest struct {
	FornecedorID int                     `json:"fornecedor_id" validate:"required,gt=0"`
	Nome         string                  `json:"nome"          validate:"required,max=200"`
	Descricao    *string                 `json:"descricao"     validate:"omitempty,max=500"`
	EhPadrao     bool                    `json:"eh_padrao"`
	Grupos       []GrupoSegmentacaoInput `json:"grupos"        validate:"dive"`
}

type AtualizarSegmentacaoRequest struct {
	Nome      string                  `json:"nome"      validate:"required,max=200"`
	Descricao *string                 `json:"descricao" validate:"omitempty,max=500"`
	EhPadrao  bool                    `json:"eh_padrao"`
	Ativo     *bool                   `json:"ativo"`
	Grupos    []GrupoSegmentacaoInput `json:"grupos"    validate:"dive"`
}

type RegraDescontoResponse struct {
	Categoria          string          `json:"categoria"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto"`
}

type GrupoSegmentacaoResponse struct {
	ID         int                     `json:"id"`
	Nome       string                  `json:"nome"`
	AreaMinima decimal.Decimal         `json:"area_minima"`
	AreaMaxima *decimal.Decimal        `json:"area_maxima"`
	Regras     []RegraDescontoResponse `json:"regras"`
}

type SegmentacaoResponse struct {
	ID           int                        `json:"id"`
	FornecedorID int                        `json:"fornecedor_id"`
	Nome         string                     `json:"nome"`
	Descricao    *string                    `json:"descricao"`
	EhPadrao     bool                       `json:"eh_padrao"`
	Ativo        bool                       `json:"ativo"`
	Grupos       []GrupoSegmentacaoResponse `json:"grupos"`
}

type DescontoSegmentacaoResponse struct {
	FornecedorID       int             `json:"fornecedor_id"`
	Area               decimal.Decimal `json:"area"`
	Categoria          string          `json:"categoria"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto"`
}
