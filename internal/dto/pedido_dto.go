package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AdicionarItemPedidoRequest struct {
	ProdutoID          int             `json:"produto_id"          validate:"required,gt=0"`
	Quantidade         decimal.Decimal `json:"quantidade"          validate:"gt=0"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto" validate:"min=0,max=100"`
	Observacoes        string          `json:"observacoes"         validate:"max=1024"`
}

type CriarPedidoRequest struct {
	ProdutorID       int                          `json:"produtor_id"        validate:"required,gt=0"`
	FornecedorID     int                          `json:"fornecedor_id"      validate:"required,gt=0"`
	PermiteContato   *bool                        `json:"permite_contato"`
	NegociarPedido   *bool                        `json:"negociar_pedido"`
	FormaPagamentoID *int                         `json:"forma_pagamento_id" validate:"omitempty,gt=0"`
	Observacoes      *string                      `json:"observacoes"        validate:"omitempty,max=1024"`
	Itens            []AdicionarItemPedidoRequest `json:"itens"              validate:"dive"`
}

type AtualizarItemPedidoRequest struct {
	Quantidade         decimal.Decimal `json:"quantidade"          validate:"gt=0"`
	PercentualDesconto decimal.Decimal `json:"percentual_desconto" validate:"min=0,max=100"`
}

type AgendarTransporteRequest struct {
	Quantidade      decimal.Decimal `json:"quantidade"       validate:"gt=0"`
	DataAgendamento *time.Time      `json:"data_agendamento"`
	EnderecoOrigem  *string         `json:"endereco_origem"  validate:"omitempty,max=300"`
	EnderecoDestino *string         `json:"endereco_destino" validate:"omitempty,max=300"`
	ValorFrete      decimal.Decimal `json:"valor_frete"      validate:"min=0"`
	Observacoes     *string         `json:"observacoes"      validate:"omitempty,max=1024"`
}

// PropostaProdutorRequest carries a buyer action: Iniciou, Aceitou, AlterouCarrinho or Cancelou.
type PropostaProdutorRequest struct {
	Acao       string `json:"acao"       validate:"required,oneof=Iniciou Aceitou AlterouCarrinho Cancelou"`
	Observacao string `json:"observacao" validate:"max=1024"`
}

type PropostaFornecedorRequest struct {
	Observacao string `json:"observacao" validate:"required,max=1024"`
}

type ListarPedidosQuery struct {
	ProdutorID    *int       `form:"produtor_id"`
	FornecedorID  *int       `form:"fornecedor_id"`
	Status        string     `form:"status"`
	Desde         *time.Time `form:"desde" time_format:"2006-01-02"`
	Ate           *time.Time `form:"ate"   time_format:"2006-01-02"`
	Pagina        int        `form:"pagina"`
	TamanhoPagina int        `form:"tamanho_pagina"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoItemTransporteResponse struct {
	ID              int             `json:"id"`
	Quantidade      decimal.Decimal `json:"quantidade"`
	DataAgendamento *time.Time      `json:"data_agendamento"`
	EnderecoOrigem  *string         `json:"endereco_origem"`
	EnderecoDestino *string         `json:"endereco_destino"`
	ValorFrete      decimal.Decimal `json:"valor_frete"`
	Observacoes     *string         `json:"observacoes"`
}

type PedidoItemResponse struct {
	ID                 int                            `json:"id"`
	ProdutoID          int                            `json:"produto_id"`
	Quantidade         decimal.Decimal                `json:"quantidade"`
	PrecoUnitario      decimal.Decimal                `json:"preco_unitario"`
	PercentualDesconto decimal.Decimal                `json:"percentual_desconto"`
	ValorDesconto      decimal.Decimal                `json:"valor_desconto"`
	ValorTotal         decimal.Decimal                `json:"valor_total"`
	Observacoes        *string                        `json:"observacoes"`
	Transportes        []PedidoItemTransporteResponse `json:"transportes"`
}

type PropostaResponse struct {
	ID                  int       `json:"id"`
	PedidoID            int       `json:"pedido_id"`
	Autor               string    `json:"autor"` // produtor | fornecedor
	AcaoComprador       *string   `json:"acao_comprador"`
	Observacao          *string   `json:"observacao"`
	UsuarioProdutorID   *int      `json:"usuario_produtor_id"`
	UsuarioFornecedorID *int      `json:"usuario_fornecedor_id"`
	DataCriacao         time.Time `json:"data_criacao"`
}

type PedidoResponse struct {
	ID                  int                  `json:"id"`
	ProdutorID          int                  `json:"produtor_id"`
	FornecedorID        int                  `json:"fornecedor_id"`
	Status              string               `json:"status"`
	PermiteContato      bool                 `json:"permite_contato"`
	NegociarPedido      bool                 `json:"negociar_pedido"`
	DataLimiteInteracao time.Time            `json:"data_limite_interacao"`
	ValorTotal          decimal.Decimal      `json:"valor_total"`
	QuantidadeItens     int                  `json:"quantidade_itens"`
	FormaPagamentoID    *int                 `json:"forma_pagamento_id"`
	Observacoes         *string              `json:"observacoes"`
	Itens               []PedidoItemResponse `json:"itens,omitempty"`
	Propostas           []PropostaResponse   `json:"propostas,omitempty"`
	DataCriacao         time.Time            `json:"data_criacao"`
	DataAtualizacao     time.Time            `json:"data_atualizacao"`
}

type ListaPaginada[T any] struct {
	Itens         []T   `json:"itens"`
	Total         int64 `json:"total"`
	Pagina        int   `json:"pagina"`
	TamanhoPagina int   `json:"tamanho_pagina"`
}
