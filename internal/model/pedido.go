package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatusPedido is the negotiation state of an order.
type StatusPedido string

const (
	StatusPedidoEmNegociacao            StatusPedido = "EmNegociacao"
	StatusPedidoFechado                 StatusPedido = "Fechado"
	StatusPedidoCanceladoPorTempoLimite StatusPedido = "CanceladoPorTempoLimite"
	StatusPedidoCanceladoPeloComprador  StatusPedido = "CanceladoPeloComprador"
)

// Terminal reports whether no further transition is possible from s.
func (s StatusPedido) Terminal() bool { return s != StatusPedidoEmNegociacao }

func (s StatusPedido) Valido() bool {
	switch s {
	case StatusPedidoEmNegociacao, StatusPedidoFechado,
		StatusPedidoCanceladoPorTempoLimite, StatusPedidoCanceladoPeloComprador:
		return true
	}
	return false
}

// Pedido is the cart/negotiation between one producer and one supplier.
// It owns its items and proposals.
type Pedido struct {
	EntidadeBase
	ProdutorID          int             `gorm:"not null;index"`
	FornecedorID        int             `gorm:"not null;index"`
	Status              StatusPedido    `gorm:"type:varchar(32);not null;index"`
	PermiteContato      bool            `gorm:"not null;default:true"`
	NegociarPedido      bool            `gorm:"not null;default:true"`
	DataLimiteInteracao time.Time       `gorm:"not null;index"`
	ValorTotal          decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	QuantidadeItens     int             `gorm:"not null;default:0"`
	FormaPagamentoID    *int
	Observacoes         *string

	Itens     []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
	Propostas []Proposta   `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string { return "pedidos" }

// NovoPedido opens a negotiation with a deadline of agora+prazo.
func NovoPedido(produtorID, fornecedorID int, prazo time.Duration, agora time.Time) (*Pedido, error) {
	if produtorID <= 0 {
		return nil, fmt.Errorf("%w: produtor_id deve ser maior que zero", ErrArgumentoInvalido)
	}
	if fornecedorID <= 0 {
		return nil, fmt.Errorf("%w: fornecedor_id deve ser maior que zero", ErrArgumentoInvalido)
	}
	if prazo <= 0 {
		return nil, fmt.Errorf("%w: prazo limite deve ser positivo", ErrArgumentoInvalido)
	}
	return &Pedido{
		ProdutorID:          produtorID,
		FornecedorID:        fornecedorID,
		Status:              StatusPedidoEmNegociacao,
		PermiteContato:      true,
		NegociarPedido:      true,
		DataLimiteInteracao: agora.Add(prazo),
		ValorTotal:          decimal.Zero,
	}, nil
}

func (p *Pedido) EmNegociacao() bool { return p.Status == StatusPedidoEmNegociacao }

// Vencido reports whether the negotiation deadline passed while still open.
func (p *Pedido) Vencido(agora time.Time) bool {
	return p.EmNegociacao() && p.DataLimiteInteracao.Before(agora)
}

func (p *Pedido) exigirNegociacao() error {
	if !p.EmNegociacao() {
		return fmt.Errorf("%w: pedido %d está %s", ErrTransicaoInvalida, p.ID, p.Status)
	}
	return nil
}

func (p *Pedido) renovarPrazo(prazo time.Duration, agora time.Time) {
	if prazo > 0 {
		p.DataLimiteInteracao = agora.Add(prazo)
	}
	p.TocarAtualizacao(agora)
}

// AdicionarItem appends a cart line. Only allowed while negotiating.
func (p *Pedido) AdicionarItem(item *PedidoItem, prazo time.Duration, agora time.Time) error {
	if err := p.exigirNegociacao(); err != nil {
		return err
	}
	for _, existente := range p.Itens {
		if existente.ProdutoID == item.ProdutoID {
			return fmt.Errorf("%w: produto %d já está no pedido", ErrArgumentoInvalido, item.ProdutoID)
		}
	}
	item.PedidoID = p.ID
	item.CalcularTotais()
	p.Itens = append(p.Itens, *item)
	p.RecalcularTotais()
	p.renovarPrazo(prazo, agora)
	return nil
}

// AtualizarItem changes quantity and discount of an existing line.
func (p *Pedido) AtualizarItem(itemID int, quantidade, percentualDesconto decimal.Decimal, prazo time.Duration, agora time.Time) (*PedidoItem, error) {
	if err := p.exigirNegociacao(); err != nil {
		return nil, err
	}
	item := p.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("%w: item %d não pertence ao pedido %d", ErrArgumentoInvalido, itemID, p.ID)
	}
	if err := item.Alterar(quantidade, percentualDesconto); err != nil {
		return nil, err
	}
	p.RecalcularTotais()
	p.renovarPrazo(prazo, agora)
	return item, nil
}

// RemoverItem drops a cart line.
func (p *Pedido) RemoverItem(itemID int, prazo time.Duration, agora time.Time) error {
	if err := p.exigirNegociacao(); err != nil {
		return err
	}
	for i := range p.Itens {
		if p.Itens[i].ID == itemID {
			p.Itens = append(p.Itens[:i], p.Itens[i+1:]...)
			p.RecalcularTotais()
			p.renovarPrazo(prazo, agora)
			return nil
		}
	}
	return fmt.Errorf("%w: item %d não pertence ao pedido %d", ErrArgumentoInvalido, itemID, p.ID)
}

// Item returns the line with the given id, or nil.
func (p *Pedido) Item(itemID int) *PedidoItem {
	for i := range p.Itens {
		if p.Itens[i].ID == itemID {
			return &p.Itens[i]
		}
	}
	return nil
}

func (p *Pedido) RecalcularTotais() {
	total := decimal.Zero
	for i := range p.Itens {
		total = total.Add(p.Itens[i].ValorTotal)
	}
	p.ValorTotal = total.Round(2)
	p.QuantidadeItens = len(p.Itens)
}

// UltimaProposta returns the most recent turn, or nil when none exists.
// Propostas are kept in insertion order.
func (p *Pedido) UltimaProposta() *Proposta {
	if len(p.Propostas) == 0 {
		return nil
	}
	return &p.Propostas[len(p.Propostas)-1]
}

// RegistrarProposta applies a negotiation turn to the order:
//
//	Iniciou          only as the first turn
//	Aceitou          closes the order; needs a pending supplier turn unless the
//	                 order is not negotiable
//	AlterouCarrinho  keeps negotiating
//	Cancelou         cancels on behalf of the buyer
//
// Supplier turns keep the negotiation open. Whenever the order stays in
// EmNegociacao its deadline moves to agora+prazo.
func (p *Pedido) RegistrarProposta(prop *Proposta, prazo time.Duration, agora time.Time) error {
	if prop == nil {
		return fmt.Errorf("%w: proposta nula", ErrArgumentoInvalido)
	}
	if prop.PedidoID != p.ID {
		return fmt.Errorf("%w: proposta do pedido %d aplicada ao pedido %d", ErrArgumentoInvalido, prop.PedidoID, p.ID)
	}
	if err := p.exigirNegociacao(); err != nil {
		return err
	}

	if prop.EhPropostaProdutor() {
		switch prop.Acao() {
		case AcaoIniciou:
			if len(p.Propostas) > 0 {
				return fmt.Errorf("%w: negociação do pedido %d já foi iniciada", ErrTransicaoInvalida, p.ID)
			}
		case AcaoAceitou:
			ultima := p.UltimaProposta()
			if p.NegociarPedido && (ultima == nil || !ultima.EhPropostaFornecedor()) {
				return fmt.Errorf("%w: não há proposta do fornecedor para aceitar", ErrTransicaoInvalida)
			}
			p.Status = StatusPedidoFechado
		case AcaoCancelou:
			p.Status = StatusPedidoCanceladoPeloComprador
		case AcaoAlterouCarrinho:
		default:
			return fmt.Errorf("%w: ação do comprador inválida", ErrArgumentoInvalido)
		}
	} else if !prop.EhPropostaFornecedor() {
		return fmt.Errorf("%w: proposta sem autoria definida", ErrArgumentoInvalido)
	}

	p.Propostas = append(p.Propostas, *prop)
	if p.EmNegociacao() {
		p.renovarPrazo(prazo, agora)
	} else {
		p.TocarAtualizacao(agora)
	}
	return nil
}

// CancelarPorTempoLimite expires an order whose deadline passed.
func (p *Pedido) CancelarPorTempoLimite(agora time.Time) error {
	if err := p.exigirNegociacao(); err != nil {
		return err
	}
	if !p.Vencido(agora) {
		return fmt.Errorf("%w: pedido %d ainda está dentro do prazo", ErrTransicaoInvalida, p.ID)
	}
	p.Status = StatusPedidoCanceladoPorTempoLimite
	p.TocarAtualizacao(agora)
	return nil
}
