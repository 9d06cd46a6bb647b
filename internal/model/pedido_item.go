package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

// PedidoItem is one product line of an order.
type PedidoItem struct {
	EntidadeBase
	PedidoID           int             `gorm:"not null;index"`
	ProdutoID          int             `gorm:"not null;index"`
	Quantidade         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PrecoUnitario      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PercentualDesconto decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	ValorDesconto      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ValorTotal         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Observacoes        *string

	Transportes []PedidoItemTransporte `gorm:"foreignKey:PedidoItemID;constraint:OnDelete:CASCADE"`
}

func (PedidoItem) TableName() string { return "pedido_itens" }

// PedidoItemTransporte schedules the delivery of part of an item's quantity.
type PedidoItemTransporte struct {
	EntidadeBase
	PedidoItemID    int             `gorm:"not null;index"`
	Quantidade      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DataAgendamento *time.Time
	EnderecoOrigem  *string
	EnderecoDestino *string
	ValorFrete      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Observacoes     *string
}

func (PedidoItemTransporte) TableName() string { return "pedido_item_transportes" }

// NovoPedidoItem validates and prices a cart line.
func NovoPedidoItem(produtoID int, quantidade, precoUnitario, percentualDesconto decimal.Decimal, observacoes string) (*PedidoItem, error) {
	if produtoID <= 0 {
		return nil, fmt.Errorf("%w: produto_id deve ser maior que zero", ErrArgumentoInvalido)
	}
	if precoUnitario.IsNegative() {
		return nil, fmt.Errorf("%w: preço unitário não pode ser negativo", ErrArgumentoInvalido)
	}
	item := &PedidoItem{ProdutoID: produtoID, PrecoUnitario: precoUnitario}
	if err := item.Alterar(quantidade, percentualDesconto); err != nil {
		return nil, err
	}
	if obs := strings.TrimSpace(observacoes); obs != "" {
		item.Observacoes = &obs
	}
	return item, nil
}

// Alterar updates quantity and discount and recomputes the line totals.
func (i *PedidoItem) Alterar(quantidade, percentualDesconto decimal.Decimal) error {
	if !quantidade.IsPositive() {
		return fmt.Errorf("%w: quantidade deve ser maior que zero", ErrArgumentoInvalido)
	}
	if percentualDesconto.IsNegative() || percentualDesconto.GreaterThan(cem) {
		return fmt.Errorf("%w: percentual de desconto deve estar entre 0 e 100", ErrArgumentoInvalido)
	}
	if agendada := i.QuantidadeAgendada(); agendada.GreaterThan(quantidade) {
		return fmt.Errorf("%w: quantidade menor que a já agendada para transporte (%s)", ErrArgumentoInvalido, agendada)
	}
	i.Quantidade = quantidade
	i.PercentualDesconto = percentualDesconto
	i.CalcularTotais()
	return nil
}

func (i *PedidoItem) CalcularTotais() {
	bruto := i.Quantidade.Mul(i.PrecoUnitario)
	i.ValorDesconto = bruto.Mul(i.PercentualDesconto).Div(cem).Round(2)
	i.ValorTotal = bruto.Sub(i.ValorDesconto).Round(2)
}

func (i *PedidoItem) QuantidadeAgendada() decimal.Decimal {
	total := decimal.Zero
	for _, t := range i.Transportes {
		total = total.Add(t.Quantidade)
	}
	return total
}

// AgendarTransporte adds a delivery; the scheduled total may not exceed the item quantity.
func (i *PedidoItem) AgendarTransporte(t PedidoItemTransporte) error {
	if !t.Quantidade.IsPositive() {
		return fmt.Errorf("%w: quantidade do transporte deve ser maior que zero", ErrArgumentoInvalido)
	}
	if t.ValorFrete.IsNegative() {
		return fmt.Errorf("%w: valor do frete não pode ser negativo", ErrArgumentoInvalido)
	}
	if i.QuantidadeAgendada().Add(t.Quantidade).GreaterThan(i.Quantidade) {
		return fmt.Errorf("%w: quantidade agendada excede a quantidade do item", ErrArgumentoInvalido)
	}
	t.PedidoItemID = i.ID
	i.Transportes = append(i.Transportes, t)
	return nil
}
