package model

import (
	"fmt"
	"strings"
)

// AcaoCompradorPedido is the action a producer takes on an order when
// authoring a proposal.
type AcaoCompradorPedido int

const (
	AcaoIniciou AcaoCompradorPedido = iota + 1
	AcaoAceitou
	AcaoAlterouCarrinho
	AcaoCancelou
)

func (a AcaoCompradorPedido) String() string {
	switch a {
	case AcaoIniciou:
		return "Iniciou"
	case AcaoAceitou:
		return "Aceitou"
	case AcaoAlterouCarrinho:
		return "AlterouCarrinho"
	case AcaoCancelou:
		return "Cancelou"
	default:
		return "Desconhecida"
	}
}

// Valida reports whether a is one of the defined actions.
func (a AcaoCompradorPedido) Valida() bool {
	return a >= AcaoIniciou && a <= AcaoCancelou
}

// ParseAcaoComprador converts the textual action used by the API.
func ParseAcaoComprador(s string) (AcaoCompradorPedido, error) {
	for a := AcaoIniciou; a <= AcaoCancelou; a++ {
		if strings.EqualFold(a.String(), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: ação do comprador %q desconhecida", ErrArgumentoInvalido, s)
}

// Proposta is a single negotiation turn within a Pedido. Exactly one of
// UsuarioProdutorID / UsuarioFornecedorID is set.
type Proposta struct {
	EntidadeBase
	PedidoID            int                  `gorm:"not null;index"`
	AcaoComprador       *AcaoCompradorPedido `gorm:"type:integer"`
	Observacao          *string              `gorm:"type:varchar(1024)"`
	UsuarioProdutorID   *int                 `gorm:"index"`
	UsuarioFornecedorID *int                 `gorm:"index"`
}

func (Proposta) TableName() string { return "propostas" }

// NovaPropostaProdutor builds a producer-authored turn. observacao is optional.
func NovaPropostaProdutor(pedidoID int, acao AcaoCompradorPedido, usuarioProdutorID int, observacao string) (*Proposta, error) {
	if pedidoID <= 0 {
		return nil, fmt.Errorf("%w: pedido_id deve ser maior que zero", ErrArgumentoInvalido)
	}
	if !acao.Valida() {
		return nil, fmt.Errorf("%w: ação do comprador inválida (%d)", ErrArgumentoInvalido, int(acao))
	}
	if usuarioProdutorID <= 0 {
		return nil, fmt.Errorf("%w: usuario_produtor_id deve ser maior que zero", ErrArgumentoInvalido)
	}

	p := &Proposta{
		PedidoID:          pedidoID,
		AcaoComprador:     &acao,
		UsuarioProdutorID: &usuarioProdutorID,
	}
	if obs := strings.TrimSpace(observacao); obs != "" {
		p.Observacao = &obs
	}
	return p, nil
}

// NovaPropostaFornecedor builds a supplier-authored turn. The observation is mandatory.
func NovaPropostaFornecedor(pedidoID int, observacao string, usuarioFornecedorID int) (*Proposta, error) {
	if pedidoID <= 0 {
		return nil, fmt.Errorf("%w: pedido_id deve ser maior que zero", ErrArgumentoInvalido)
	}
	obs := strings.TrimSpace(observacao)
	if obs == "" {
		return nil, fmt.Errorf("%w: observação é obrigatória para propostas do fornecedor", ErrArgumentoInvalido)
	}
	if usuarioFornecedorID <= 0 {
		return nil, fmt.Errorf("%w: usuario_fornecedor_id deve ser maior que zero", ErrArgumentoInvalido)
	}

	return &Proposta{
		PedidoID:            pedidoID,
		Observacao:          &obs,
		UsuarioFornecedorID: &usuarioFornecedorID,
	}, nil
}

func (p *Proposta) EhPropostaProdutor() bool {
	return p.UsuarioProdutorID != nil && p.UsuarioFornecedorID == nil
}

func (p *Proposta) EhPropostaFornecedor() bool {
	return p.UsuarioFornecedorID != nil && p.UsuarioProdutorID == nil
}

// Acao returns the producer action, or zero for supplier proposals.
func (p *Proposta) Acao() AcaoCompradorPedido {
	if p.AcaoComprador == nil {
		return 0
	}
	return *p.AcaoComprador
}
