package service

import (
	"context"
	"errors"
	"fmt"

	"agriis/internal/model"
	"agriis/internal/repository"

	"gorm.io/gorm"
)

// vinculos resolves the producer and supplier memberships of the acting user.
type vinculos struct {
	produtores   repository.ProdutorRepository
	fornecedores repository.FornecedorRepository
}

// doProdutor returns the active link between ator and produtorID.
func (v vinculos) doProdutor(ctx context.Context, ator Ator, produtorID int) (*model.UsuarioProdutor, error) {
	vinc, err := v.produtores.ObterVinculoUsuario(ctx, ator.UsuarioID, produtorID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !vinc.Ativo) {
		return nil, fmt.Errorf("%w: usuário %d não representa o produtor %d", ErrProibido, ator.UsuarioID, produtorID)
	}
	if err != nil {
		return nil, err
	}
	return vinc, nil
}

func (v vinculos) doFornecedor(ctx context.Context, ator Ator, fornecedorID int) (*model.UsuarioFornecedor, error) {
	vinc, err := v.fornecedores.ObterVinculoUsuario(ctx, ator.UsuarioID, fornecedorID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !vinc.Ativo) {
		return nil, fmt.Errorf("%w: usuário %d não representa o fornecedor %d", ErrProibido, ator.UsuarioID, fornecedorID)
	}
	if err != nil {
		return nil, err
	}
	return vinc, nil
}

// exigirProdutor lets administrators through and otherwise requires a link.
func (v vinculos) exigirProdutor(ctx context.Context, ator Ator, produtorID int) error {
	if ator.Administrador() {
		return nil
	}
	_, err := v.doProdutor(ctx, ator, produtorID)
	return err
}

func (v vinculos) exigirFornecedor(ctx context.Context, ator Ator, fornecedorID int) error {
	if ator.Administrador() {
		return nil
	}
	_, err := v.doFornecedor(ctx, ator, fornecedorID)
	return err
}

// exigirParte accepts administrators and users linked to either side of the order.
func (v vinculos) exigirParte(ctx context.Context, ator Ator, p *model.Pedido) error {
	if ator.Administrador() {
		return nil
	}
	if _, err := v.doProdutor(ctx, ator, p.ProdutorID); err == nil {
		return nil
	} else if !errors.Is(err, ErrProibido) {
		return err
	}
	_, err := v.doFornecedor(ctx, ator, p.FornecedorID)
	return err
}
