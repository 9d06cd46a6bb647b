package repository

import (
	"context"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type PagamentoRepository interface {
	CriarForma(ctx context.Context, f *model.FormaPagamento) error
	ObterForma(ctx context.Context, id int) (*model.FormaPagamento, error)
	ObterFormaPorDescricao(ctx context.Context, descricao string) (*model.FormaPagamento, error)
	ListarFormas(ctx context.Context, apenasAtivas bool) ([]model.FormaPagamento, error)
	AtualizarForma(ctx context.Context, f *model.FormaPagamento) error

	CriarCulturaForma(ctx context.Context, cf *model.CulturaFormaPagamento) error
	ListarPorFornecedorCultura(ctx context.Context, fornecedorID, culturaID int) ([]model.CulturaFormaPagamento, error)
	RemoverCulturaForma(ctx context.Context, fornecedorID, id int) (int64, error)
}

type pagamentoRepo struct{ db *gorm.DB }

func NewPagamentoRepository(db *gorm.DB) PagamentoRepository { return &pagamentoRepo{db: db} }

func (r *pagamentoRepo) CriarForma(ctx context.Context, f *model.FormaPagamento) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *pagamentoRepo) ObterForma(ctx context.Context, id int) (*model.FormaPagamento, error) {
	var f model.FormaPagamento
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *pagamentoRepo) ObterFormaPorDescricao(ctx context.Context, descricao string) (*model.FormaPagamento, error) {
	var f model.FormaPagamento
	if err := r.db.WithContext(ctx).Where("LOWER(descricao) = LOWER(?)", descricao).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *pagamentoRepo) ListarFormas(ctx context.Context, apenasAtivas bool) ([]model.FormaPagamento, error) {
	var list []model.FormaPagamento
	q := r.db.WithContext(ctx).Order("descricao asc")
	if apenasAtivas {
		q = q.Where("ativo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *pagamentoRepo) AtualizarForma(ctx context.Context, f *model.FormaPagamento) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *pagamentoRepo) CriarCulturaForma(ctx context.Context, cf *model.CulturaFormaPagamento) error {
	return r.db.WithContext(ctx).Omit("FormaPagamento").Create(cf).Error
}

func (r *pagamentoRepo) ListarPorFornecedorCultura(ctx context.Context, fornecedorID, culturaID int) ([]model.CulturaFormaPagamento, error) {
	var list []model.CulturaFormaPagamento
	err := r.db.WithContext(ctx).Preload("FormaPagamento").
		Where("fornecedor_id = ? AND cultura_id = ? AND ativo = ?", fornecedorID, culturaID, true).
		Find(&list).Error
	return list, err
}

func (r *pagamentoRepo) RemoverCulturaForma(ctx context.Context, fornecedorID, id int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("fornecedor_id = ?", fornecedorID).
		Delete(&model.CulturaFormaPagamento{}, id)
	return res.RowsAffected, res.Error
}
