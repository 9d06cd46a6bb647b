package repository

import (
	"context"
	"errors"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type CatalogoRepository interface {
	CriarProduto(ctx context.Context, p *model.Produto) error
	ObterProdutoPorID(ctx context.Context, id int) (*model.Produto, error)
	ObterProdutoPorCodigo(ctx context.Context, fornecedorID int, codigo string) (*model.Produto, error)
	ListarProdutosPorFornecedor(ctx context.Context, fornecedorID int, apenasAtivos bool) ([]model.Produto, error)
	AtualizarProduto(ctx context.Context, p *model.Produto) error

	Criar(ctx context.Context, c *model.Catalogo) error
	ObterPorID(ctx context.Context, id int) (*model.Catalogo, error)
	Listar(ctx context.Context, fornecedorID *int) ([]model.Catalogo, error)
	ListarVigentes(ctx context.Context, fornecedorID int, agora time.Time) ([]model.Catalogo, error)
	Atualizar(ctx context.Context, c *model.Catalogo) error
	Desativar(ctx context.Context, id int) error
	SalvarItem(ctx context.Context, item *model.CatalogoItem) error
	RemoverItem(ctx context.Context, catalogoID, produtoID int) (int64, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) CriarProduto(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *catalogoRepo) ObterProdutoPorID(ctx context.Context, id int) (*model.Produto, error) {
	var p model.Produto
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogoRepo) ObterProdutoPorCodigo(ctx context.Context, fornecedorID int, codigo string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("fornecedor_id = ? AND codigo = ?", fornecedorID, codigo).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogoRepo) ListarProdutosPorFornecedor(ctx context.Context, fornecedorID int, apenasAtivos bool) ([]model.Produto, error) {
	var list []model.Produto
	q := r.db.WithContext(ctx).Where("fornecedor_id = ?", fornecedorID)
	if apenasAtivos {
		q = q.Where("ativo = ?", true)
	}
	err := q.Order("nome asc").Find(&list).Error
	return list, err
}

func (r *catalogoRepo) AtualizarProduto(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *catalogoRepo) Criar(ctx context.Context, c *model.Catalogo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogoRepo) ObterPorID(ctx context.Context, id int) (*model.Catalogo, error) {
	var c model.Catalogo
	if err := r.db.WithContext(ctx).Preload("Itens").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *catalogoRepo) Listar(ctx context.Context, fornecedorID *int) ([]model.Catalogo, error) {
	var list []model.Catalogo
	q := r.db.WithContext(ctx)
	if fornecedorID != nil {
		q = q.Where("fornecedor_id = ?", *fornecedorID)
	}
	err := q.Order("data_inicio desc").Find(&list).Error
	return list, err
}

func (r *catalogoRepo) ListarVigentes(ctx context.Context, fornecedorID int, agora time.Time) ([]model.Catalogo, error) {
	var list []model.Catalogo
	err := r.db.WithContext(ctx).Preload("Itens").
		Where("fornecedor_id = ? AND ativo = ? AND data_inicio <= ?", fornecedorID, true, agora).
		Where("(data_fim IS NULL OR data_fim >= ?)", agora).
		Order("data_inicio desc").
		Find(&list).Error
	return list, err
}

func (r *catalogoRepo) Atualizar(ctx context.Context, c *model.Catalogo) error {
	return r.db.WithContext(ctx).Omit("Itens").Save(c).Error
}

func (r *catalogoRepo) Desativar(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Model(&model.Catalogo{}).Where("id = ?", id).Update("ativo", false).Error
}

// SalvarItem inserts or updates the price of a product in a catalog.
func (r *catalogoRepo) SalvarItem(ctx context.Context, item *model.CatalogoItem) error {
	var existente model.CatalogoItem
	err := r.db.WithContext(ctx).
		Where("catalogo_id = ? AND produto_id = ?", item.CatalogoID, item.ProdutoID).
		First(&existente).Error
	switch {
	case err == nil:
		item.ID = existente.ID
		item.DataCriacao = existente.DataCriacao
		return r.db.WithContext(ctx).Save(item).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(item).Error
	default:
		return err
	}
}

func (r *catalogoRepo) RemoverItem(ctx context.Context, catalogoID, produtoID int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("catalogo_id = ? AND produto_id = ?", catalogoID, produtoID).
		Delete(&model.CatalogoItem{})
	return res.RowsAffected, res.Error
}
