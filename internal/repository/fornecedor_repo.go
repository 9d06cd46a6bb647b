package repository

import (
	"context"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type FornecedorRepository interface {
	Criar(ctx context.Context, f *model.Fornecedor) error
	ObterPorID(ctx context.Context, id int) (*model.Fornecedor, error)
	ObterPorCnpj(ctx context.Context, cnpj string) (*model.Fornecedor, error)
	Listar(ctx context.Context, apenasAtivos bool) ([]model.Fornecedor, error)
	ListarPorUsuario(ctx context.Context, usuarioID int) ([]model.Fornecedor, error)
	Atualizar(ctx context.Context, f *model.Fornecedor) error
	Desativar(ctx context.Context, id int) error
	VincularUsuario(ctx context.Context, v *model.UsuarioFornecedor) error
	ObterVinculoUsuario(ctx context.Context, usuarioID, fornecedorID int) (*model.UsuarioFornecedor, error)
}

type fornecedorRepo struct{ db *gorm.DB }

func NewFornecedorRepository(db *gorm.DB) FornecedorRepository { return &fornecedorRepo{db: db} }

func (r *fornecedorRepo) Criar(ctx context.Context, f *model.Fornecedor) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fornecedorRepo) ObterPorID(ctx context.Context, id int) (*model.Fornecedor, error) {
	var f model.Fornecedor
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fornecedorRepo) ObterPorCnpj(ctx context.Context, cnpj string) (*model.Fornecedor, error) {
	var f model.Fornecedor
	if err := r.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fornecedorRepo) Listar(ctx context.Context, apenasAtivos bool) ([]model.Fornecedor, error) {
	var list []model.Fornecedor
	q := r.db.WithContext(ctx).Order("nome asc")
	if apenasAtivos {
		q = q.Where("ativo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *fornecedorRepo) ListarPorUsuario(ctx context.Context, usuarioID int) ([]model.Fornecedor, error) {
	var list []model.Fornecedor
	err := r.db.WithContext(ctx).
		Joins("JOIN usuarios_fornecedores uf ON uf.fornecedor_id = fornecedores.id").
		Where("uf.usuario_id = ? AND uf.ativo = ?", usuarioID, true).
		Order("fornecedores.nome asc").
		Find(&list).Error
	return list, err
}

func (r *fornecedorRepo) Atualizar(ctx context.Context, f *model.Fornecedor) error {
	return r.db.WithContext(ctx).Omit("Usuarios").Save(f).Error
}

func (r *fornecedorRepo) Desativar(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Model(&model.Fornecedor{}).Where("id = ?", id).Update("ativo", false).Error
}

func (r *fornecedorRepo) VincularUsuario(ctx context.Context, v *model.UsuarioFornecedor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *fornecedorRepo) ObterVinculoUsuario(ctx context.Context, usuarioID, fornecedorID int) (*model.UsuarioFornecedor, error) {
	var v model.UsuarioFornecedor
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND fornecedor_id = ? AND ativo = ?", usuarioID, fornecedorID, true).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
