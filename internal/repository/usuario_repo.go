package repository

import (
	"context"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Criar(ctx context.Context, u *model.Usuario) error
	ObterPorID(ctx context.Context, id int) (*model.Usuario, error)
	ObterPorEmail(ctx context.Context, email string) (*model.Usuario, error)
	Listar(ctx context.Context, incluirInativos bool) ([]model.Usuario, error)
	Atualizar(ctx context.Context, u *model.Usuario) error
	AlterarAtivo(ctx context.Context, id int, ativo bool) error
	RegistrarAcesso(ctx context.Context, id int, em time.Time) error
	ListarPorProdutor(ctx context.Context, produtorID int) ([]model.Usuario, error)
	ListarPorFornecedor(ctx context.Context, fornecedorID int) ([]model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Criar(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) ObterPorID(ctx context.Context, id int) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) ObterPorEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) Listar(ctx context.Context, incluirInativos bool) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	q := r.db.WithContext(ctx).Order("nome asc")
	if !incluirInativos {
		q = q.Where("ativo = ?", true)
	}
	err := q.Find(&usuarios).Error
	return usuarios, err
}

func (r *usuarioRepo) Atualizar(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) AlterarAtivo(ctx context.Context, id int, ativo bool) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("ativo", ativo).Error
}

func (r *usuarioRepo) RegistrarAcesso(ctx context.Context, id int, em time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("ultimo_acesso", em).Error
}

// ListarPorProdutor returns the active users linked to a producer.
func (r *usuarioRepo) ListarPorProdutor(ctx context.Context, produtorID int) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	err := r.db.WithContext(ctx).
		Joins("JOIN usuarios_produtores up ON up.usuario_id = usuarios.id").
		Where("up.produtor_id = ? AND up.ativo = ? AND usuarios.ativo = ?", produtorID, true, true).
		Order("usuarios.nome asc").
		Find(&usuarios).Error
	return usuarios, err
}

func (r *usuarioRepo) ListarPorFornecedor(ctx context.Context, fornecedorID int) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	err := r.db.WithContext(ctx).
		Joins("JOIN usuarios_fornecedores uf ON uf.usuario_id = usuarios.id").
		Where("uf.fornecedor_id = ? AND uf.ativo = ? AND usuarios.ativo = ?", fornecedorID, true, true).
		Order("usuarios.nome asc").
		Find(&usuarios).Error
	return usuarios, err
}
