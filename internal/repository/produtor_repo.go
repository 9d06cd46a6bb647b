package repository

import (
	"context"

	"agriis/internal/model"

	"gorm.io/gorm"
)

type ProdutorFiltro struct {
	Status *model.StatusProdutor
	Busca  string
	Paginacao
}

type ProdutorRepository interface {
	Criar(ctx context.Context, p *model.Produtor) error
	ObterPorID(ctx context.Context, id int) (*model.Produtor, error)
	ObterPorDocumento(ctx context.Context, documento string) (*model.Produtor, error)
	Listar(ctx context.Context, filtro ProdutorFiltro) ([]model.Produtor, int64, error)
	ListarPorUsuario(ctx context.Context, usuarioID int) ([]model.Produtor, error)
	Atualizar(ctx context.Context, p *model.Produtor) error
	AtualizarStatus(ctx context.Context, id int, status model.StatusProdutor) error
	DefinirCulturas(ctx context.Context, p *model.Produtor, culturaIDs []int) error
	VincularUsuario(ctx context.Context, v *model.UsuarioProdutor) error
	ObterVinculoUsuario(ctx context.Context, usuarioID, produtorID int) (*model.UsuarioProdutor, error)
	Remover(ctx context.Context, id int) error
}

type produtorRepo struct{ db *gorm.DB }

func NewProdutorRepository(db *gorm.DB) ProdutorRepository { return &produtorRepo{db: db} }

func (r *produtorRepo) Criar(ctx context.Context, p *model.Produtor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtorRepo) ObterPorID(ctx context.Context, id int) (*model.Produtor, error) {
	var p model.Produtor
	if err := r.db.WithContext(ctx).Preload("Culturas").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtorRepo) ObterPorDocumento(ctx context.Context, documento string) (*model.Produtor, error) {
	var p model.Produtor
	err := r.db.WithContext(ctx).
		Where("cpf = ? OR cnpj = ?", documento, documento).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtorRepo) Listar(ctx context.Context, filtro ProdutorFiltro) ([]model.Produtor, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Produtor{})
	if filtro.Status != nil {
		q = q.Where("status = ?", *filtro.Status)
	}
	if filtro.Busca != "" {
		like := "%" + filtro.Busca + "%"
		q = q.Where("(LOWER(nome) LIKE LOWER(?) OR cpf LIKE ? OR cnpj LIKE ?)", like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Produtor
	err := filtro.Paginacao.aplicar(q).Preload("Culturas").Order("nome asc").Find(&list).Error
	return list, total, err
}

func (r *produtorRepo) ListarPorUsuario(ctx context.Context, usuarioID int) ([]model.Produtor, error) {
	var list []model.Produtor
	err := r.db.WithContext(ctx).
		Joins("JOIN usuarios_produtores up ON up.produtor_id = produtores.id").
		Where("up.usuario_id = ? AND up.ativo = ?", usuarioID, true).
		Order("produtores.nome asc").
		Find(&list).Error
	return list, err
}

func (r *produtorRepo) Atualizar(ctx context.Context, p *model.Produtor) error {
	return r.db.WithContext(ctx).Omit("Culturas", "Usuarios").Save(p).Error
}

func (r *produtorRepo) AtualizarStatus(ctx context.Context, id int, status model.StatusProdutor) error {
	return r.db.WithContext(ctx).Model(&model.Produtor{}).Where("id = ?", id).Update("status", status).Error
}

// DefinirCulturas replaces the producer's crop associations.
func (r *produtorRepo) DefinirCulturas(ctx context.Context, p *model.Produtor, culturaIDs []int) error {
	culturas := make([]model.Cultura, 0, len(culturaIDs))
	for _, id := range culturaIDs {
		culturas = append(culturas, model.Cultura{EntidadeBase: model.EntidadeBase{ID: id}})
	}
	if err := r.db.WithContext(ctx).Model(p).Association("Culturas").Replace(culturas); err != nil {
		return err
	}
	p.Culturas = culturas
	return nil
}

func (r *produtorRepo) VincularUsuario(ctx context.Context, v *model.UsuarioProdutor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *produtorRepo) ObterVinculoUsuario(ctx context.Context, usuarioID, produtorID int) (*model.UsuarioProdutor, error) {
	var v model.UsuarioProdutor
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND produtor_id = ? AND ativo = ?", usuarioID, produtorID, true).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *produtorRepo) Remover(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Select("Culturas").Delete(&model.Produtor{EntidadeBase: model.EntidadeBase{ID: id}}).Error
}
