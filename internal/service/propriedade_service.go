package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PropriedadeService interface {
	Criar(ctx context.Context, ator Ator, req dto.CriarPropriedadeRequest) (*dto.PropriedadeResponse, error)
	ObterPorID(ctx context.Context, ator Ator, id int) (*dto.PropriedadeResponse, error)
	ListarPorProdutor(ctx context.Context, ator Ator, produtorID int) ([]dto.PropriedadeResponse, error)
	Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarPropriedadeRequest) (*dto.PropriedadeResponse, error)
	Remover(ctx context.Context, ator Ator, id int) error
	AreaTotalPorProdutor(ctx context.Context, ator Ator, produtorID int) (*dto.AreaProdutorResponse, error)
}

type propriedadeService struct {
	repo       repository.PropriedadeRepository
	produtores repository.ProdutorRepository
	vinculos   vinculos
}

func NewPropriedadeService(repo repository.PropriedadeRepository, produtores repository.ProdutorRepository) PropriedadeService {
	return &propriedadeService{repo: repo, produtores: produtores, vinculos: vinculos{produtores: produtores}}
}

func (s *propriedadeService) Criar(ctx context.Context, ator Ator, req dto.CriarPropriedadeRequest) (*dto.PropriedadeResponse, error) {
	if err := s.vinculos.exigirProdutor(ctx, ator, req.ProdutorID); err != nil {
		return nil, err
	}
	if _, err := s.produtores.ObterPorID(ctx, req.ProdutorID); err != nil {
		return nil, traduzirErro(err, "produtor", req.ProdutorID)
	}
	p := &model.Propriedade{ProdutorID: req.ProdutorID}
	aplicarPropriedade(p, req.Nome, req.Nirf, req.InscricaoEstadual, req.Municipio, req.Uf, req.AreaTotal, req.Culturas)
	if err := p.ValidarAreas(); err != nil {
		return nil, err
	}
	if err := s.nirfDisponivel(ctx, p.Nirf, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Criar(ctx, p); err != nil {
		return nil, traduzirErro(err, "propriedade", p.Nome)
	}
	return propriedadeToResponse(p), nil
}

func (s *propriedadeService) ObterPorID(ctx context.Context, ator Ator, id int) (*dto.PropriedadeResponse, error) {
	p, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	return propriedadeToResponse(p), nil
}

func (s *propriedadeService) ListarPorProdutor(ctx context.Context, ator Ator, produtorID int) ([]dto.PropriedadeResponse, error) {
	if err := s.vinculos.exigirProdutor(ctx, ator, produtorID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListarPorProdutor(ctx, produtorID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PropriedadeResponse, len(list))
	for i := range list {
		resp[i] = *propriedadeToResponse(&list[i])
	}
	return resp, nil
}

func (s *propriedadeService) Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarPropriedadeRequest) (*dto.PropriedadeResponse, error) {
	p, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	aplicarPropriedade(p, req.Nome, req.Nirf, req.InscricaoEstadual, req.Municipio, req.Uf, req.AreaTotal, req.Culturas)
	if err := p.ValidarAreas(); err != nil {
		return nil, err
	}
	if err := s.nirfDisponivel(ctx, p.Nirf, p.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Atualizar(ctx, p); err != nil {
		return nil, traduzirErro(err, "propriedade", id)
	}
	return propriedadeToResponse(p), nil
}

func (s *propriedadeService) Remover(ctx context.Context, ator Ator, id int) error {
	if _, err := s.carregar(ctx, ator, id); err != nil {
		return err
	}
	return s.repo.Remover(ctx, id)
}

// AreaTotalPorProdutor sums every property of the producer and lists their municipalities.
func (s *propriedadeService) AreaTotalPorProdutor(ctx context.Context, ator Ator, produtorID int) (*dto.AreaProdutorResponse, error) {
	if err := s.vinculos.exigirProdutor(ctx, ator, produtorID); err != nil {
		return nil, err
	}
	area, err := s.repo.AreaTotalPorProdutor(ctx, produtorID)
	if err != nil {
		return nil, err
	}
	municipios, err := s.repo.MunicipiosPorProdutor(ctx, produtorID)
	if err != nil {
		return nil, err
	}
	if municipios == nil {
		municipios = []string{}
	}
	return &dto.AreaProdutorResponse{ProdutorID: produtorID, AreaTotal: area, Municipios: municipios}, nil
}

func (s *propriedadeService) carregar(ctx context.Context, ator Ator, id int) (*model.Propriedade, error) {
	p, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "propriedade", id)
	}
	if err := s.vinculos.exigirProdutor(ctx, ator, p.ProdutorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propriedadeService) nirfDisponivel(ctx context.Context, nirf *string, exceto int) error {
	if nirf == nil {
		return nil
	}
	existente, err := s.repo.ObterPorNirf(ctx, *nirf)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existente.ID != exceto:
		return fmt.Errorf("%w: propriedade com NIRF %s", ErrConflito, *nirf)
	}
	return nil
}

func aplicarPropriedade(p *model.Propriedade, nome string, nirf, ie *string, municipio, uf string,
	area decimal.Decimal, culturas []dto.PropriedadeCulturaInput) {
	p.Nome = strings.TrimSpace(nome)
	p.Nirf = nil
	if nirf != nil {
		if v := strings.TrimSpace(*nirf); v != "" {
			p.Nirf = &v
		}
	}
	p.InscricaoEstadual = ie
	p.Municipio = strings.TrimSpace(municipio)
	p.Uf = strings.ToUpper(strings.TrimSpace(uf))
	p.AreaTotal = area
	p.Culturas = make([]model.PropriedadeCultura, 0, len(culturas))
	for _, c := range culturas {
		p.Culturas = append(p.Culturas, model.PropriedadeCultura{CulturaID: c.CulturaID, SafraID: c.SafraID, Area: c.Area})
	}
}

func propriedadeToResponse(p *model.Propriedade) *dto.PropriedadeResponse {
	resp := &dto.PropriedadeResponse{
		ID:                p.ID,
		ProdutorID:        p.ProdutorID,
		Nome:              p.Nome,
		Nirf:              p.Nirf,
		InscricaoEstadual: p.InscricaoEstadual,
		Municipio:         p.Municipio,
		Uf:                p.Uf,
		AreaTotal:         p.AreaTotal,
		Culturas:          make([]dto.PropriedadeCulturaResponse, len(p.Culturas)),
	}
	for i, c := range p.Culturas {
		resp.Culturas[i] = dto.PropriedadeCulturaResponse{CulturaID: c.CulturaID, SafraID: c.SafraID, Area: c.Area}
	}
	return resp
}
