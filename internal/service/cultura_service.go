package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"gorm.io/gorm"
)

type CulturaService interface {
	Criar(ctx context.Context, req dto.CriarCulturaRequest) (*dto.CulturaResponse, error)
	ObterPorID(ctx context.Context, id int) (*dto.CulturaResponse, error)
	ObterPorNome(ctx context.Context, nome string) (*dto.CulturaResponse, error)
	Listar(ctx context.Context, apenasAtivas bool) ([]dto.CulturaResponse, error)
	Atualizar(ctx context.Context, id int, req dto.AtualizarCulturaRequest) (*dto.CulturaResponse, error)
	Remover(ctx context.Context, id int) error
}

type culturaService struct {
	repo repository.CulturaRepository
}

func NewCulturaService(repo repository.CulturaRepository) CulturaService {
	return &culturaService{repo: repo}
}

func (s *culturaService) Criar(ctx context.Context, req dto.CriarCulturaRequest) (*dto.CulturaResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	if err := s.nomeDisponivel(ctx, nome, 0); err != nil {
		return nil, err
	}
	c := &model.Cultura{Nome: nome, Descricao: req.Descricao, Ativo: true}
	if err := s.repo.Criar(ctx, c); err != nil {
		return nil, traduzirErro(err, "cultura", nome)
	}
	return culturaToResponse(c), nil
}

func (s *culturaService) ObterPorID(ctx context.Context, id int) (*dto.CulturaResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "cultura", id)
	}
	return culturaToResponse(c), nil
}

func (s *culturaService) ObterPorNome(ctx context.Context, nome string) (*dto.CulturaResponse, error) {
	c, err := s.repo.ObterPorNome(ctx, strings.TrimSpace(nome))
	if err != nil {
		return nil, traduzirErro(err, "cultura", nome)
	}
	return culturaToResponse(c), nil
}

func (s *culturaService) Listar(ctx context.Context, apenasAtivas bool) ([]dto.CulturaResponse, error) {
	list, err := s.repo.Listar(ctx, apenasAtivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CulturaResponse, len(list))
	for i := range list {
		resp[i] = *culturaToResponse(&list[i])
	}
	return resp, nil
}

func (s *culturaService) Atualizar(ctx context.Context, id int, req dto.AtualizarCulturaRequest) (*dto.CulturaResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "cultura", id)
	}
	if nome := strings.TrimSpace(req.Nome); nome != "" && !strings.EqualFold(nome, c.Nome) {
		if err := s.nomeDisponivel(ctx, nome, id); err != nil {
			return nil, err
		}
		c.Nome = nome
	}
	if req.Descricao != nil {
		c.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}
	if err := s.repo.Atualizar(ctx, c); err != nil {
		return nil, traduzirErro(err, "cultura", id)
	}
	return culturaToResponse(c), nil
}

// Remover deactivates the crop; producers and properties keep referencing it.
func (s *culturaService) Remover(ctx context.Context, id int) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		return traduzirErro(err, "cultura", id)
	}
	return s.repo.Desativar(ctx, id)
}

func (s *culturaService) nomeDisponivel(ctx context.Context, nome string, exceto int) error {
	existente, err := s.repo.ObterPorNome(ctx, nome)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existente.ID != exceto:
		return fmt.Errorf("%w: cultura %q", ErrConflito, nome)
	}
	return nil
}

func culturaToResponse(c *model.Cultura) *dto.CulturaResponse {
	return &dto.CulturaResponse{ID: c.ID, Nome: c.Nome, Descricao: c.Descricao, Ativo: c.Ativo}
}
