package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"gorm.io/gorm"
)

type SafraService interface {
	Criar(ctx context.Context, req dto.CriarSafraRequest) (*dto.SafraResponse, error)
	ObterPorID(ctx context.Context, id int) (*dto.SafraResponse, error)
	ObterAtual(ctx context.Context) (*dto.SafraResponse, error)
	Listar(ctx context.Context) ([]dto.SafraResponse, error)
	ListarPorAnoColheita(ctx context.Context, ano int) ([]dto.SafraResponse, error)
	Atualizar(ctx context.Context, id int, req dto.AtualizarSafraRequest) (*dto.SafraResponse, error)
	Remover(ctx context.Context, id int) error
}

type safraService struct {
	repo    repository.SafraRepository
	relogio func() time.Time
}

func NewSafraService(repo repository.SafraRepository) SafraService {
	return &safraService{repo: repo, relogio: agoraUTC}
}

func (s *safraService) Criar(ctx context.Context, req dto.CriarSafraRequest) (*dto.SafraResponse, error) {
	safra := &model.Safra{}
	if err := s.aplicar(ctx, safra, req); err != nil {
		return nil, err
	}
	if err := s.repo.Criar(ctx, safra); err != nil {
		return nil, traduzirErro(err, "safra", safra.Nome())
	}
	return s.toResponse(safra), nil
}

func (s *safraService) ObterPorID(ctx context.Context, id int) (*dto.SafraResponse, error) {
	safra, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "safra", id)
	}
	return s.toResponse(safra), nil
}

// ObterAtual returns the season whose planting window contains today.
func (s *safraService) ObterAtual(ctx context.Context) (*dto.SafraResponse, error) {
	safra, err := s.repo.ObterAtual(ctx, s.relogio())
	if err != nil {
		return nil, traduzirErro(err, "safra atual", "")
	}
	return s.toResponse(safra), nil
}

func (s *safraService) Listar(ctx context.Context) ([]dto.SafraResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(list), nil
}

func (s *safraService) ListarPorAnoColheita(ctx context.Context, ano int) ([]dto.SafraResponse, error) {
	list, err := s.repo.ListarPorAnoColheita(ctx, ano)
	if err != nil {
		return nil, err
	}
	return s.toResponses(list), nil
}

func (s *safraService) Atualizar(ctx context.Context, id int, req dto.AtualizarSafraRequest) (*dto.SafraResponse, error) {
	safra, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "safra", id)
	}
	if err := s.aplicar(ctx, safra, req); err != nil {
		return nil, err
	}
	if err := s.repo.Atualizar(ctx, safra); err != nil {
		return nil, traduzirErro(err, "safra", id)
	}
	return s.toResponse(safra), nil
}

func (s *safraService) Remover(ctx context.Context, id int) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		return traduzirErro(err, "safra", id)
	}
	return s.repo.Remover(ctx, id)
}

func (s *safraService) aplicar(ctx context.Context, safra *model.Safra, req dto.CriarSafraRequest) error {
	safra.PlantioInicial = req.PlantioInicial.UTC()
	safra.PlantioFinal = req.PlantioFinal.UTC()
	safra.PlantioNome = strings.TrimSpace(req.PlantioNome)
	safra.AnoColheita = req.AnoColheita
	safra.Descricao = strings.TrimSpace(req.Descricao)
	if err := safra.ValidarPeriodo(); err != nil {
		return err
	}

	existente, err := s.repo.ObterPorPeriodo(ctx, safra.PlantioNome, safra.AnoColheita)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existente.ID != safra.ID:
		return fmt.Errorf("%w: safra %s", ErrConflito, safra.Nome())
	}
	return nil
}

func (s *safraService) toResponse(safra *model.Safra) *dto.SafraResponse {
	return &dto.SafraResponse{
		ID:             safra.ID,
		Nome:           safra.Nome(),
		PlantioInicial: safra.PlantioInicial,
		PlantioFinal:   safra.PlantioFinal,
		PlantioNome:    safra.PlantioNome,
		Descricao:      safra.Descricao,
		AnoColheita:    safra.AnoColheita,
		Atual:          safra.Atual(s.relogio()),
	}
}

func (s *safraService) toResponses(list []model.Safra) []dto.SafraResponse {
	resp := make([]dto.SafraResponse, len(list))
	for i := range list {
		resp[i] = *s.toResponse(&list[i])
	}
	return resp
}
