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

type PagamentoService interface {
	CriarForma(ctx context.Context, req dto.CriarFormaPagamentoRequest) (*dto.FormaPagamentoResponse, error)
	ObterForma(ctx context.Context, id int) (*dto.FormaPagamentoResponse, error)
	ListarFormas(ctx context.Context, apenasAtivas bool) ([]dto.FormaPagamentoResponse, error)
	AtualizarForma(ctx context.Context, id int, req dto.AtualizarFormaPagamentoRequest) (*dto.FormaPagamentoResponse, error)
	RemoverForma(ctx context.Context, id int) error

	Associar(ctx context.Context, ator Ator, req dto.AssociarFormaPagamentoRequest) (*dto.CulturaFormaPagamentoResponse, error)
	ListarPorFornecedorCultura(ctx context.Context, fornecedorID, culturaID int) ([]dto.CulturaFormaPagamentoResponse, error)
	Desassociar(ctx context.Context, ator Ator, fornecedorID, id int) error
}

type pagamentoService struct {
	repo     repository.PagamentoRepository
	culturas repository.CulturaRepository
	vinculos vinculos
}

func NewPagamentoService(repo repository.PagamentoRepository, culturas repository.CulturaRepository, fornecedores repository.FornecedorRepository) PagamentoService {
	return &pagamentoService{repo: repo, culturas: culturas, vinculos: vinculos{fornecedores: fornecedores}}
}

func (s *pagamentoService) CriarForma(ctx context.Context, req dto.CriarFormaPagamentoRequest) (*dto.FormaPagamentoResponse, error) {
	descricao := strings.TrimSpace(req.Descricao)
	if err := s.descricaoDisponivel(ctx, descricao, 0); err != nil {
		return nil, err
	}
	f := &model.FormaPagamento{Descricao: descricao, Ativo: true}
	if err := s.repo.CriarForma(ctx, f); err != nil {
		return nil, traduzirErro(err, "forma de pagamento", descricao)
	}
	return formaToResponse(f), nil
}

func (s *pagamentoService) ObterForma(ctx context.Context, id int) (*dto.FormaPagamentoResponse, error) {
	f, err := s.repo.ObterForma(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "forma de pagamento", id)
	}
	return formaToResponse(f), nil
}

func (s *pagamentoService) ListarFormas(ctx context.Context, apenasAtivas bool) ([]dto.FormaPagamentoResponse, error) {
	list, err := s.repo.ListarFormas(ctx, apenasAtivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.FormaPagamentoResponse, len(list))
	for i := range list {
		resp[i] = *formaToResponse(&list[i])
	}
	return resp, nil
}

func (s *pagamentoService) AtualizarForma(ctx context.Context, id int, req dto.AtualizarFormaPagamentoRequest) (*dto.FormaPagamentoResponse, error) {
	f, err := s.repo.ObterForma(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "forma de pagamento", id)
	}
	if d := strings.TrimSpace(req.Descricao); d != "" && !strings.EqualFold(d, f.Descricao) {
		if err := s.descricaoDisponivel(ctx, d, id); err != nil {
			return nil, err
		}
		f.Descricao = d
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}
	if err := s.repo.AtualizarForma(ctx, f); err != nil {
		return nil, traduzirErro(err, "forma de pagamento", id)
	}
	return formaToResponse(f), nil
}

// RemoverForma deactivates the payment method.
func (s *pagamentoService) RemoverForma(ctx context.Context, id int) error {
	f, err := s.repo.ObterForma(ctx, id)
	if err != nil {
		return traduzirErro(err, "forma de pagamento", id)
	}
	f.Ativo = false
	return s.repo.AtualizarForma(ctx, f)
}

func (s *pagamentoService) Associar(ctx context.Context, ator Ator, req dto.AssociarFormaPagamentoRequest) (*dto.CulturaFormaPagamentoResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, req.FornecedorID); err != nil {
		return nil, err
	}
	forma, err := s.repo.ObterForma(ctx, req.FormaPagamentoID)
	if err != nil {
		return nil, traduzirErro(err, "forma de pagamento", req.FormaPagamentoID)
	}
	if !forma.Ativo {
		return nil, argInvalido("forma de pagamento %d inativa", forma.ID)
	}
	if _, err := s.culturas.ObterPorID(ctx, req.CulturaID); err != nil {
		return nil, traduzirErro(err, "cultura", req.CulturaID)
	}
	cf := &model.CulturaFormaPagamento{
		FornecedorID:     req.FornecedorID,
		CulturaID:        req.CulturaID,
		FormaPagamentoID: forma.ID,
		Ativo:            true,
	}
	if err := s.repo.CriarCulturaForma(ctx, cf); err != nil {
		return nil, traduzirErro(err, "forma de pagamento da cultura", req.CulturaID)
	}
	cf.FormaPagamento = *forma
	return culturaFormaToResponse(cf), nil
}

func (s *pagamentoService) ListarPorFornecedorCultura(ctx context.Context, fornecedorID, culturaID int) ([]dto.CulturaFormaPagamentoResponse, error) {
	list, err := s.repo.ListarPorFornecedorCultura(ctx, fornecedorID, culturaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CulturaFormaPagamentoResponse, len(list))
	for i := range list {
		resp[i] = *culturaFormaToResponse(&list[i])
	}
	return resp, nil
}

func (s *pagamentoService) Desassociar(ctx context.Context, ator Ator, fornecedorID, id int) error {
	if err := s.vinculos.exigirFornecedor(ctx, ator, fornecedorID); err != nil {
		return err
	}
	n, err := s.repo.RemoverCulturaForma(ctx, fornecedorID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: forma de pagamento da cultura %d", ErrNaoEncontrado, id)
	}
	return nil
}

func (s *pagamentoService) descricaoDisponivel(ctx context.Context, descricao string, exceto int) error {
	existente, err := s.repo.ObterFormaPorDescricao(ctx, descricao)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existente.ID != exceto:
		return fmt.Errorf("%w: forma de pagamento %q", ErrConflito, descricao)
	}
	return nil
}

func formaToResponse(f *model.FormaPagamento) *dto.FormaPagamentoResponse {
	return &dto.FormaPagamentoResponse{ID: f.ID, Descricao: f.Descricao, Ativo: f.Ativo}
}

func culturaFormaToResponse(cf *model.CulturaFormaPagamento) *dto.CulturaFormaPagamentoResponse {
	return &dto.CulturaFormaPagamentoResponse{
		ID:             cf.ID,
		FornecedorID:   cf.FornecedorID,
		CulturaID:      cf.CulturaID,
		FormaPagamento: *formaToResponse(&cf.FormaPagamento),
	}
}
