package service

import (
	"context"
	"errors"
	"strings"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SegmentacaoService interface {
	Criar(ctx context.Context, ator Ator, req dto.CriarSegmentacaoRequest) (*dto.SegmentacaoResponse, error)
	ObterPorID(ctx context.Context, ator Ator, id int) (*dto.SegmentacaoResponse, error)
	ListarPorFornecedor(ctx context.Context, ator Ator, fornecedorID int) ([]dto.SegmentacaoResponse, error)
	Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarSegmentacaoRequest) (*dto.SegmentacaoResponse, error)
	Remover(ctx context.Context, ator Ator, id int) error
	ObterDesconto(ctx context.Context, fornecedorID int, area decimal.Decimal, categoria string) (*dto.DescontoSegmentacaoResponse, error)
}

type segmentacaoService struct {
	repo     repository.SegmentacaoRepository
	vinculos vinculos
}

func NewSegmentacaoService(repo repository.SegmentacaoRepository, fornecedores repository.FornecedorRepository) SegmentacaoService {
	return &segmentacaoService{repo: repo, vinculos: vinculos{fornecedores: fornecedores}}
}

// Criar stores a segmentation. When EhPadrao is set, any other default of the supplier is cleared.
func (s *segmentacaoService) Criar(ctx context.Context, ator Ator, req dto.CriarSegmentacaoRequest) (*dto.SegmentacaoResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, req.FornecedorID); err != nil {
		return nil, err
	}
	seg := &model.Segmentacao{
		FornecedorID: req.FornecedorID,
		Nome:         strings.TrimSpace(req.Nome),
		Descricao:    req.Descricao,
		EhPadrao:     req.EhPadrao,
		Ativo:        true,
		Grupos:       gruposFromInput(req.Grupos),
	}
	if err := seg.ValidarGrupos(); err != nil {
		return nil, err
	}
	if err := s.repo.Criar(ctx, seg); err != nil {
		return nil, err
	}
	return segmentacaoToResponse(seg), nil
}

func (s *segmentacaoService) ObterPorID(ctx context.Context, ator Ator, id int) (*dto.SegmentacaoResponse, error) {
	seg, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	return segmentacaoToResponse(seg), nil
}

func (s *segmentacaoService) ListarPorFornecedor(ctx context.Context, ator Ator, fornecedorID int) ([]dto.SegmentacaoResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, fornecedorID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListarPorFornecedor(ctx, fornecedorID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SegmentacaoResponse, len(list))
	for i := range list {
		resp[i] = *segmentacaoToResponse(&list[i])
	}
	return resp, nil
}

func (s *segmentacaoService) Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarSegmentacaoRequest) (*dto.SegmentacaoResponse, error) {
	seg, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	seg.Nome = strings.TrimSpace(req.Nome)
	seg.Descricao = req.Descricao
	seg.EhPadrao = req.EhPadrao
	if req.Ativo != nil {
		seg.Ativo = *req.Ativo
	}
	seg.Grupos = gruposFromInput(req.Grupos)
	if err := seg.ValidarGrupos(); err != nil {
		return nil, err
	}
	if err := s.repo.Atualizar(ctx, seg); err != nil {
		return nil, err
	}
	return segmentacaoToResponse(seg), nil
}

func (s *segmentacaoService) Remover(ctx context.Context, ator Ator, id int) error {
	if _, err := s.carregar(ctx, ator, id); err != nil {
		return err
	}
	return s.repo.Remover(ctx, id)
}

// ObterDesconto applies the supplier's default segmentation. Without one the discount is zero.
func (s *segmentacaoService) ObterDesconto(ctx context.Context, fornecedorID int, area decimal.Decimal, categoria string) (*dto.DescontoSegmentacaoResponse, error) {
	resp := &dto.DescontoSegmentacaoResponse{
		FornecedorID:       fornecedorID,
		Area:               area,
		Categoria:          categoria,
		PercentualDesconto: decimal.Zero,
	}
	seg, err := s.repo.ObterPadraoDoFornecedor(ctx, fornecedorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp.PercentualDesconto = seg.Desconto(area, categoria)
	return resp, nil
}

func (s *segmentacaoService) carregar(ctx context.Context, ator Ator, id int) (*model.Segmentacao, error) {
	seg, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "segmentação", id)
	}
	if err := s.vinculos.exigirFornecedor(ctx, ator, seg.FornecedorID); err != nil {
		return nil, err
	}
	return seg, nil
}

func gruposFromInput(in []dto.GrupoSegmentacaoInput) []model.GrupoSegmentacao {
	grupos := make([]model.GrupoSegmentacao, 0, len(in))
	for _, g := range in {
		grupo := model.GrupoSegmentacao{
			Nome:       strings.TrimSpace(g.Nome),
			AreaMinima: g.AreaMinima,
			AreaMaxima: g.AreaMaxima,
			Ativo:      true,
		}
		for _, r := range g.Regras {
			grupo.Regras = append(grupo.Regras, model.RegraDescontoSegmentacao{
				Categoria:          strings.TrimSpace(r.Categoria),
				PercentualDesconto: r.PercentualDesconto,
			})
		}
		grupos = append(grupos, grupo)
	}
	return grupos
}

func segmentacaoToResponse(seg *model.Segmentacao) *dto.SegmentacaoResponse {
	resp := &dto.SegmentacaoResponse{
		ID:           seg.ID,
		FornecedorID: seg.FornecedorID,
		Nome:         seg.Nome,
		Descricao:    seg.Descricao,
		EhPadrao:     seg.EhPadrao,
		Ativo:        seg.Ativo,
		Grupos:       make([]dto.GrupoSegmentacaoResponse, len(seg.Grupos)),
	}
	for i, g := range seg.Grupos {
		gr := dto.GrupoSegmentacaoResponse{
			ID:         g.ID,
			Nome:       g.Nome,
			AreaMinima: g.AreaMinima,
			AreaMaxima: g.AreaMaxima,
			Regras:     make([]dto.RegraDescontoResponse, len(g.Regras)),
		}
		for j, r := range g.Regras {
			gr.Regras[j] = dto.RegraDescontoResponse{Categoria: r.Categoria, PercentualDesconto: r.PercentualDesconto}
		}
		resp.Grupos[i] = gr
	}
	return resp
}
