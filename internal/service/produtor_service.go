package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProdutorService interface {
	Criar(ctx context.Context, ator Ator, req dto.CriarProdutorRequest) (*dto.ProdutorResponse, error)
	ObterPorID(ctx context.Context, ator Ator, id int) (*dto.ProdutorResponse, error)
	ObterPorDocumento(ctx context.Context, documento string) (*dto.ProdutorResponse, error)
	Listar(ctx context.Context, status, busca string, pag repository.Paginacao) (*dto.ListaPaginada[dto.ProdutorResponse], error)
	ListarDoUsuario(ctx context.Context, ator Ator) ([]dto.ProdutorResponse, error)
	Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarProdutorRequest) (*dto.ProdutorResponse, error)
	Validar(ctx context.Context, id int, autorizado bool) (*dto.ProdutorResponse, error)
	VincularUsuario(ctx context.Context, ator Ator, produtorID int, req dto.VincularUsuarioProdutorRequest) error
	Remover(ctx context.Context, id int) error
}

type produtorService struct {
	repo     repository.ProdutorRepository
	usuarios repository.UsuarioRepository
	vinculos vinculos
}

func NewProdutorService(repo repository.ProdutorRepository, usuarios repository.UsuarioRepository, fornecedores repository.FornecedorRepository) ProdutorService {
	return &produtorService{
		repo:     repo,
		usuarios: usuarios,
		vinculos: vinculos{produtores: repo, fornecedores: fornecedores},
	}
}

// Criar registers a producer pending manual validation. When a producer user
// creates it, that user becomes its owner.
func (s *produtorService) Criar(ctx context.Context, ator Ator, req dto.CriarProdutorRequest) (*dto.ProdutorResponse, error) {
	p := &model.Produtor{
		Nome:              strings.TrimSpace(req.Nome),
		InscricaoEstadual: req.InscricaoEstadual,
		TipoAtividade:     req.TipoAtividade,
		AreaPlantio:       req.AreaPlantio,
		Status:            model.StatusProdutorPendenteValidacaoManual,
	}
	if err := p.DefinirDocumento(req.Cpf, req.Cnpj); err != nil {
		return nil, err
	}
	if p.AreaPlantio.IsNegative() {
		return nil, argInvalido("área de plantio não pode ser negativa")
	}

	_, err := s.repo.ObterPorDocumento(ctx, p.Documento())
	if err == nil {
		return nil, fmt.Errorf("%w: produtor com documento %s", ErrConflito, p.Documento())
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Criar(ctx, p); err != nil {
		return nil, traduzirErro(err, "produtor", p.Documento())
	}
	if len(req.CulturaIDs) > 0 {
		if err := s.repo.DefinirCulturas(ctx, p, req.CulturaIDs); err != nil {
			return nil, err
		}
	}
	if ator.Rol == model.RolProdutor {
		v := &model.UsuarioProdutor{UsuarioID: ator.UsuarioID, ProdutorID: p.ID, EhProprietario: true, Ativo: true}
		if err := s.repo.VincularUsuario(ctx, v); err != nil {
			return nil, err
		}
	}

	log.Info().Int("produtor_id", p.ID).Str("status", string(p.Status)).Msg("produtor cadastrado")
	return produtorToResponse(p), nil
}

func (s *produtorService) ObterPorID(ctx context.Context, ator Ator, id int) (*dto.ProdutorResponse, error) {
	if ator.Rol == model.RolProdutor {
		if err := s.vinculos.exigirProdutor(ctx, ator, id); err != nil {
			return nil, err
		}
	}
	p, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "produtor", id)
	}
	return produtorToResponse(p), nil
}

func (s *produtorService) ObterPorDocumento(ctx context.Context, documento string) (*dto.ProdutorResponse, error) {
	doc := model.SomenteDigitos(documento)
	p, err := s.repo.ObterPorDocumento(ctx, doc)
	if err != nil {
		return nil, traduzirErro(err, "produtor", doc)
	}
	return produtorToResponse(p), nil
}

func (s *produtorService) Listar(ctx context.Context, status, busca string, pag repository.Paginacao) (*dto.ListaPaginada[dto.ProdutorResponse], error) {
	filtro := repository.ProdutorFiltro{Busca: strings.TrimSpace(busca), Paginacao: pag.Normalizar()}
	if status != "" {
		st := model.StatusProdutor(status)
		filtro.Status = &st
	}
	list, total, err := s.repo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListaPaginada[dto.ProdutorResponse]{
		Itens:         make([]dto.ProdutorResponse, len(list)),
		Total:         total,
		Pagina:        filtro.Pagina,
		TamanhoPagina: filtro.TamanhoPagina,
	}
	for i := range list {
		resp.Itens[i] = *produtorToResponse(&list[i])
	}
	return resp, nil
}

func (s *produtorService) ListarDoUsuario(ctx context.Context, ator Ator) ([]dto.ProdutorResponse, error) {
	list, err := s.repo.ListarPorUsuario(ctx, ator.UsuarioID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProdutorResponse, len(list))
	for i := range list {
		resp[i] = *produtorToResponse(&list[i])
	}
	return resp, nil
}

func (s *produtorService) Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarProdutorRequest) (*dto.ProdutorResponse, error) {
	if err := s.vinculos.exigirProdutor(ctx, ator, id); err != nil {
		return nil, err
	}
	p, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "produtor", id)
	}
	if nome := strings.TrimSpace(req.Nome); nome != "" {
		p.Nome = nome
	}
	if req.InscricaoEstadual != nil {
		p.InscricaoEstadual = req.InscricaoEstadual
	}
	if req.TipoAtividade != nil {
		p.TipoAtividade = req.TipoAtividade
	}
	if req.AreaPlantio != nil {
		if req.AreaPlantio.IsNegative() {
			return nil, argInvalido("área de plantio não pode ser negativa")
		}
		p.AreaPlantio = *req.AreaPlantio
	}
	if err := s.repo.Atualizar(ctx, p); err != nil {
		return nil, err
	}
	if req.CulturaIDs != nil {
		if err := s.repo.DefinirCulturas(ctx, p, req.CulturaIDs); err != nil {
			return nil, err
		}
	}
	return produtorToResponse(p), nil
}

// Validar records the manual review outcome.
func (s *produtorService) Validar(ctx context.Context, id int, autorizado bool) (*dto.ProdutorResponse, error) {
	p, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "produtor", id)
	}
	if err := p.Validar(autorizado); err != nil {
		return nil, err
	}
	if err := s.repo.AtualizarStatus(ctx, id, p.Status); err != nil {
		return nil, err
	}
	log.Info().Int("produtor_id", id).Str("status", string(p.Status)).Msg("produtor validado")
	return produtorToResponse(p), nil
}

func (s *produtorService) VincularUsuario(ctx context.Context, ator Ator, produtorID int, req dto.VincularUsuarioProdutorRequest) error {
	if err := s.vinculos.exigirProdutor(ctx, ator, produtorID); err != nil {
		return err
	}
	if _, err := s.repo.ObterPorID(ctx, produtorID); err != nil {
		return traduzirErro(err, "produtor", produtorID)
	}
	u, err := s.usuarios.ObterPorID(ctx, req.UsuarioID)
	if err != nil {
		return traduzirErro(err, "usuário", req.UsuarioID)
	}
	if u.Rol != model.RolProdutor {
		return argInvalido("usuário %d não tem o perfil produtor", u.ID)
	}
	v := &model.UsuarioProdutor{UsuarioID: u.ID, ProdutorID: produtorID, EhProprietario: req.EhProprietario, Ativo: true}
	if err := s.repo.VincularUsuario(ctx, v); err != nil {
		return traduzirErro(err, "vínculo usuário/produtor", produtorID)
	}
	return nil
}

func (s *produtorService) Remover(ctx context.Context, id int) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		return traduzirErro(err, "produtor", id)
	}
	return s.repo.Remover(ctx, id)
}

func produtorToResponse(p *model.Produtor) *dto.ProdutorResponse {
	resp := &dto.ProdutorResponse{
		ID:                p.ID,
		Nome:              p.Nome,
		Cpf:               p.Cpf,
		Cnpj:              p.Cnpj,
		InscricaoEstadual: p.InscricaoEstadual,
		TipoAtividade:     p.TipoAtividade,
		AreaPlantio:       p.AreaPlantio,
		Status:            string(p.Status),
		Culturas:          make([]dto.CulturaResponse, 0, len(p.Culturas)),
		DataCriacao:       p.DataCriacao,
	}
	for i := range p.Culturas {
		resp.Culturas = append(resp.Culturas, *culturaToResponse(&p.Culturas[i]))
	}
	return resp
}
