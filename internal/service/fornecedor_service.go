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

type FornecedorService interface {
	Criar(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error)
	ObterPorID(ctx context.Context, id int) (*dto.FornecedorResponse, error)
	ObterPorCnpj(ctx context.Context, cnpj string) (*dto.FornecedorResponse, error)
	Listar(ctx context.Context, apenasAtivos bool) ([]dto.FornecedorResponse, error)
	ListarDoUsuario(ctx context.Context, ator Ator) ([]dto.FornecedorResponse, error)
	Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarFornecedorRequest) (*dto.FornecedorResponse, error)
	Desativar(ctx context.Context, id int) error
	VincularUsuario(ctx context.Context, ator Ator, fornecedorID int, req dto.VincularUsuarioFornecedorRequest) error
}

type fornecedorService struct {
	repo     repository.FornecedorRepository
	usuarios repository.UsuarioRepository
	vinculos vinculos
}

func NewFornecedorService(repo repository.FornecedorRepository, usuarios repository.UsuarioRepository) FornecedorService {
	return &fornecedorService{repo: repo, usuarios: usuarios, vinculos: vinculos{fornecedores: repo}}
}

func (s *fornecedorService) Criar(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error) {
	cnpj := model.SomenteDigitos(req.Cnpj)
	if !model.CnpjValido(cnpj) {
		return nil, argInvalido("CNPJ inválido")
	}
	_, err := s.repo.ObterPorCnpj(ctx, cnpj)
	if err == nil {
		return nil, fmt.Errorf("%w: fornecedor com CNPJ %s", ErrConflito, cnpj)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	moeda := strings.ToUpper(req.MoedaPadrao)
	if moeda == "" {
		moeda = "BRL"
	}
	if req.PedidoMinimo.IsNegative() {
		return nil, argInvalido("pedido mínimo não pode ser negativo")
	}
	f := &model.Fornecedor{
		Nome:              strings.TrimSpace(req.Nome),
		Cnpj:              cnpj,
		InscricaoEstadual: req.InscricaoEstadual,
		Endereco:          req.Endereco,
		Municipio:         req.Municipio,
		Uf:                upperPtr(req.Uf),
		Telefone:          req.Telefone,
		Email:             req.Email,
		MoedaPadrao:       moeda,
		PedidoMinimo:      req.PedidoMinimo,
		Ativo:             true,
	}
	if err := s.repo.Criar(ctx, f); err != nil {
		return nil, traduzirErro(err, "fornecedor", cnpj)
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) ObterPorID(ctx context.Context, id int) (*dto.FornecedorResponse, error) {
	f, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "fornecedor", id)
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) ObterPorCnpj(ctx context.Context, cnpj string) (*dto.FornecedorResponse, error) {
	doc := model.SomenteDigitos(cnpj)
	f, err := s.repo.ObterPorCnpj(ctx, doc)
	if err != nil {
		return nil, traduzirErro(err, "fornecedor", doc)
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) Listar(ctx context.Context, apenasAtivos bool) ([]dto.FornecedorResponse, error) {
	list, err := s.repo.Listar(ctx, apenasAtivos)
	if err != nil {
		return nil, err
	}
	return fornecedoresToResponse(list), nil
}

func (s *fornecedorService) ListarDoUsuario(ctx context.Context, ator Ator) ([]dto.FornecedorResponse, error) {
	list, err := s.repo.ListarPorUsuario(ctx, ator.UsuarioID)
	if err != nil {
		return nil, err
	}
	return fornecedoresToResponse(list), nil
}

func (s *fornecedorService) Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarFornecedorRequest) (*dto.FornecedorResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, id); err != nil {
		return nil, err
	}
	f, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "fornecedor", id)
	}
	if nome := strings.TrimSpace(req.Nome); nome != "" {
		f.Nome = nome
	}
	if req.InscricaoEstadual != nil {
		f.InscricaoEstadual = req.InscricaoEstadual
	}
	if req.Endereco != nil {
		f.Endereco = req.Endereco
	}
	if req.Municipio != nil {
		f.Municipio = req.Municipio
	}
	if req.Uf != nil {
		f.Uf = upperPtr(req.Uf)
	}
	if req.Telefone != nil {
		f.Telefone = req.Telefone
	}
	if req.Email != nil {
		f.Email = req.Email
	}
	if req.MoedaPadrao != "" {
		f.MoedaPadrao = strings.ToUpper(req.MoedaPadrao)
	}
	if req.PedidoMinimo != nil {
		if req.PedidoMinimo.IsNegative() {
			return nil, argInvalido("pedido mínimo não pode ser negativo")
		}
		f.PedidoMinimo = *req.PedidoMinimo
	}
	if err := s.repo.Atualizar(ctx, f); err != nil {
		return nil, err
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) Desativar(ctx context.Context, id int) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		return traduzirErro(err, "fornecedor", id)
	}
	return s.repo.Desativar(ctx, id)
}

func (s *fornecedorService) VincularUsuario(ctx context.Context, ator Ator, fornecedorID int, req dto.VincularUsuarioFornecedorRequest) error {
	if !ator.Administrador() {
		v, err := s.vinculos.doFornecedor(ctx, ator, fornecedorID)
		if err != nil {
			return err
		}
		if v.Role != model.RoleFornecedorAdmin {
			return fmt.Errorf("%w: apenas administradores do fornecedor vinculam usuários", ErrProibido)
		}
	}
	if _, err := s.repo.ObterPorID(ctx, fornecedorID); err != nil {
		return traduzirErro(err, "fornecedor", fornecedorID)
	}
	u, err := s.usuarios.ObterPorID(ctx, req.UsuarioID)
	if err != nil {
		return traduzirErro(err, "usuário", req.UsuarioID)
	}
	if u.Rol != model.RolFornecedor {
		return argInvalido("usuário %d não tem o perfil fornecedor", u.ID)
	}
	v := &model.UsuarioFornecedor{UsuarioID: u.ID, FornecedorID: fornecedorID, Role: req.Role, Ativo: true}
	if err := s.repo.VincularUsuario(ctx, v); err != nil {
		return traduzirErro(err, "vínculo usuário/fornecedor", fornecedorID)
	}
	return nil
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	return &v
}

func fornecedorToResponse(f *model.Fornecedor) *dto.FornecedorResponse {
	return &dto.FornecedorResponse{
		ID:                f.ID,
		Nome:              f.Nome,
		Cnpj:              f.Cnpj,
		InscricaoEstadual: f.InscricaoEstadual,
		Endereco:          f.Endereco,
		Municipio:         f.Municipio,
		Uf:                f.Uf,
		Telefone:          f.Telefone,
		Email:             f.Email,
		MoedaPadrao:       f.MoedaPadrao,
		PedidoMinimo:      f.PedidoMinimo,
		Ativo:             f.Ativo,
	}
}

func fornecedoresToResponse(list []model.Fornecedor) []dto.FornecedorResponse {
	resp := make([]dto.FornecedorResponse, len(list))
	for i := range list {
		resp[i] = *fornecedorToResponse(&list[i])
	}
	return resp
}
