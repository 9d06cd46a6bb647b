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

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const custoBcryptPadrao = 12

type UsuarioService interface {
	Criar(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	ObterPorID(ctx context.Context, id int) (*dto.UsuarioResponse, error)
	Listar(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error)
	Atualizar(ctx context.Context, id int, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	AlterarSenha(ctx context.Context, ator Ator, id int, req dto.AlterarSenhaRequest) error
	Desativar(ctx context.Context, id int) error
	Reativar(ctx context.Context, id int) error
}

type usuarioService struct {
	repo        repository.UsuarioRepository
	tokens      repository.RefreshTokenRepository
	custoBcrypt int
	relogio     func() time.Time
}

func NewUsuarioService(repo repository.UsuarioRepository, tokens repository.RefreshTokenRepository) UsuarioService {
	return &usuarioService{repo: repo, tokens: tokens, custoBcrypt: custoBcryptPadrao, relogio: agoraUTC}
}

func (s *usuarioService) Criar(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	_, err := s.repo.ObterPorEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: usuário com e-mail %s", ErrConflito, email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), s.custoBcrypt)
	if err != nil {
		return nil, err
	}
	u := &model.Usuario{
		Nome:      strings.TrimSpace(req.Nome),
		Email:     email,
		Celular:   req.Celular,
		SenhaHash: string(hash),
		Rol:       req.Rol,
		Ativo:     true,
	}
	if req.Cpf != nil {
		cpf := model.SomenteDigitos(*req.Cpf)
		if !model.CpfValido(cpf) {
			return nil, argInvalido("CPF inválido")
		}
		u.Cpf = &cpf
	}
	if err := s.repo.Criar(ctx, u); err != nil {
		return nil, traduzirErro(err, "usuário", email)
	}
	return usuarioToResponse(u), nil
}

func (s *usuarioService) ObterPorID(ctx context.Context, id int) (*dto.UsuarioResponse, error) {
	u, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "usuário", id)
	}
	return usuarioToResponse(u), nil
}

func (s *usuarioService) Listar(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.Listar(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = *usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *usuarioService) Atualizar(ctx context.Context, id int, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "usuário", id)
	}
	if req.Nome != "" {
		u.Nome = strings.TrimSpace(req.Nome)
	}
	if req.Celular != nil {
		u.Celular = req.Celular
	}
	if req.Rol != "" {
		u.Rol = req.Rol
	}
	if err := s.repo.Atualizar(ctx, u); err != nil {
		return nil, err
	}
	return usuarioToResponse(u), nil
}

// AlterarSenha changes the password. Users changing their own password must
// confirm the current one; administrators may reset anyone else's.
// Every refresh token of the user is revoked.
func (s *usuarioService) AlterarSenha(ctx context.Context, ator Ator, id int, req dto.AlterarSenhaRequest) error {
	proprio := ator.UsuarioID == id
	if !proprio && !ator.Administrador() {
		return fmt.Errorf("%w: alterar a senha de outro usuário", ErrProibido)
	}
	u, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return traduzirErro(err, "usuário", id)
	}
	if proprio {
		if err := bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(req.SenhaAtual)); err != nil {
			return ErrCredenciaisInvalidas
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), s.custoBcrypt)
	if err != nil {
		return err
	}
	u.SenhaHash = string(hash)
	if err := s.repo.Atualizar(ctx, u); err != nil {
		return err
	}
	return s.tokens.RevogarTodosDoUsuario(ctx, id, s.relogio())
}

func (s *usuarioService) Desativar(ctx context.Context, id int) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		return traduzirErro(err, "usuário", id)
	}
	if err := s.repo.AlterarAtivo(ctx, id, false); err != nil {
		return err
	}
	return s.tokens.RevogarTodosDoUsuario(ctx, id, s.relogio())
}

func (s *usuarioService) Reativar(ctx context.Context, id int) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		return traduzirErro(err, "usuário", id)
	}
	return s.repo.AlterarAtivo(ctx, id, true)
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:           u.ID,
		Nome:         u.Nome,
		Email:        u.Email,
		Celular:      u.Celular,
		Rol:          u.Rol,
		Ativo:        u.Ativo,
		UltimoAcesso: u.UltimoAcesso,
	}
}
