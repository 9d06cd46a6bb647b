package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agriis/internal/config"
	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AutenticacaoService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type autenticacaoService struct {
	usuarios repository.UsuarioRepository
	tokens   repository.RefreshTokenRepository
	cfg      *config.Config
	relogio  func() time.Time
}

func NewAutenticacaoService(usuarios repository.UsuarioRepository, tokens repository.RefreshTokenRepository, cfg *config.Config) AutenticacaoService {
	return &autenticacaoService{usuarios: usuarios, tokens: tokens, cfg: cfg, relogio: agoraUTC}
}

func (s *autenticacaoService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.usuarios.ObterPorEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredenciaisInvalidas
		}
		return nil, err
	}
	if !user.Ativo {
		return nil, ErrCredenciaisInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	agora := s.relogio()
	if err := s.usuarios.RegistrarAcesso(ctx, user.ID, agora); err != nil {
		log.Warn().Err(err).Int("usuario_id", user.ID).Msg("falha ao registrar último acesso")
	} else {
		user.UltimoAcesso = &agora
	}
	return s.emitir(ctx, user, agora)
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token is revoked, so each refresh token works exactly once.
func (s *autenticacaoService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	agora := s.relogio()
	rt, err := s.tokens.ObterPorToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refresh token desconhecido", ErrCredenciaisInvalidas)
		}
		return nil, err
	}
	if !rt.Valido(agora) {
		return nil, fmt.Errorf("%w: refresh token expirado ou revogado", ErrCredenciaisInvalidas)
	}

	user, err := s.usuarios.ObterPorID(ctx, rt.UsuarioID)
	if err != nil || !user.Ativo {
		return nil, fmt.Errorf("%w: usuário inexistente ou inativo", ErrCredenciaisInvalidas)
	}
	n, err := s.tokens.Revogar(ctx, rt.ID, agora)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: refresh token já utilizado", ErrCredenciaisInvalidas)
	}
	return s.emitir(ctx, user, agora)
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *autenticacaoService) Logout(ctx context.Context, refreshToken string) error {
	rt, err := s.tokens.ObterPorToken(ctx, refreshToken)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.tokens.Revogar(ctx, rt.ID, s.relogio())
	return err
}

func (s *autenticacaoService) emitir(ctx context.Context, user *model.Usuario, agora time.Time) (*dto.LoginResponse, error) {
	validade := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	accessToken, err := s.gerarAccessToken(user, agora, validade)
	if err != nil {
		return nil, err
	}

	rt := &model.RefreshToken{
		Token:     novoTokenOpaco(),
		UsuarioID: user.ID,
		ExpiraEm:  agora.Add(time.Duration(s.cfg.JWTRefreshHours) * time.Hour),
	}
	if err := s.tokens.Criar(ctx, rt); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
		TokenType:    "bearer",
		ExpiresIn:    int(validade.Seconds()),
		Usuario:      *usuarioToResponse(user),
	}, nil
}

func (s *autenticacaoService) gerarAccessToken(user *model.Usuario, agora time.Time, validade time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"rol":     user.Rol,
		"exp":     agora.Add(validade).Unix(),
		"iat":     agora.Unix(),
		"jti":     uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// novoTokenOpaco returns 64 hex characters of randomness.
func novoTokenOpaco() string {
	a, b := uuid.New(), uuid.New()
	return strings.ReplaceAll(a.String()+b.String(), "-", "")
}
