package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth     service.AutenticacaoService
	usuarios service.UsuarioService
}

func NewAuthHandler(auth service.AutenticacaoService, usuarios service.UsuarioService) *AuthHandler {
	return &AuthHandler{auth: auth, usuarios: usuarios}
}

// Login godoc
// @Summary      Iniciar sessão
// @Description  Autentica por e-mail e senha e devolve um access token JWT e um refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body     dto.LoginRequest true "Credenciais"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Failure      429  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Renovar sessão
// @Description  Troca um refresh token válido por um novo par de tokens. O token apresentado é revogado.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body     dto.RefreshRequest true "Refresh token"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Encerrar sessão
// @Tags         auth
// @Accept       json
// @Param        body body dto.LogoutRequest true "Refresh token"
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Usuário autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.UsuarioResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.usuarios.ObterPorID(c.Request.Context(), ator(c).UsuarioID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
