package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

type CulturasHandler struct{ svc service.CulturaService }

func NewCulturasHandler(svc service.CulturaService) *CulturasHandler {
	return &CulturasHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar cultura
// @Tags         culturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarCulturaRequest true "Cultura"
// @Success      201  {object} dto.CulturaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/culturas [post]
func (h *CulturasHandler) Criar(c *gin.Context) {
	var req dto.CriarCulturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar culturas
// @Tags         culturas
// @Produce      json
// @Param        nome         query string false "Busca exata por nome"
// @Param        apenas_ativas query bool  false "Somente culturas ativas (padrão true)"
// @Success      200 {array} dto.CulturaResponse
// @Router       /v1/culturas [get]
func (h *CulturasHandler) Listar(c *gin.Context) {
	if nome := c.Query("nome"); nome != "" {
		resp, err := h.svc.ObterPorNome(c.Request.Context(), nome)
		if err != nil {
			responderErro(c, err)
			return
		}
		c.JSON(http.StatusOK, []dto.CulturaResponse{*resp})
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), queryBool(c, "apenas_ativas", true))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CulturasHandler) ObterPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CulturasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarCulturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CulturasHandler) Remover(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Remover(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
