package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

type SafrasHandler struct{ svc service.SafraService }

func NewSafrasHandler(svc service.SafraService) *SafrasHandler {
	return &SafrasHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar safra
// @Tags         safras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarSafraRequest true "Safra"
// @Success      201  {object} dto.SafraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/safras [post]
func (h *SafrasHandler) Criar(c *gin.Context) {
	var req dto.CriarSafraRequest
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

func (h *SafrasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atual godoc
// @Summary      Safra vigente
// @Description  Devolve a safra cujo período de plantio contém a data atual.
// @Tags         safras
// @Produce      json
// @Success      200 {object} dto.SafraResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/safras/atual [get]
func (h *SafrasHandler) Atual(c *gin.Context) {
	resp, err := h.svc.ObterAtual(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SafrasHandler) PorAnoColheita(c *gin.Context) {
	ano, ok := paramID(c, "ano")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorAnoColheita(c.Request.Context(), ano)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SafrasHandler) ObterPorID(c *gin.Context) {
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

func (h *SafrasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarSafraRequest
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

func (h *SafrasHandler) Remover(c *gin.Context) {
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
