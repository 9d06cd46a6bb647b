package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

type PropriedadesHandler struct{ svc service.PropriedadeService }

func NewPropriedadesHandler(svc service.PropriedadeService) *PropriedadesHandler {
	return &PropriedadesHandler{svc: svc}
}

func (h *PropriedadesHandler) Criar(c *gin.Context) {
	var req dto.CriarPropriedadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), ator(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PropriedadesHandler) ObterPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), ator(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PropriedadesHandler) PorProdutor(c *gin.Context) {
	produtorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorProdutor(c.Request.Context(), ator(c), produtorID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Area godoc
// @Summary      Área total do produtor
// @Description  Soma a área de todas as propriedades e lista os municípios onde o produtor possui terras.
// @Tags         propriedades
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID do produtor"
// @Success      200 {object} dto.AreaProdutorResponse
// @Router       /v1/produtores/{id}/area [get]
func (h *PropriedadesHandler) Area(c *gin.Context) {
	produtorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AreaTotalPorProdutor(c.Request.Context(), ator(c), produtorID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PropriedadesHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarPropriedadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PropriedadesHandler) Remover(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Remover(c.Request.Context(), ator(c), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
