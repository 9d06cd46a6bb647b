package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

type CombosHandler struct{ svc service.ComboService }

func NewCombosHandler(svc service.ComboService) *CombosHandler {
	return &CombosHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar combo
// @Description  Cria um pacote promocional do fornecedor para uma safra, com faixa de hectares, janela de validade e descontos por categoria.
// @Tags         combos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarComboRequest true "Combo"
// @Success      201  {object} dto.ComboResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Router       /v1/combos [post]
func (h *CombosHandler) Criar(c *gin.Context) {
	var req dto.CriarComboRequest
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

// Listar godoc
// @Summary      Listar combos
// @Tags         combos
// @Produce      json
// @Param        fornecedor_id query int    false "Filtra por fornecedor"
// @Param        safra_id      query int    false "Filtra por safra"
// @Param        status        query string false "Ativo, Inativo, Expirado ou Suspenso"
// @Success      200 {array} dto.ComboResponse
// @Router       /v1/combos [get]
func (h *CombosHandler) Listar(c *gin.Context) {
	var filtro repository.ComboFiltro
	var ok bool
	if filtro.FornecedorID, ok = queryIntPtr(c, "fornecedor_id"); !ok {
		return
	}
	if filtro.SafraID, ok = queryIntPtr(c, "safra_id"); !ok {
		return
	}
	if s := c.Query("status"); s != "" {
		status := model.StatusCombo(s)
		filtro.Status = &status
	}
	resp, err := h.svc.Listar(c.Request.Context(), filtro)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CombosHandler) ObterPorID(c *gin.Context) {
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

func (h *CombosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarComboRequest
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

func (h *CombosHandler) AlterarStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AlterarStatusComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AlterarStatus(c.Request.Context(), ator(c), id, req.Status)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CombosHandler) Remover(c *gin.Context) {
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

// ValidosParaProdutor godoc
// @Summary      Combos elegíveis para o produtor
// @Description  Combos ativos e vigentes cuja faixa de hectares comporta a área do produtor e cujas restrições de município ele atende.
// @Tags         combos
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID do produtor"
// @Success      200 {array} dto.ComboResponse
// @Router       /v1/produtores/{id}/combos [get]
func (h *CombosHandler) ValidosParaProdutor(c *gin.Context) {
	produtorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarValidosParaProdutor(c.Request.Context(), ator(c), produtorID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CombosHandler) CalcularDesconto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CalcularDescontoComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CalcularDesconto(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
