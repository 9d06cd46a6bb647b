package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

// PagamentosHandler serves payment methods and their per-supplier, per-crop associations.
type PagamentosHandler struct{ svc service.PagamentoService }

func NewPagamentosHandler(svc service.PagamentoService) *PagamentosHandler {
	return &PagamentosHandler{svc: svc}
}

func (h *PagamentosHandler) CriarForma(c *gin.Context) {
	var req dto.CriarFormaPagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarForma(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PagamentosHandler) ListarFormas(c *gin.Context) {
	resp, err := h.svc.ListarFormas(c.Request.Context(), queryBool(c, "apenas_ativas", true))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagamentosHandler) ObterForma(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterForma(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagamentosHandler) AtualizarForma(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarFormaPagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarForma(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagamentosHandler) RemoverForma(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RemoverForma(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Associar godoc
// @Summary      Associar forma de pagamento
// @Description  Habilita uma forma de pagamento para uma cultura de um fornecedor.
// @Tags         pagamentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.AssociarFormaPagamentoRequest true "Associação"
// @Success      201  {object} dto.CulturaFormaPagamentoResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/formas-pagamento/associacoes [post]
func (h *PagamentosHandler) Associar(c *gin.Context) {
	var req dto.AssociarFormaPagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Associar(c.Request.Context(), ator(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PorFornecedorCultura godoc
// @Summary      Formas de pagamento por fornecedor e cultura
// @Tags         pagamentos
// @Produce      json
// @Param        id         path int true "ID do fornecedor"
// @Param        cultura_id path int true "ID da cultura"
// @Success      200 {array} dto.CulturaFormaPagamentoResponse
// @Router       /v1/fornecedores/{id}/culturas/{cultura_id}/formas-pagamento [get]
func (h *PagamentosHandler) PorFornecedorCultura(c *gin.Context) {
	fornecedorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	culturaID, ok := paramID(c, "cultura_id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorFornecedorCultura(c.Request.Context(), fornecedorID, culturaID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagamentosHandler) Desassociar(c *gin.Context) {
	fornecedorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	assocID, ok := paramID(c, "assoc_id")
	if !ok {
		return
	}
	if err := h.svc.Desassociar(c.Request.Context(), ator(c), fornecedorID, assocID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
