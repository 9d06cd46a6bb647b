package handler

import (
	"net/http"

	"agriis/internal/apierror"
	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SegmentacoesHandler struct{ svc service.SegmentacaoService }

func NewSegmentacoesHandler(svc service.SegmentacaoService) *SegmentacoesHandler {
	return &SegmentacoesHandler{svc: svc}
}

// Criar godoc
// @Summary      Criar segmentação
// @Description  Cria uma segmentação de clientes por faixa de área com descontos por categoria de produto.
// @Tags         segmentacoes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarSegmentacaoRequest true "Segmentação"
// @Success      201  {object} dto.SegmentacaoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Router       /v1/segmentacoes [post]
func (h *SegmentacoesHandler) Criar(c *gin.Context) {
	var req dto.CriarSegmentacaoRequest
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

func (h *SegmentacoesHandler) ObterPorID(c *gin.Context) {
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

func (h *SegmentacoesHandler) PorFornecedor(c *gin.Context) {
	fornecedorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorFornecedor(c.Request.Context(), ator(c), fornecedorID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SegmentacoesHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarSegmentacaoRequest
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

func (h *SegmentacoesHandler) Remover(c *gin.Context) {
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

// Desconto godoc
// @Summary      Desconto por segmentação
// @Description  Resolve o percentual de desconto do fornecedor para uma área e categoria de produto.
// @Tags         segmentacoes
// @Produce      json
// @Param        id        path  int    true "ID do fornecedor"
// @Param        area      query number true "Área em hectares"
// @Param        categoria query string true "Categoria do produto"
// @Success      200 {object} dto.DescontoSegmentacaoResponse
// @Router       /v1/fornecedores/{id}/desconto-segmentacao [get]
func (h *SegmentacoesHandler) Desconto(c *gin.Context) {
	fornecedorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	area, err := decimal.NewFromString(c.Query("area"))
	if err != nil || area.IsNegative() {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetro inválido: area"))
		return
	}
	categoria := c.Query("categoria")
	if categoria == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetro obrigatório: categoria"))
		return
	}
	resp, err := h.svc.ObterDesconto(c.Request.Context(), fornecedorID, area, categoria)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
