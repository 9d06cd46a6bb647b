package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

// PedidosHandler serves orders, their cart items and the negotiation log.
type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Criar godoc
// @Summary      Abrir pedido
// @Description  Abre um pedido em negociação entre produtor e fornecedor. O prazo limite de interação é contado a partir da criação; quando aberto pelo produtor, a proposta inicial é registrada.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarPedidoRequest true "Pedido"
// @Success      201  {object} dto.PedidoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Criar(c *gin.Context) {
	var req dto.CriarPedidoRequest
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
// @Summary      Listar pedidos
// @Description  Sem filtros explícitos, lista os pedidos do primeiro produtor (ou fornecedor) vinculado ao usuário.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        produtor_id    query int    false "Filtra por produtor"
// @Param        fornecedor_id  query int    false "Filtra por fornecedor"
// @Param        status         query string false "Status do pedido"
// @Param        desde          query string false "Criados a partir de (AAAA-MM-DD)"
// @Param        ate            query string false "Criados até (AAAA-MM-DD)"
// @Param        pagina         query int    false "Página"
// @Param        tamanho_pagina query int    false "Itens por página"
// @Success      200 {object} dto.ListaPaginada[dto.PedidoResponse]
// @Router       /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var q dto.ListarPedidosQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), ator(c), q)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) ObterPorID(c *gin.Context) {
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

// ─── Carrinho ────────────────────────────────────────────────────────────────

func (h *PedidosHandler) AdicionarItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AdicionarItemPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) AtualizarItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	var req dto.AtualizarItemPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarItem(c.Request.Context(), ator(c), id, itemID, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) RemoverItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoverItem(c.Request.Context(), ator(c), id, itemID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgendarTransporte godoc
// @Summary      Agendar transporte de item
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path     int                          true "ID do pedido"
// @Param        item_id path     int                          true "ID do item"
// @Param        body    body     dto.AgendarTransporteRequest true "Transporte"
// @Success      201     {object} dto.PedidoItemResponse
// @Failure      409     {object} apierror.APIError
// @Router       /v1/pedidos/{id}/itens/{item_id}/transportes [post]
func (h *PedidosHandler) AgendarTransporte(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	var req dto.AgendarTransporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgendarTransporte(c.Request.Context(), ator(c), id, itemID, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ─── Propostas ───────────────────────────────────────────────────────────────

// PropostaProdutor godoc
// @Summary      Proposta do produtor
// @Description  Registra uma ação do comprador (Iniciou, Aceitou, AlterouCarrinho ou Cancelou). Aceitou fecha o pedido; Cancelou o cancela. O prazo limite é renovado a cada interação.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                         true "ID do pedido"
// @Param        body body     dto.PropostaProdutorRequest true "Proposta"
// @Success      200  {object} dto.PedidoResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Pedido fora de negociação"
// @Router       /v1/pedidos/{id}/propostas/produtor [post]
func (h *PedidosHandler) PropostaProdutor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.PropostaProdutorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPropostaProdutor(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PropostaFornecedor godoc
// @Summary      Proposta do fornecedor
// @Description  Registra uma contraproposta do fornecedor (sempre AlterouCarrinho) e renova o prazo limite.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                           true "ID do pedido"
// @Param        body body     dto.PropostaFornecedorRequest true "Proposta"
// @Success      200  {object} dto.PedidoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/propostas/fornecedor [post]
func (h *PedidosHandler) PropostaFornecedor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.PropostaFornecedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPropostaFornecedor(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) ListarPropostas(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPropostas(c.Request.Context(), ator(c), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
