package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogosHandler serves supplier products, price catalogs and their items.
type CatalogosHandler struct{ svc service.CatalogoService }

func NewCatalogosHandler(svc service.CatalogoService) *CatalogosHandler {
	return &CatalogosHandler{svc: svc}
}

// ─── Produtos ────────────────────────────────────────────────────────────────

// CriarProduto godoc
// @Summary      Cadastrar produto
// @Tags         produtos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarProdutoRequest true "Produto"
// @Success      201  {object} dto.ProdutoResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/produtos [post]
func (h *CatalogosHandler) CriarProduto(c *gin.Context) {
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarProduto(c.Request.Context(), ator(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogosHandler) ObterProduto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterProduto(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) ProdutosPorFornecedor(c *gin.Context) {
	fornecedorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarProdutosPorFornecedor(c.Request.Context(), fornecedorID, queryBool(c, "apenas_ativos", true))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) AtualizarProduto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarProduto(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ─── Catálogos ───────────────────────────────────────────────────────────────

func (h *CatalogosHandler) Criar(c *gin.Context) {
	var req dto.CriarCatalogoRequest
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

func (h *CatalogosHandler) ObterPorID(c *gin.Context) {
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

func (h *CatalogosHandler) Listar(c *gin.Context) {
	fornecedorID, ok := queryIntPtr(c, "fornecedor_id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), fornecedorID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vigentes godoc
// @Summary      Catálogos vigentes do fornecedor
// @Description  Catálogos ativos cujo período de vigência contém a data atual.
// @Tags         catalogos
// @Produce      json
// @Param        id path int true "ID do fornecedor"
// @Success      200 {array} dto.CatalogoResponse
// @Router       /v1/fornecedores/{id}/catalogos/vigentes [get]
func (h *CatalogosHandler) Vigentes(c *gin.Context) {
	fornecedorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarVigentes(c.Request.Context(), fornecedorID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarCatalogoRequest
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

func (h *CatalogosHandler) Remover(c *gin.Context) {
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

// AdicionarItem godoc
// @Summary      Definir preço de produto no catálogo
// @Description  Inclui o produto no catálogo ou atualiza seu preço base.
// @Tags         catalogos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                     true "ID do catálogo"
// @Param        body body     dto.CatalogoItemRequest true "Item"
// @Success      200  {object} dto.CatalogoResponse
// @Router       /v1/catalogos/{id}/itens [put]
func (h *CatalogosHandler) AdicionarItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CatalogoItemRequest
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

func (h *CatalogosHandler) RemoverItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	produtoID, ok := paramID(c, "produto_id")
	if !ok {
		return
	}
	if err := h.svc.RemoverItem(c.Request.Context(), ator(c), id, produtoID); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogosHandler) Preco(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	produtoID, ok := paramID(c, "produto_id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPreco(c.Request.Context(), id, produtoID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
