package handler

import (
	"net/http"

	"agriis/internal/dto"
	"agriis/internal/repository"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutoresHandler struct{ svc service.ProdutorService }

func NewProdutoresHandler(svc service.ProdutorService) *ProdutoresHandler {
	return &ProdutoresHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar produtor
// @Description  Cadastra um produtor rural (CPF ou CNPJ). O produtor nasce pendente de validação manual; um usuário produtor é vinculado automaticamente como proprietário.
// @Tags         produtores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CriarProdutorRequest true "Produtor"
// @Success      201  {object} dto.ProdutorResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/produtores [post]
func (h *ProdutoresHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutorRequest
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
// @Summary      Listar produtores
// @Tags         produtores
// @Produce      json
// @Security     BearerAuth
// @Param        status         query string false "Status de validação"
// @Param        busca          query string false "Nome, CPF ou CNPJ"
// @Param        pagina         query int    false "Página (1-based)"
// @Param        tamanho_pagina query int    false "Itens por página"
// @Success      200 {object} dto.ListaPaginada[dto.ProdutorResponse]
// @Router       /v1/produtores [get]
func (h *ProdutoresHandler) Listar(c *gin.Context) {
	var q struct {
		Status        string `form:"status"`
		Busca         string `form:"busca"`
		Pagina        int    `form:"pagina"`
		TamanhoPagina int    `form:"tamanho_pagina"`
	}
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), q.Status, q.Busca,
		repository.Paginacao{Pagina: q.Pagina, TamanhoPagina: q.TamanhoPagina})
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) Meus(c *gin.Context) {
	resp, err := h.svc.ListarDoUsuario(c.Request.Context(), ator(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) ObterPorID(c *gin.Context) {
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

// PorDocumento accepts a CPF or CNPJ with or without punctuation.
func (h *ProdutoresHandler) PorDocumento(c *gin.Context) {
	resp, err := h.svc.ObterPorDocumento(c.Request.Context(), c.Param("documento"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarProdutorRequest
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

// Validar godoc
// @Summary      Validar produtor
// @Description  Decisão manual do administrador: autoriza ou nega o produtor.
// @Tags         produtores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                        true "ID do produtor"
// @Param        body body     dto.ValidarProdutorRequest true "Decisão"
// @Success      200  {object} dto.ProdutorResponse
// @Router       /v1/produtores/{id}/validacao [put]
func (h *ProdutoresHandler) Validar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ValidarProdutorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validar(c.Request.Context(), id, req.Autorizado)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) VincularUsuario(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.VincularUsuarioProdutorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.VincularUsuario(c.Request.Context(), ator(c), id, req); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutoresHandler) Remover(c *gin.Context) {
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
