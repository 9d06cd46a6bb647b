package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogoService interface {
	CriarProduto(ctx context.Context, ator Ator, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterProduto(ctx context.Context, id int) (*dto.ProdutoResponse, error)
	ListarProdutosPorFornecedor(ctx context.Context, fornecedorID int, apenasAtivos bool) ([]dto.ProdutoResponse, error)
	AtualizarProduto(ctx context.Context, ator Ator, id int, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)

	Criar(ctx context.Context, ator Ator, req dto.CriarCatalogoRequest) (*dto.CatalogoResponse, error)
	ObterPorID(ctx context.Context, id int) (*dto.CatalogoResponse, error)
	Listar(ctx context.Context, fornecedorID *int) ([]dto.CatalogoResponse, error)
	ListarVigentes(ctx context.Context, fornecedorID int) ([]dto.CatalogoResponse, error)
	Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarCatalogoRequest) (*dto.CatalogoResponse, error)
	Remover(ctx context.Context, ator Ator, id int) error
	AdicionarItem(ctx context.Context, ator Ator, catalogoID int, req dto.CatalogoItemRequest) (*dto.CatalogoResponse, error)
	RemoverItem(ctx context.Context, ator Ator, catalogoID, produtoID int) error
	ObterPreco(ctx context.Context, catalogoID, produtoID int) (*dto.PrecoProdutoResponse, error)
}

type catalogoService struct {
	repo     repository.CatalogoRepository
	safras   repository.SafraRepository
	vinculos vinculos
	relogio  func() time.Time
}

func NewCatalogoService(repo repository.CatalogoRepository, safras repository.SafraRepository, fornecedores repository.FornecedorRepository) CatalogoService {
	return &catalogoService{
		repo:     repo,
		safras:   safras,
		vinculos: vinculos{fornecedores: fornecedores},
		relogio:  agoraUTC,
	}
}

// ── Produtos ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CriarProduto(ctx context.Context, ator Ator, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, req.FornecedorID); err != nil {
		return nil, err
	}
	codigo := strings.TrimSpace(req.Codigo)
	_, err := s.repo.ObterProdutoPorCodigo(ctx, req.FornecedorID, codigo)
	if err == nil {
		return nil, fmt.Errorf("%w: produto com código %s", ErrConflito, codigo)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p := &model.Produto{
		FornecedorID: req.FornecedorID,
		Codigo:       codigo,
		Nome:         strings.TrimSpace(req.Nome),
		Unidade:      req.Unidade,
		Categoria:    strings.TrimSpace(req.Categoria),
		CulturaID:    req.CulturaID,
		Descricao:    req.Descricao,
		Ativo:        true,
	}
	if err := s.repo.CriarProduto(ctx, p); err != nil {
		return nil, traduzirErro(err, "produto", codigo)
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) ObterProduto(ctx context.Context, id int) (*dto.ProdutoResponse, error) {
	p, err := s.repo.ObterProdutoPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "produto", id)
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) ListarProdutosPorFornecedor(ctx context.Context, fornecedorID int, apenasAtivos bool) ([]dto.ProdutoResponse, error) {
	list, err := s.repo.ListarProdutosPorFornecedor(ctx, fornecedorID, apenasAtivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProdutoResponse, len(list))
	for i := range list {
		resp[i] = *produtoToResponse(&list[i])
	}
	return resp, nil
}

func (s *catalogoService) AtualizarProduto(ctx context.Context, ator Ator, id int, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.ObterProdutoPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "produto", id)
	}
	if err := s.vinculos.exigirFornecedor(ctx, ator, p.FornecedorID); err != nil {
		return nil, err
	}
	if req.Nome != "" {
		p.Nome = strings.TrimSpace(req.Nome)
	}
	if req.Unidade != "" {
		p.Unidade = req.Unidade
	}
	if req.Categoria != "" {
		p.Categoria = strings.TrimSpace(req.Categoria)
	}
	if req.CulturaID != nil {
		p.CulturaID = req.CulturaID
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}
	if err := s.repo.AtualizarProduto(ctx, p); err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

// ── Catálogos ────────────────────────────────────────────────────────────────

func (s *catalogoService) Criar(ctx context.Context, ator Ator, req dto.CriarCatalogoRequest) (*dto.CatalogoResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, req.FornecedorID); err != nil {
		return nil, err
	}
	if _, err := s.safras.ObterPorID(ctx, req.SafraID); err != nil {
		return nil, traduzirErro(err, "safra", req.SafraID)
	}
	c := &model.Catalogo{
		FornecedorID: req.FornecedorID,
		SafraID:      req.SafraID,
		Nome:         strings.TrimSpace(req.Nome),
		Moeda:        moedaOuPadrao(req.Moeda),
		DataInicio:   req.DataInicio.UTC(),
		DataFim:      utcPtr(req.DataFim),
		Ativo:        true,
	}
	if err := validarVigencia(c); err != nil {
		return nil, err
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		return nil, err
	}
	return s.catalogoToResponse(c), nil
}

func (s *catalogoService) ObterPorID(ctx context.Context, id int) (*dto.CatalogoResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "catálogo", id)
	}
	return s.catalogoToResponse(c), nil
}

func (s *catalogoService) Listar(ctx context.Context, fornecedorID *int) ([]dto.CatalogoResponse, error) {
	list, err := s.repo.Listar(ctx, fornecedorID)
	if err != nil {
		return nil, err
	}
	return s.catalogosToResponse(list), nil
}

func (s *catalogoService) ListarVigentes(ctx context.Context, fornecedorID int) ([]dto.CatalogoResponse, error) {
	list, err := s.repo.ListarVigentes(ctx, fornecedorID, s.relogio())
	if err != nil {
		return nil, err
	}
	return s.catalogosToResponse(list), nil
}

func (s *catalogoService) Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarCatalogoRequest) (*dto.CatalogoResponse, error) {
	c, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if req.Nome != "" {
		c.Nome = strings.TrimSpace(req.Nome)
	}
	if req.Moeda != "" {
		c.Moeda = moedaOuPadrao(req.Moeda)
	}
	if req.DataInicio != nil {
		c.DataInicio = req.DataInicio.UTC()
	}
	if req.DataFim != nil {
		c.DataFim = utcPtr(req.DataFim)
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}
	if err := validarVigencia(c); err != nil {
		return nil, err
	}
	if err := s.repo.Atualizar(ctx, c); err != nil {
		return nil, err
	}
	return s.catalogoToResponse(c), nil
}

// Remover deactivates the catalog; orders already priced from it are unaffected.
func (s *catalogoService) Remover(ctx context.Context, ator Ator, id int) error {
	if _, err := s.carregar(ctx, ator, id); err != nil {
		return err
	}
	return s.repo.Desativar(ctx, id)
}

// AdicionarItem sets the base price of a product in the catalog, replacing any previous price.
func (s *catalogoService) AdicionarItem(ctx context.Context, ator Ator, catalogoID int, req dto.CatalogoItemRequest) (*dto.CatalogoResponse, error) {
	c, err := s.carregar(ctx, ator, catalogoID)
	if err != nil {
		return nil, err
	}
	if req.PrecoBase.IsNegative() {
		return nil, argInvalido("preço base não pode ser negativo")
	}
	produto, err := s.repo.ObterProdutoPorID(ctx, req.ProdutoID)
	if err != nil {
		return nil, traduzirErro(err, "produto", req.ProdutoID)
	}
	if produto.FornecedorID != c.FornecedorID {
		return nil, argInvalido("produto %d não pertence ao fornecedor do catálogo", produto.ID)
	}
	item := &model.CatalogoItem{CatalogoID: c.ID, ProdutoID: produto.ID, PrecoBase: req.PrecoBase, Ativo: true}
	if err := s.repo.SalvarItem(ctx, item); err != nil {
		return nil, err
	}
	atualizado, err := s.repo.ObterPorID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return s.catalogoToResponse(atualizado), nil
}

func (s *catalogoService) RemoverItem(ctx context.Context, ator Ator, catalogoID, produtoID int) error {
	if _, err := s.carregar(ctx, ator, catalogoID); err != nil {
		return err
	}
	n, err := s.repo.RemoverItem(ctx, catalogoID, produtoID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: produto %d no catálogo %d", ErrNaoEncontrado, produtoID, catalogoID)
	}
	return nil
}

func (s *catalogoService) ObterPreco(ctx context.Context, catalogoID, produtoID int) (*dto.PrecoProdutoResponse, error) {
	c, err := s.repo.ObterPorID(ctx, catalogoID)
	if err != nil {
		return nil, traduzirErro(err, "catálogo", catalogoID)
	}
	preco, ok := c.PrecoProduto(produtoID)
	if !ok {
		return nil, fmt.Errorf("%w: produto %d no catálogo %d", ErrNaoEncontrado, produtoID, catalogoID)
	}
	return &dto.PrecoProdutoResponse{CatalogoID: c.ID, ProdutoID: produtoID, PrecoBase: preco, Moeda: c.Moeda}, nil
}

func (s *catalogoService) carregar(ctx context.Context, ator Ator, id int) (*model.Catalogo, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "catálogo", id)
	}
	if err := s.vinculos.exigirFornecedor(ctx, ator, c.FornecedorID); err != nil {
		return nil, err
	}
	return c, nil
}

// precoVigente looks the product up in the supplier's current catalogs, newest first.
func precoVigente(ctx context.Context, repo repository.CatalogoRepository, fornecedorID, produtoID int, agora time.Time) (decimal.Decimal, error) {
	catalogos, err := repo.ListarVigentes(ctx, fornecedorID, agora)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range catalogos {
		if preco, ok := catalogos[i].PrecoProduto(produtoID); ok {
			return preco, nil
		}
	}
	return decimal.Zero, argInvalido("produto %d sem preço em catálogo vigente do fornecedor %d", produtoID, fornecedorID)
}

func validarVigencia(c *model.Catalogo) error {
	if c.DataFim != nil && !c.DataFim.After(c.DataInicio) {
		return argInvalido("data fim do catálogo deve ser posterior à data início")
	}
	return nil
}

func moedaOuPadrao(m string) string {
	if m = strings.ToUpper(strings.TrimSpace(m)); m == "" {
		return "BRL"
	}
	return m
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	return &dto.ProdutoResponse{
		ID:           p.ID,
		FornecedorID: p.FornecedorID,
		Codigo:       p.Codigo,
		Nome:         p.Nome,
		Unidade:      p.Unidade,
		Categoria:    p.Categoria,
		CulturaID:    p.CulturaID,
		Descricao:    p.Descricao,
		Ativo:        p.Ativo,
	}
}

func (s *catalogoService) catalogoToResponse(c *model.Catalogo) *dto.CatalogoResponse {
	resp := &dto.CatalogoResponse{
		ID:           c.ID,
		FornecedorID: c.FornecedorID,
		SafraID:      c.SafraID,
		Nome:         c.Nome,
		Moeda:        c.Moeda,
		DataInicio:   c.DataInicio,
		DataFim:      c.DataFim,
		Ativo:        c.Ativo,
		Vigente:      c.Vigente(s.relogio()),
		Itens:        make([]dto.CatalogoItemResponse, len(c.Itens)),
	}
	for i, it := range c.Itens {
		resp.Itens[i] = dto.CatalogoItemResponse{ProdutoID: it.ProdutoID, PrecoBase: it.PrecoBase, Ativo: it.Ativo}
	}
	return resp
}

func (s *catalogoService) catalogosToResponse(list []model.Catalogo) []dto.CatalogoResponse {
	resp := make([]dto.CatalogoResponse, len(list))
	for i := range list {
		resp[i] = *s.catalogoToResponse(&list[i])
	}
	return resp
}
