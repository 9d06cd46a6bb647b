package service

import (
	"context"
	"strings"
	"time"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/shopspring/decimal"
)

type ComboService interface {
	Criar(ctx context.Context, ator Ator, req dto.CriarComboRequest) (*dto.ComboResponse, error)
	ObterPorID(ctx context.Context, id int) (*dto.ComboResponse, error)
	Listar(ctx context.Context, filtro repository.ComboFiltro) ([]dto.ComboResponse, error)
	Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarComboRequest) (*dto.ComboResponse, error)
	AlterarStatus(ctx context.Context, ator Ator, id int, status string) (*dto.ComboResponse, error)
	Remover(ctx context.Context, ator Ator, id int) error
	ListarValidosParaProdutor(ctx context.Context, ator Ator, produtorID int) ([]dto.ComboResponse, error)
	CalcularDesconto(ctx context.Context, id int, req dto.CalcularDescontoComboRequest) (*dto.DescontoComboResponse, error)
}

type comboService struct {
	repo         repository.ComboRepository
	safras       repository.SafraRepository
	produtores   repository.ProdutorRepository
	propriedades repository.PropriedadeRepository
	vinculos     vinculos
	relogio      func() time.Time
}

func NewComboService(
	repo repository.ComboRepository,
	safras repository.SafraRepository,
	produtores repository.ProdutorRepository,
	fornecedores repository.FornecedorRepository,
	propriedades repository.PropriedadeRepository,
) ComboService {
	return &comboService{
		repo:         repo,
		safras:       safras,
		produtores:   produtores,
		propriedades: propriedades,
		vinculos:     vinculos{produtores: produtores, fornecedores: fornecedores},
		relogio:      agoraUTC,
	}
}

func (s *comboService) Criar(ctx context.Context, ator Ator, req dto.CriarComboRequest) (*dto.ComboResponse, error) {
	if err := s.vinculos.exigirFornecedor(ctx, ator, req.FornecedorID); err != nil {
		return nil, err
	}
	if _, err := s.safras.ObterPorID(ctx, req.SafraID); err != nil {
		return nil, traduzirErro(err, "safra", req.SafraID)
	}
	c := &model.Combo{
		FornecedorID: req.FornecedorID,
		SafraID:      req.SafraID,
		Status:       model.StatusComboAtivo,
	}
	aplicarCombo(c, comboCampos{
		nome: req.Nome, descricao: req.Descricao,
		hectareMinimo: req.HectareMinimo, hectareMaximo: req.HectareMaximo,
		dataInicio: req.DataInicio, dataFim: req.DataFim,
		modalidade: req.ModalidadePagamento,
		permiteAlteracao: req.PermiteAlteracaoItem, permiteExclusao: req.PermiteExclusaoItem,
		municipios: req.RestricoesMunicipios,
		itens: req.Itens, locais: req.LocaisRecebimento, categorias: req.CategoriasDesconto,
	})
	if err := c.ValidarIntervalos(); err != nil {
		return nil, err
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		return nil, err
	}
	return comboToResponse(c), nil
}

func (s *comboService) ObterPorID(ctx context.Context, id int) (*dto.ComboResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "combo", id)
	}
	return comboToResponse(c), nil
}

func (s *comboService) Listar(ctx context.Context, filtro repository.ComboFiltro) ([]dto.ComboResponse, error) {
	list, err := s.repo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	return combosToResponse(list), nil
}

func (s *comboService) Atualizar(ctx context.Context, ator Ator, id int, req dto.AtualizarComboRequest) (*dto.ComboResponse, error) {
	c, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if c.Status == model.StatusComboExpirado {
		return nil, argInvalido("combo %d expirado não pode ser alterado", id)
	}
	aplicarCombo(c, comboCampos{
		nome: req.Nome, descricao: req.Descricao,
		hectareMinimo: req.HectareMinimo, hectareMaximo: req.HectareMaximo,
		dataInicio: req.DataInicio, dataFim: req.DataFim,
		modalidade: req.ModalidadePagamento,
		permiteAlteracao: req.PermiteAlteracaoItem, permiteExclusao: req.PermiteExclusaoItem,
		municipios: req.RestricoesMunicipios,
		itens: req.Itens, locais: req.LocaisRecebimento, categorias: req.CategoriasDesconto,
	})
	if err := c.ValidarIntervalos(); err != nil {
		return nil, err
	}
	if err := s.repo.Atualizar(ctx, c); err != nil {
		return nil, err
	}
	return comboToResponse(c), nil
}

func (s *comboService) AlterarStatus(ctx context.Context, ator Ator, id int, status string) (*dto.ComboResponse, error) {
	c, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	agora := s.relogio()
	if err := c.AlterarStatus(model.StatusCombo(status), agora); err != nil {
		return nil, err
	}
	if err := s.repo.AtualizarStatus(ctx, id, c.Status, agora); err != nil {
		return nil, err
	}
	return comboToResponse(c), nil
}

func (s *comboService) Remover(ctx context.Context, ator Ator, id int) error {
	if _, err := s.carregar(ctx, ator, id); err != nil {
		return err
	}
	return s.repo.Remover(ctx, id)
}

// ListarValidosParaProdutor returns the active combos the producer qualifies
// for. The area is the sum of the producer's properties (falling back to the
// declared planted area) and a combo qualifies when any of the producer's
// municipalities is allowed.
func (s *comboService) ListarValidosParaProdutor(ctx context.Context, ator Ator, produtorID int) ([]dto.ComboResponse, error) {
	if err := s.vinculos.exigirProdutor(ctx, ator, produtorID); err != nil {
		return nil, err
	}
	produtor, err := s.produtores.ObterPorID(ctx, produtorID)
	if err != nil {
		return nil, traduzirErro(err, "produtor", produtorID)
	}
	area, err := s.propriedades.AreaTotalPorProdutor(ctx, produtorID)
	if err != nil {
		return nil, err
	}
	if !area.IsPositive() {
		area = produtor.AreaPlantio
	}
	municipios, err := s.propriedades.MunicipiosPorProdutor(ctx, produtorID)
	if err != nil {
		return nil, err
	}

	agora := s.relogio()
	ativos, err := s.repo.ListarAtivos(ctx, agora)
	if err != nil {
		return nil, err
	}
	validos := make([]model.Combo, 0, len(ativos))
	for i := range ativos {
		if comboValidoParaAlgum(&ativos[i], area, municipios, agora) {
			validos = append(validos, ativos[i])
		}
	}
	return combosToResponse(validos), nil
}

func comboValidoParaAlgum(c *model.Combo, area decimal.Decimal, municipios []string, agora time.Time) bool {
	if len(municipios) == 0 {
		return c.ValidoParaProdutor(area, "", agora)
	}
	for _, m := range municipios {
		if c.ValidoParaProdutor(area, m, agora) {
			return true
		}
	}
	return false
}

func (s *comboService) CalcularDesconto(ctx context.Context, id int, req dto.CalcularDescontoComboRequest) (*dto.DescontoComboResponse, error) {
	if req.Hectare.IsNegative() || req.ValorBase.IsNegative() {
		return nil, argInvalido("hectare e valor base não podem ser negativos")
	}
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "combo", id)
	}
	resp := &dto.DescontoComboResponse{ComboID: c.ID, Hectare: req.Hectare, ValorBase: req.ValorBase, Desconto: decimal.Zero}
	if cat := c.CategoriaParaHectare(req.Hectare, req.ValorBase); cat != nil {
		nome := cat.Nome
		resp.Categoria = &nome
		resp.Desconto = cat.Desconto(req.Hectare, req.ValorBase)
	}
	return resp, nil
}

func (s *comboService) carregar(ctx context.Context, ator Ator, id int) (*model.Combo, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "combo", id)
	}
	if err := s.vinculos.exigirFornecedor(ctx, ator, c.FornecedorID); err != nil {
		return nil, err
	}
	return c, nil
}

type comboCampos struct {
	nome             string
	descricao        *string
	hectareMinimo    decimal.Decimal
	hectareMaximo    decimal.Decimal
	dataInicio       time.Time
	dataFim          time.Time
	modalidade       string
	permiteAlteracao bool
	permiteExclusao  bool
	municipios       []string
	itens            []dto.ComboItemInput
	locais           []dto.ComboLocalRecebimentoInput
	categorias       []dto.ComboCategoriaDescontoInput
}

func aplicarCombo(c *model.Combo, in comboCampos) {
	c.Nome = strings.TrimSpace(in.nome)
	c.Descricao = in.descricao
	c.HectareMinimo = in.hectareMinimo
	c.HectareMaximo = in.hectareMaximo
	c.DataInicio = in.dataInicio.UTC()
	c.DataFim = in.dataFim.UTC()
	c.ModalidadePagamento = model.ModalidadePagamento(in.modalidade)
	c.PermiteAlteracaoItem = in.permiteAlteracao
	c.PermiteExclusaoItem = in.permiteExclusao

	c.RestricoesMunicipios = make([]string, 0, len(in.municipios))
	for _, m := range in.municipios {
		if m = strings.TrimSpace(m); m != "" {
			c.RestricoesMunicipios = append(c.RestricoesMunicipios, m)
		}
	}

	c.Itens = make([]model.ComboItem, len(in.itens))
	for i, it := range in.itens {
		c.Itens[i] = model.ComboItem{
			ProdutoID:          it.ProdutoID,
			Quantidade:         it.Quantidade,
			PrecoUnitario:      it.PrecoUnitario,
			PercentualDesconto: it.PercentualDesconto,
			ProdutoObrigatorio: it.ProdutoObrigatorio,
			Ordem:              it.Ordem,
		}
	}
	c.LocaisRecebimento = make([]model.ComboLocalRecebimento, len(in.locais))
	for i, l := range in.locais {
		c.LocaisRecebimento[i] = model.ComboLocalRecebimento{
			Nome:               strings.TrimSpace(l.Nome),
			Municipio:          strings.TrimSpace(l.Municipio),
			Uf:                 strings.ToUpper(l.Uf),
			PrecoAdicional:     l.PrecoAdicional,
			PercentualDesconto: l.PercentualDesconto,
			LocalPadrao:        l.LocalPadrao,
		}
	}
	c.CategoriasDesconto = make([]model.ComboCategoriaDesconto, len(in.categorias))
	for i, cat := range in.categorias {
		c.CategoriasDesconto[i] = model.ComboCategoriaDesconto{
			Nome:                    strings.TrimSpace(cat.Nome),
			TipoDesconto:            model.TipoDesconto(cat.TipoDesconto),
			PercentualDesconto:      cat.PercentualDesconto,
			ValorDescontoPorHectare: cat.ValorDescontoPorHectare,
			HectareMinimo:           cat.HectareMinimo,
			HectareMaximo:           cat.HectareMaximo,
			Ativo:                   true,
		}
	}
}

func comboToResponse(c *model.Combo) *dto.ComboResponse {
	resp := &dto.ComboResponse{
		ID:                   c.ID,
		Nome:                 c.Nome,
		Descricao:            c.Descricao,
		FornecedorID:         c.FornecedorID,
		SafraID:              c.SafraID,
		HectareMinimo:        c.HectareMinimo,
		HectareMaximo:        c.HectareMaximo,
		DataInicio:           c.DataInicio,
		DataFim:              c.DataFim,
		ModalidadePagamento:  string(c.ModalidadePagamento),
		Status:               string(c.Status),
		PermiteAlteracaoItem: c.PermiteAlteracaoItem,
		PermiteExclusaoItem:  c.PermiteExclusaoItem,
		RestricoesMunicipios: c.RestricoesMunicipios,
		Itens:                make([]dto.ComboItemResponse, len(c.Itens)),
		LocaisRecebimento:    make([]dto.ComboLocalRecebimentoResponse, len(c.LocaisRecebimento)),
		CategoriasDesconto:   make([]dto.ComboCategoriaDescontoResponse, len(c.CategoriasDesconto)),
	}
	if resp.RestricoesMunicipios == nil {
		resp.RestricoesMunicipios = []string{}
	}
	for i, it := range c.Itens {
		resp.Itens[i] = dto.ComboItemResponse{
			ID: it.ID, ProdutoID: it.ProdutoID, Quantidade: it.Quantidade,
			PrecoUnitario: it.PrecoUnitario, PercentualDesconto: it.PercentualDesconto,
			ProdutoObrigatorio: it.ProdutoObrigatorio, Ordem: it.Ordem,
		}
	}
	for i, l := range c.LocaisRecebimento {
		resp.LocaisRecebimento[i] = dto.ComboLocalRecebimentoResponse{
			ID: l.ID, Nome: l.Nome, Municipio: l.Municipio, Uf: l.Uf,
			PrecoAdicional: l.PrecoAdicional, PercentualDesconto: l.PercentualDesconto, LocalPadrao: l.LocalPadrao,
		}
	}
	for i, cat := range c.CategoriasDesconto {
		resp.CategoriasDesconto[i] = dto.ComboCategoriaDescontoResponse{
			ID: cat.ID, Nome: cat.Nome, TipoDesconto: string(cat.TipoDesconto),
			PercentualDesconto: cat.PercentualDesconto, ValorDescontoPorHectare: cat.ValorDescontoPorHectare,
			HectareMinimo: cat.HectareMinimo, HectareMaximo: cat.HectareMaximo, Ativo: cat.Ativo,
		}
	}
	return resp
}

func combosToResponse(list []model.Combo) []dto.ComboResponse {
	resp := make([]dto.ComboResponse, len(list))
	for i := range list {
		resp[i] = *comboToResponse(&list[i])
	}
	return resp
}
