package service

import (
	"context"
	"testing"
	"time"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCultura_NomeUnicoIgnoraCaixa(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewCulturaService(repository.NewCulturaRepository(c.db))

	soja, err := svc.Criar(ctx, dto.CriarCulturaRequest{Nome: "Soja"})
	require.NoError(t, err)

	_, err = svc.Criar(ctx, dto.CriarCulturaRequest{Nome: "  SOJA "})
	assert.ErrorIs(t, err, ErrConflito)

	achada, err := svc.ObterPorNome(ctx, "soja")
	require.NoError(t, err)
	assert.Equal(t, soja.ID, achada.ID)

	require.NoError(t, svc.Remover(ctx, soja.ID))
	ativas, err := svc.Listar(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, ativas)
	todas, err := svc.Listar(ctx, false)
	require.NoError(t, err)
	assert.Len(t, todas, 1)
}

func TestSafra_Validacoes(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewSafraService(repository.NewSafraRepository(c.db)).(*safraService)
	svc.relogio = func() time.Time { return c.agora }

	t.Run("periodo invertido", func(t *testing.T) {
		_, err := svc.Criar(ctx, dto.CriarSafraRequest{
			PlantioInicial: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			PlantioFinal:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			PlantioNome:    "Inverno", AnoColheita: 2026,
		})
		assert.ErrorIs(t, err, model.ErrArgumentoInvalido)
	})

	t.Run("duplicada", func(t *testing.T) {
		_, err := svc.Criar(ctx, dto.CriarSafraRequest{
			PlantioInicial: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			PlantioFinal:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			PlantioNome:    "Verão", AnoColheita: 2025,
		})
		assert.ErrorIs(t, err, ErrConflito)
	})

	t.Run("atual", func(t *testing.T) {
		atual, err := svc.ObterAtual(ctx)
		require.NoError(t, err)
		assert.Equal(t, c.safra.ID, atual.ID)
		assert.True(t, atual.Atual)

		svc.relogio = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
		_, err = svc.ObterAtual(ctx)
		assert.ErrorIs(t, err, ErrNaoEncontrado)
	})
}

func novoProdutorService(c cenario) ProdutorService {
	return NewProdutorService(
		repository.NewProdutorRepository(c.db),
		repository.NewUsuarioRepository(c.db),
		repository.NewFornecedorRepository(c.db),
	)
}

func TestProdutor_CriarPorProdutorViraProprietario(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := novoProdutorService(c)

	p, err := svc.Criar(ctx, c.atorIntruso(), dto.CriarProdutorRequest{
		Nome: "Sítio Esperança", Cnpj: "11.444.777/0001-61", AreaPlantio: dec("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusProdutorPendenteValidacaoManual), p.Status)
	require.NotNil(t, p.Cnpj)
	assert.Equal(t, "11444777000161", *p.Cnpj)

	meus, err := svc.ListarDoUsuario(ctx, c.atorIntruso())
	require.NoError(t, err)
	require.Len(t, meus, 1)
	assert.Equal(t, p.ID, meus[0].ID)

	_, err = svc.ObterPorID(ctx, c.atorIntruso(), p.ID)
	assert.NoError(t, err)
	_, err = svc.ObterPorID(ctx, c.atorIntruso(), c.produtor.ID)
	assert.ErrorIs(t, err, ErrProibido)
}

func TestProdutor_CriarRejeita(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := novoProdutorService(c)

	tests := []struct {
		name string
		req  dto.CriarProdutorRequest
		want error
	}{
		{"cpf com digito errado", dto.CriarProdutorRequest{Nome: "X", Cpf: "123.456.789-00"}, model.ErrArgumentoInvalido},
		{"sem documento", dto.CriarProdutorRequest{Nome: "X"}, model.ErrArgumentoInvalido},
		{"documento ja cadastrado", dto.CriarProdutorRequest{Nome: "X", Cpf: "529.982.247-25"}, ErrConflito},
		{"area negativa", dto.CriarProdutorRequest{Nome: "X", Cpf: "11144477735", AreaPlantio: dec("-1")}, model.ErrArgumentoInvalido},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Criar(ctx, atorAdmin, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProdutor_Validar(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := novoProdutorService(c)

	_, err := svc.Validar(ctx, c.produtor.ID, true)
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida)

	novo, err := svc.Criar(ctx, atorAdmin, dto.CriarProdutorRequest{Nome: "Fazenda Nova", Cpf: "11144477735"})
	require.NoError(t, err)
	negado, err := svc.Validar(ctx, novo.ID, false)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusProdutorNegado), negado.Status)

	_, err = svc.Validar(ctx, 4242, true)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestPropriedade_AreasEAcesso(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewPropriedadeService(repository.NewPropriedadeRepository(c.db), repository.NewProdutorRepository(c.db))
	cultura := &model.Cultura{Nome: "Soja", Ativo: true}
	require.NoError(t, c.db.Create(cultura).Error)

	req := dto.CriarPropriedadeRequest{
		ProdutorID: c.produtor.ID, Nome: "Gleba Norte", Municipio: "Sorriso", Uf: "MT",
		AreaTotal: dec("200"),
		Culturas:  []dto.PropriedadeCulturaInput{{CulturaID: cultura.ID, SafraID: ptr(c.safra.ID), Area: dec("150")}},
	}

	_, err := svc.Criar(ctx, c.atorIntruso(), req)
	assert.ErrorIs(t, err, ErrProibido)

	excedente := req
	excedente.Culturas = append([]dto.PropriedadeCulturaInput{}, req.Culturas...)
	excedente.Culturas = append(excedente.Culturas, dto.PropriedadeCulturaInput{CulturaID: cultura.ID, SafraID: ptr(c.safra.ID), Area: dec("60")})
	_, err = svc.Criar(ctx, c.atorProdutor(), excedente)
	assert.ErrorIs(t, err, model.ErrArgumentoInvalido)

	_, err = svc.Criar(ctx, c.atorProdutor(), req)
	require.NoError(t, err)
	req.Nome, req.Municipio, req.AreaTotal = "Gleba Sul", "Lucas do Rio Verde", dec("75.5")
	req.Culturas = nil
	_, err = svc.Criar(ctx, atorAdmin, req)
	require.NoError(t, err)

	area, err := svc.AreaTotalPorProdutor(ctx, c.atorProdutor(), c.produtor.ID)
	require.NoError(t, err)
	assert.True(t, dec("275.5").Equal(area.AreaTotal), "área total %s", area.AreaTotal)
	assert.ElementsMatch(t, []string{"Sorriso", "Lucas do Rio Verde"}, area.Municipios)
}

func TestSegmentacao_ObterDesconto(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewSegmentacaoService(repository.NewSegmentacaoRepository(c.db), repository.NewFornecedorRepository(c.db))

	sementes := func(p string) []dto.RegraDescontoInput {
		return []dto.RegraDescontoInput{{Categoria: "Sementes", PercentualDesconto: dec(p)}}
	}
	_, err := svc.Criar(ctx, c.atorFornecedor(), dto.CriarSegmentacaoRequest{
		FornecedorID: c.fornecedor.ID, Nome: "Padrão", EhPadrao: true,
		Grupos: []dto.GrupoSegmentacaoInput{
			{Nome: "Pequeno", AreaMinima: dec("0"), AreaMaxima: ptr(dec("500")), Regras: sementes("5")},
			{Nome: "Grande", AreaMinima: dec("501"), Regras: sementes("8")},
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name         string
		fornecedorID int
		area         string
		categoria    string
		want         string
	}{
		{"pequeno", c.fornecedor.ID, "420", "sementes", "5"},
		{"limite inclusivo", c.fornecedor.ID, "500", "Sementes", "5"},
		{"grande sem teto", c.fornecedor.ID, "800", "Sementes", "8"},
		{"categoria sem regra", c.fornecedor.ID, "420", "Fertilizantes", "0"},
		{"fornecedor sem segmentação", c.fornecedor.ID + 100, "420", "Sementes", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ObterDesconto(ctx, tt.fornecedorID, dec(tt.area), tt.categoria)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got.PercentualDesconto), "desconto %s", got.PercentualDesconto)
		})
	}

	_, err = svc.Criar(ctx, c.atorProdutor(), dto.CriarSegmentacaoRequest{FornecedorID: c.fornecedor.ID, Nome: "Outra"})
	assert.ErrorIs(t, err, ErrProibido)
}

func TestCatalogo_ObterPreco(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewCatalogoService(repository.NewCatalogoRepository(c.db), repository.NewSafraRepository(c.db), repository.NewFornecedorRepository(c.db))

	var catalogo model.Catalogo
	require.NoError(t, c.db.First(&catalogo).Error)

	preco, err := svc.ObterPreco(ctx, catalogo.ID, c.produto.ID)
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(preco.PrecoBase))
	assert.Equal(t, "BRL", preco.Moeda)

	_, err = svc.ObterPreco(ctx, catalogo.ID, c.produto.ID+50)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
	_, err = svc.ObterPreco(ctx, catalogo.ID+50, c.produto.ID)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestPagamento_Associar(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewPagamentoService(repository.NewPagamentoRepository(c.db), repository.NewCulturaRepository(c.db), repository.NewFornecedorRepository(c.db))
	cultura := &model.Cultura{Nome: "Milho", Ativo: true}
	require.NoError(t, c.db.Create(cultura).Error)

	forma, err := svc.CriarForma(ctx, dto.CriarFormaPagamentoRequest{Descricao: "Barter"})
	require.NoError(t, err)
	_, err = svc.CriarForma(ctx, dto.CriarFormaPagamentoRequest{Descricao: "barter"})
	assert.ErrorIs(t, err, ErrConflito)

	req := dto.AssociarFormaPagamentoRequest{FornecedorID: c.fornecedor.ID, CulturaID: cultura.ID, FormaPagamentoID: forma.ID}
	_, err = svc.Associar(ctx, c.atorIntruso(), req)
	assert.ErrorIs(t, err, ErrProibido)

	assoc, err := svc.Associar(ctx, c.atorFornecedor(), req)
	require.NoError(t, err)
	assert.Equal(t, "Barter", assoc.FormaPagamento.Descricao)

	list, err := svc.ListarPorFornecedorCultura(ctx, c.fornecedor.ID, cultura.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, forma.ID, list[0].FormaPagamento.ID)

	semCultura := req
	semCultura.CulturaID = cultura.ID + 99
	_, err = svc.Associar(ctx, atorAdmin, semCultura)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestPagamento_DesassociarRespeitaFornecedor(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := NewPagamentoService(repository.NewPagamentoRepository(c.db), repository.NewCulturaRepository(c.db), repository.NewFornecedorRepository(c.db))
	cultura := &model.Cultura{Nome: "Algodão", Ativo: true}
	require.NoError(t, c.db.Create(cultura).Error)
	forma, err := svc.CriarForma(ctx, dto.CriarFormaPagamentoRequest{Descricao: "Safra"})
	require.NoError(t, err)
	assoc, err := svc.Associar(ctx, c.atorFornecedor(), dto.AssociarFormaPagamentoRequest{
		FornecedorID: c.fornecedor.ID, CulturaID: cultura.ID, FormaPagamentoID: forma.ID,
	})
	require.NoError(t, err)

	outro := &model.Fornecedor{Nome: "Outra Revenda", Cnpj: "11444777000161", MoedaPadrao: "BRL", Ativo: true}
	require.NoError(t, c.db.Create(outro).Error)
	usuarioOutro := &model.Usuario{Nome: "Caio", Email: "caio@outrarevenda.com", SenhaHash: "x", Rol: model.RolFornecedor, Ativo: true}
	require.NoError(t, c.db.Create(usuarioOutro).Error)
	require.NoError(t, c.db.Create(&model.UsuarioFornecedor{
		UsuarioID: usuarioOutro.ID, FornecedorID: outro.ID, Role: model.RoleFornecedorComercial, Ativo: true,
	}).Error)
	atorOutro := Ator{UsuarioID: usuarioOutro.ID, Rol: model.RolFornecedor}

	err = svc.Desassociar(ctx, atorOutro, outro.ID, assoc.ID)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
	list, err := svc.ListarPorFornecedorCultura(ctx, c.fornecedor.ID, cultura.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Desassociar(ctx, c.atorFornecedor(), c.fornecedor.ID, assoc.ID))
	list, err = svc.ListarPorFornecedorCultura(ctx, c.fornecedor.ID, cultura.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
