package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prazoTeste = 7 * 24 * time.Hour

func novoPedidoService(c cenario, n NotificadorPedido) *pedidoService {
	svc := NewPedidoService(
		repository.NewPedidoRepository(c.db),
		repository.NewProdutorRepository(c.db),
		repository.NewFornecedorRepository(c.db),
		repository.NewCatalogoRepository(c.db),
		n,
		prazoTeste,
	).(*pedidoService)
	svc.relogio = func() time.Time { return c.agora }
	return svc
}

func criarPedidoReq(c cenario) dto.CriarPedidoRequest {
	return dto.CriarPedidoRequest{
		ProdutorID:   c.produtor.ID,
		FornecedorID: c.fornecedor.ID,
		Itens: []dto.AdicionarItemPedidoRequest{
			{ProdutoID: c.produto.ID, Quantidade: dec("10"), PercentualDesconto: dec("5")},
		},
	}
}

func (s *pedidoService) avancar(d time.Duration) {
	agora := s.relogio().Add(d)
	s.relogio = func() time.Time { return agora }
}

// ── Criar ─────────────────────────────────────────────────────────────────────

func TestPedido_CriarPeloProdutor(t *testing.T) {
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	resp, err := svc.Criar(context.Background(), c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusPedidoEmNegociacao), resp.Status)
	assert.True(t, resp.DataLimiteInteracao.Equal(c.agora.Add(prazoTeste)))
	assert.True(t, resp.ValorTotal.Equal(dec("1425")), "10 x 150 com 5%% de desconto, got %s", resp.ValorTotal)
	assert.Equal(t, 1, resp.QuantidadeItens)
	require.Len(t, resp.Itens, 1)
	assert.True(t, resp.Itens[0].PrecoUnitario.Equal(dec("150")))

	require.Len(t, resp.Propostas, 1)
	assert.Equal(t, "produtor", resp.Propostas[0].Autor)
	require.NotNil(t, resp.Propostas[0].AcaoComprador)
	assert.Equal(t, "Iniciou", *resp.Propostas[0].AcaoComprador)
	assert.Equal(t, c.vincProdutor.ID, *resp.Propostas[0].UsuarioProdutorID)
	assert.NotZero(t, resp.Propostas[0].ID)

	salvo, err := repository.NewPedidoRepository(c.db).ObterPorID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, salvo.Itens, 1)
	assert.Len(t, salvo.Propostas, 1)
	assert.True(t, salvo.NegociarPedido)
}

func TestPedido_CriarPeloAdministradorNaoIniciaNegociacao(t *testing.T) {
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	req := criarPedidoReq(c)
	req.NegociarPedido = ptr(false)
	resp, err := svc.Criar(context.Background(), atorAdmin, req)
	require.NoError(t, err)
	assert.Empty(t, resp.Propostas)

	salvo, err := repository.NewPedidoRepository(c.db).ObterPorID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.False(t, salvo.NegociarPedido)
}

func TestPedido_SemNegociacaoProdutorAceitaDireto(t *testing.T) {
	c := montarCenario(t)
	ctx := context.Background()
	svc := novoPedidoService(c, nil)

	req := criarPedidoReq(c)
	req.NegociarPedido = ptr(false)
	req.PermiteContato = ptr(false)
	criado, err := svc.Criar(ctx, c.atorProdutor(), req)
	require.NoError(t, err)
	require.Len(t, criado.Propostas, 1)

	fechado, err := svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), criado.ID, dto.PropostaProdutorRequest{Acao: "Aceitou"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPedidoFechado), fechado.Status)

	salvo, err := repository.NewPedidoRepository(c.db).ObterPorID(ctx, criado.ID)
	require.NoError(t, err)
	assert.False(t, salvo.PermiteContato)
	assert.Len(t, salvo.Propostas, 2)
}

func TestPedido_CriarRejeita(t *testing.T) {
	ctx := context.Background()

	t.Run("usuario sem vinculo", func(t *testing.T) {
		c := montarCenario(t)
		_, err := novoPedidoService(c, nil).Criar(ctx, c.atorIntruso(), criarPedidoReq(c))
		assert.ErrorIs(t, err, ErrProibido)
	})

	t.Run("produtor nao autorizado", func(t *testing.T) {
		c := montarCenario(t)
		require.NoError(t, c.db.Model(&model.Produtor{}).Where("id = ?", c.produtor.ID).
			Update("status", model.StatusProdutorNegado).Error)
		_, err := novoPedidoService(c, nil).Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
		assert.ErrorIs(t, err, ErrProibido)
	})

	t.Run("fornecedor inativo", func(t *testing.T) {
		c := montarCenario(t)
		require.NoError(t, c.db.Model(&model.Fornecedor{}).Where("id = ?", c.fornecedor.ID).
			Update("ativo", false).Error)
		_, err := novoPedidoService(c, nil).Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
		assert.ErrorIs(t, err, model.ErrArgumentoInvalido)
	})

	t.Run("produto de outro fornecedor", func(t *testing.T) {
		c := montarCenario(t)
		outro := &model.Fornecedor{Nome: "Outro", Cnpj: "11444777000161", MoedaPadrao: "BRL", Ativo: true}
		require.NoError(t, c.db.Create(outro).Error)
		req := criarPedidoReq(c)
		req.FornecedorID = outro.ID
		_, err := novoPedidoService(c, nil).Criar(ctx, c.atorProdutor(), req)
		assert.ErrorIs(t, err, model.ErrArgumentoInvalido)
	})

	t.Run("produto sem preco vigente", func(t *testing.T) {
		c := montarCenario(t)
		semPreco := &model.Produto{FornecedorID: c.fornecedor.ID, Codigo: "FERT-9", Nome: "Adubo", Unidade: "t", Categoria: "Fertilizantes", Ativo: true}
		require.NoError(t, c.db.Create(semPreco).Error)
		req := criarPedidoReq(c)
		req.Itens[0].ProdutoID = semPreco.ID
		_, err := novoPedidoService(c, nil).Criar(ctx, c.atorProdutor(), req)
		assert.ErrorIs(t, err, model.ErrArgumentoInvalido)
	})
}

// ── Negociação ────────────────────────────────────────────────────────────────

func TestPedido_NegociacaoAteFechamento(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	notif := &fakeNotificador{}
	svc := novoPedidoService(c, notif)

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	svc.avancar(24 * time.Hour)
	resp, err := svc.RegistrarPropostaFornecedor(ctx, c.atorFornecedor(), pedido.ID,
		dto.PropostaFornecedorRequest{Observacao: "Frete incluso para entrega em novembro"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPedidoEmNegociacao), resp.Status)
	assert.True(t, resp.DataLimiteInteracao.Equal(c.agora.Add(24*time.Hour+prazoTeste)))
	require.Len(t, resp.Propostas, 2)
	assert.Equal(t, "fornecedor", resp.Propostas[1].Autor)
	assert.Nil(t, resp.Propostas[1].AcaoComprador)
	assert.Equal(t, c.vincFornecedor.ID, *resp.Propostas[1].UsuarioFornecedorID)
	assert.Empty(t, notif.payloads)

	resp, err = svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), pedido.ID,
		dto.PropostaProdutorRequest{Acao: "Aceitou"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPedidoFechado), resp.Status)
	require.Len(t, notif.payloads, 1)
	assert.Equal(t, pedido.ID, notif.payloads[0].PedidoID)
	assert.Equal(t, model.StatusPedidoFechado, notif.payloads[0].Status)

	// closed orders accept nothing else
	_, err = svc.RegistrarPropostaFornecedor(ctx, c.atorFornecedor(), pedido.ID,
		dto.PropostaFornecedorRequest{Observacao: "Nova condição"})
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida)
	_, err = svc.AdicionarItem(ctx, c.atorProdutor(), pedido.ID,
		dto.AdicionarItemPedidoRequest{ProdutoID: c.produto.ID, Quantidade: dec("1")})
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida)

	propostas, err := svc.ListarPropostas(ctx, c.atorFornecedor(), pedido.ID)
	require.NoError(t, err)
	assert.Len(t, propostas, 3)
}

func TestPedido_AceitarSemPropostaDoFornecedor(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	_, err = svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), pedido.ID, dto.PropostaProdutorRequest{Acao: "Aceitou"})
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida)

	_, err = svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), pedido.ID, dto.PropostaProdutorRequest{Acao: "Iniciou"})
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida, "Iniciou só é aceito como primeira proposta")
}

func TestPedido_CancelamentoPeloComprador(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	notif := &fakeNotificador{}
	svc := novoPedidoService(c, notif)

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	resp, err := svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), pedido.ID,
		dto.PropostaProdutorRequest{Acao: "cancelou", Observacao: "Desisti"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPedidoCanceladoPeloComprador), resp.Status)
	assert.Empty(t, notif.payloads)

	_, err = svc.AgendarTransporte(ctx, c.atorProdutor(), pedido.ID, pedido.Itens[0].ID,
		dto.AgendarTransporteRequest{Quantidade: dec("1")})
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida)
}

func TestPedido_AutoriaDasPropostas(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	outro := &model.Fornecedor{Nome: "Outro", Cnpj: "11444777000161", MoedaPadrao: "BRL", Ativo: true}
	require.NoError(t, c.db.Create(outro).Error)
	u := &model.Usuario{Nome: "Bia", Email: "bia@outro.com", SenhaHash: "x", Rol: model.RolFornecedor, Ativo: true}
	require.NoError(t, c.db.Create(u).Error)
	require.NoError(t, c.db.Create(&model.UsuarioFornecedor{UsuarioID: u.ID, FornecedorID: outro.ID, Role: model.RoleFornecedorAdmin, Ativo: true}).Error)
	atorOutro := Ator{UsuarioID: u.ID, Rol: model.RolFornecedor}

	_, err = svc.RegistrarPropostaFornecedor(ctx, atorOutro, pedido.ID, dto.PropostaFornecedorRequest{Observacao: "Cubro a oferta"})
	assert.ErrorIs(t, err, ErrProibido)

	_, err = svc.RegistrarPropostaFornecedor(ctx, c.atorProdutor(), pedido.ID, dto.PropostaFornecedorRequest{Observacao: "x"})
	assert.ErrorIs(t, err, ErrProibido)

	_, err = svc.RegistrarPropostaProdutor(ctx, c.atorFornecedor(), pedido.ID, dto.PropostaProdutorRequest{Acao: "AlterouCarrinho"})
	assert.ErrorIs(t, err, ErrProibido)

	_, err = svc.RegistrarPropostaFornecedor(ctx, c.atorFornecedor(), pedido.ID, dto.PropostaFornecedorRequest{Observacao: "   "})
	assert.ErrorIs(t, err, model.ErrArgumentoInvalido)

	_, err = svc.ObterPorID(ctx, atorOutro, pedido.ID)
	assert.ErrorIs(t, err, ErrProibido)
	_, err = svc.ObterPorID(ctx, c.atorFornecedor(), pedido.ID)
	assert.NoError(t, err)
}

func TestPedido_NaoEncontrado(t *testing.T) {
	c := montarCenario(t)
	_, err := novoPedidoService(c, nil).ObterPorID(context.Background(), atorAdmin, 4242)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestPedido_FalhaAoNotificarNaoDesfazFechamento(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, &fakeNotificador{err: errors.New("redis fora do ar")})

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)
	_, err = svc.RegistrarPropostaFornecedor(ctx, c.atorFornecedor(), pedido.ID, dto.PropostaFornecedorRequest{Observacao: "ok"})
	require.NoError(t, err)
	resp, err := svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), pedido.ID, dto.PropostaProdutorRequest{Acao: "Aceitou"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPedidoFechado), resp.Status)
}

// ── Carrinho ──────────────────────────────────────────────────────────────────

func TestPedido_AlteracoesNoCarrinho(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	adubo := &model.Produto{FornecedorID: c.fornecedor.ID, Codigo: "FERT-1", Nome: "Adubo NPK", Unidade: "t", Categoria: "Fertilizantes", Ativo: true}
	require.NoError(t, c.db.Create(adubo).Error)
	catalogo := &model.Catalogo{
		FornecedorID: c.fornecedor.ID, SafraID: c.safra.ID, Nome: "Fertilizantes", Moeda: "BRL",
		DataInicio: c.agora.AddDate(0, 0, -1), Ativo: true,
		Itens: []model.CatalogoItem{{ProdutoID: adubo.ID, PrecoBase: dec("2500"), Ativo: true}},
	}
	require.NoError(t, c.db.Create(catalogo).Error)

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	svc.avancar(2 * time.Hour)
	resp, err := svc.AdicionarItem(ctx, c.atorProdutor(), pedido.ID,
		dto.AdicionarItemPedidoRequest{ProdutoID: adubo.ID, Quantidade: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QuantidadeItens)
	assert.True(t, resp.ValorTotal.Equal(dec("6425")), "got %s", resp.ValorTotal)
	assert.True(t, resp.DataLimiteInteracao.Equal(c.agora.Add(2*time.Hour+prazoTeste)))

	_, err = svc.AdicionarItem(ctx, c.atorProdutor(), pedido.ID,
		dto.AdicionarItemPedidoRequest{ProdutoID: adubo.ID, Quantidade: dec("1")})
	assert.ErrorIs(t, err, model.ErrArgumentoInvalido, "produto repetido")

	var itemAdubo int
	for _, it := range resp.Itens {
		if it.ProdutoID == adubo.ID {
			itemAdubo = it.ID
		}
	}
	require.NotZero(t, itemAdubo)

	resp, err = svc.AtualizarItem(ctx, c.atorProdutor(), pedido.ID, itemAdubo,
		dto.AtualizarItemPedidoRequest{Quantidade: dec("4"), PercentualDesconto: dec("10")})
	require.NoError(t, err)
	assert.True(t, resp.ValorTotal.Equal(dec("10425")), "got %s", resp.ValorTotal)

	_, err = svc.AtualizarItem(ctx, c.atorFornecedor(), pedido.ID, itemAdubo,
		dto.AtualizarItemPedidoRequest{Quantidade: dec("1")})
	assert.ErrorIs(t, err, ErrProibido, "apenas o comprador altera o carrinho")

	resp, err = svc.RemoverItem(ctx, c.atorProdutor(), pedido.ID, pedido.Itens[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QuantidadeItens)
	assert.True(t, resp.ValorTotal.Equal(dec("9000")))

	salvo, err := repository.NewPedidoRepository(c.db).ObterPorID(ctx, pedido.ID)
	require.NoError(t, err)
	require.Len(t, salvo.Itens, 1)
	assert.Equal(t, adubo.ID, salvo.Itens[0].ProdutoID)
	assert.True(t, salvo.ValorTotal.Equal(dec("9000")))
	assert.Equal(t, 1, salvo.QuantidadeItens)
}

func TestPedido_AgendarTransporte(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	pedido, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)
	itemID := pedido.Itens[0].ID

	item, err := svc.AgendarTransporte(ctx, c.atorFornecedor(), pedido.ID, itemID, dto.AgendarTransporteRequest{
		Quantidade: dec("6"), EnderecoDestino: ptr("Rod. BR-163 km 40"), ValorFrete: dec("300"),
	})
	require.NoError(t, err)
	require.Len(t, item.Transportes, 1)
	assert.NotZero(t, item.Transportes[0].ID)

	_, err = svc.AgendarTransporte(ctx, c.atorProdutor(), pedido.ID, itemID, dto.AgendarTransporteRequest{Quantidade: dec("5")})
	assert.ErrorIs(t, err, model.ErrArgumentoInvalido, "excede a quantidade do item")

	_, err = svc.AgendarTransporte(ctx, c.atorProdutor(), pedido.ID, 999, dto.AgendarTransporteRequest{Quantidade: dec("1")})
	assert.ErrorIs(t, err, ErrNaoEncontrado)

	_, err = svc.AtualizarItem(ctx, c.atorProdutor(), pedido.ID, itemID,
		dto.AtualizarItemPedidoRequest{Quantidade: dec("5")})
	assert.ErrorIs(t, err, model.ErrArgumentoInvalido, "quantidade abaixo da já agendada")
}

// ── Listagem ──────────────────────────────────────────────────────────────────

func TestPedido_ListarRestringePorVinculo(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	_, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)

	lista, err := svc.Listar(ctx, c.atorProdutor(), dto.ListarPedidosQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, lista.Total)

	lista, err = svc.Listar(ctx, c.atorFornecedor(), dto.ListarPedidosQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, lista.Total)

	_, err = svc.Listar(ctx, c.atorIntruso(), dto.ListarPedidosQuery{})
	assert.ErrorIs(t, err, ErrProibido)

	_, err = svc.Listar(ctx, c.atorIntruso(), dto.ListarPedidosQuery{ProdutorID: &c.produtor.ID})
	assert.ErrorIs(t, err, ErrProibido)

	lista, err = svc.Listar(ctx, atorAdmin, dto.ListarPedidosQuery{Status: "Fechado"})
	require.NoError(t, err)
	assert.Zero(t, lista.Total)

	_, err = svc.Listar(ctx, atorAdmin, dto.ListarPedidosQuery{Status: "Arquivado"})
	assert.ErrorIs(t, err, model.ErrArgumentoInvalido)
}

// ── Expiração ─────────────────────────────────────────────────────────────────

func TestPedido_ExpirarVencidos(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	notif := &fakeNotificador{}
	svc := novoPedidoService(c, notif)

	vencido1, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)
	vencido2, err := svc.Criar(ctx, atorAdmin, criarPedidoReq(c))
	require.NoError(t, err)
	fechado, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)
	_, err = svc.RegistrarPropostaFornecedor(ctx, c.atorFornecedor(), fechado.ID, dto.PropostaFornecedorRequest{Observacao: "ok"})
	require.NoError(t, err)
	_, err = svc.RegistrarPropostaProdutor(ctx, c.atorProdutor(), fechado.ID, dto.PropostaProdutorRequest{Acao: "Aceitou"})
	require.NoError(t, err)

	svc.avancar(prazoTeste + 24*time.Hour)
	recente, err := svc.Criar(ctx, c.atorProdutor(), criarPedidoReq(c))
	require.NoError(t, err)
	notif.payloads = nil

	n, err := svc.ExpirarVencidos(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	repo := repository.NewPedidoRepository(c.db)
	esperado := map[int]model.StatusPedido{
		vencido1.ID: model.StatusPedidoCanceladoPorTempoLimite,
		vencido2.ID: model.StatusPedidoCanceladoPorTempoLimite,
		fechado.ID:  model.StatusPedidoFechado,
		recente.ID:  model.StatusPedidoEmNegociacao,
	}
	for id, status := range esperado {
		p, err := repo.ObterPorID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, p.Status, "pedido %d", id)
	}

	require.Len(t, notif.payloads, 2)
	for _, pl := range notif.payloads {
		assert.Equal(t, model.StatusPedidoCanceladoPorTempoLimite, pl.Status)
	}

	n, err = svc.ExpirarVencidos(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "segunda varredura não encontra nada")

	_, err = svc.RegistrarPropostaFornecedor(ctx, c.atorFornecedor(), vencido1.ID, dto.PropostaFornecedorRequest{Observacao: "tarde demais"})
	assert.ErrorIs(t, err, model.ErrTransicaoInvalida)
}

func TestPedido_ExpirarVencidosEmLotes(t *testing.T) {
	ctx := context.Background()
	c := montarCenario(t)
	svc := novoPedidoService(c, nil)

	const total = loteExpiracao + 5
	for i := 0; i < total; i++ {
		p, err := model.NovoPedido(c.produtor.ID, c.fornecedor.ID, time.Hour, c.agora)
		require.NoError(t, err)
		require.NoError(t, c.db.Create(p).Error)
	}

	svc.avancar(2 * time.Hour)
	n, err := svc.ExpirarVencidos(ctx)
	require.NoError(t, err)
	assert.Equal(t, total, n)

	var abertos int64
	require.NoError(t, c.db.Model(&model.Pedido{}).Where("status = ?", model.StatusPedidoEmNegociacao).Count(&abertos).Error)
	assert.Zero(t, abertos)
}
