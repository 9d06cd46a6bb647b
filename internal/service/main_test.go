package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"agriis/internal/model"
	"agriis/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Usuario{}, &model.RefreshToken{},
		&model.Cultura{}, &model.Safra{},
		&model.Produtor{}, &model.UsuarioProdutor{},
		&model.Fornecedor{}, &model.UsuarioFornecedor{},
		&model.Propriedade{}, &model.PropriedadeCultura{},
		&model.Produto{}, &model.Catalogo{}, &model.CatalogoItem{},
		&model.FormaPagamento{}, &model.CulturaFormaPagamento{},
		&model.Segmentacao{}, &model.GrupoSegmentacao{}, &model.RegraDescontoSegmentacao{},
		&model.Combo{}, &model.ComboItem{}, &model.ComboLocalRecebimento{}, &model.ComboCategoriaDesconto{},
		&model.Pedido{}, &model.PedidoItem{}, &model.PedidoItemTransporte{}, &model.Proposta{},
	))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Scenario ──────────────────────────────────────────────────────────────────

// cenario is an authorized producer and an active supplier with one product
// priced in a current catalog, plus one linked user on each side.
type cenario struct {
	db    *gorm.DB
	agora time.Time

	produtor   *model.Produtor
	fornecedor *model.Fornecedor
	produto    *model.Produto
	safra      *model.Safra

	usuarioProdutor   *model.Usuario
	usuarioFornecedor *model.Usuario
	intruso           *model.Usuario
	vincProdutor      *model.UsuarioProdutor
	vincFornecedor    *model.UsuarioFornecedor
}

func (c cenario) atorProdutor() Ator {
	return Ator{UsuarioID: c.usuarioProdutor.ID, Rol: model.RolProdutor}
}

func (c cenario) atorFornecedor() Ator {
	return Ator{UsuarioID: c.usuarioFornecedor.ID, Rol: model.RolFornecedor}
}

func (c cenario) atorIntruso() Ator {
	return Ator{UsuarioID: c.intruso.ID, Rol: model.RolProdutor}
}

var atorAdmin = Ator{UsuarioID: 999, Rol: model.RolAdministrador}

func montarCenario(t *testing.T) cenario {
	t.Helper()
	db := newTestDB(t)
	c := cenario{db: db, agora: time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)}

	c.produtor = &model.Produtor{
		Nome: "Fazenda Boa Vista", Cpf: ptr("52998224725"),
		AreaPlantio: dec("350"), Status: model.StatusProdutorAutorizadoManualmente,
	}
	require.NoError(t, db.Create(c.produtor).Error)
	c.fornecedor = &model.Fornecedor{Nome: "Agro Insumos", Cnpj: "11222333000181", MoedaPadrao: "BRL", Ativo: true}
	require.NoError(t, db.Create(c.fornecedor).Error)

	c.usuarioProdutor = &model.Usuario{Nome: "João", Email: "joao@fazenda.com", SenhaHash: "x", Rol: model.RolProdutor, Ativo: true}
	c.usuarioFornecedor = &model.Usuario{Nome: "Ana", Email: "ana@agroinsumos.com", SenhaHash: "x", Rol: model.RolFornecedor, Ativo: true}
	c.intruso = &model.Usuario{Nome: "Pedro", Email: "pedro@outra.com", SenhaHash: "x", Rol: model.RolProdutor, Ativo: true}
	require.NoError(t, db.Create(c.usuarioProdutor).Error)
	require.NoError(t, db.Create(c.usuarioFornecedor).Error)
	require.NoError(t, db.Create(c.intruso).Error)

	c.vincProdutor = &model.UsuarioProdutor{UsuarioID: c.usuarioProdutor.ID, ProdutorID: c.produtor.ID, EhProprietario: true, Ativo: true}
	require.NoError(t, db.Create(c.vincProdutor).Error)
	c.vincFornecedor = &model.UsuarioFornecedor{UsuarioID: c.usuarioFornecedor.ID, FornecedorID: c.fornecedor.ID, Role: model.RoleFornecedorComercial, Ativo: true}
	require.NoError(t, db.Create(c.vincFornecedor).Error)

	c.safra = &model.Safra{
		PlantioInicial: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		PlantioFinal:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		PlantioNome:    "Verão", AnoColheita: 2025, Descricao: "Safra 24/25",
	}
	require.NoError(t, db.Create(c.safra).Error)

	c.produto = &model.Produto{FornecedorID: c.fornecedor.ID, Codigo: "SEM-01", Nome: "Semente de soja", Unidade: "sc", Categoria: "Sementes", Ativo: true}
	require.NoError(t, db.Create(c.produto).Error)
	catalogo := &model.Catalogo{
		FornecedorID: c.fornecedor.ID, SafraID: c.safra.ID, Nome: "Tabela 24/25", Moeda: "BRL",
		DataInicio: c.agora.AddDate(0, -1, 0), Ativo: true,
		Itens: []model.CatalogoItem{{ProdutoID: c.produto.ID, PrecoBase: dec("150.00"), Ativo: true}},
	}
	require.NoError(t, db.Create(catalogo).Error)
	return c
}

// fakeNotificador records enqueued order notifications.
type fakeNotificador struct {
	payloads []worker.NotificacaoPedidoPayload
	err      error
}

func (f *fakeNotificador) EnqueueNotificacaoPedido(_ context.Context, payload worker.NotificacaoPedidoPayload) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}
