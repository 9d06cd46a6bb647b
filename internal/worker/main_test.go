package worker

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"agriis/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Usuario{}, &model.RefreshToken{},
		&model.Produtor{}, &model.UsuarioProdutor{},
		&model.Fornecedor{}, &model.UsuarioFornecedor{},
		&model.Produto{}, &model.Catalogo{}, &model.CatalogoItem{},
		&model.Combo{}, &model.ComboItem{}, &model.ComboLocalRecebimento{}, &model.ComboCategoriaDesconto{},
		&model.Pedido{}, &model.PedidoItem{}, &model.PedidoItemTransporte{}, &model.Proposta{},
	))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }
