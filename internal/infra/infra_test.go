package infra

import (
	"errors"
	"net/smtp"
	"os"
	"testing"
	"time"

	"agriis/internal/config"
	"agriis/internal/model"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_TripsAndRecovers(t *testing.T) {
	agora := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{Nome: "test", FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return agora }

	falha := errors.New("smtp down")
	assert.Equal(t, falha, cb.Execute(func() error { return falha }))
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, falha, cb.Execute(func() error { return falha }))
	assert.Equal(t, CBOpen, cb.State())

	chamado := false
	err := cb.Execute(func() error { chamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, chamado)

	agora = agora.Add(61 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	agora := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	cb.now = func() time.Time { return agora }

	_ = cb.Execute(func() error { return errors.New("x") })
	agora = agora.Add(2 * time.Second)
	_ = cb.Execute(func() error { return errors.New("x") })
	assert.Equal(t, CBOpen, cb.State())
}

func TestMailer_Enviar(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.local", SMTPPort: 2525, SMTPUser: "noreply@agriis.com"})
	var enviado *email.Email
	var addr string
	m.enviar = func(e *email.Email, a string, _ smtp.Auth) error {
		enviado, addr = e, a
		return nil
	}

	require.Error(t, m.Enviar(Mensagem{Assunto: "sem destino"}))

	require.NoError(t, m.Enviar(Mensagem{Para: []string{"ana@fazenda.com"}, Assunto: "Pedido 1", Corpo: "ok"}))
	assert.Equal(t, "smtp.local:2525", addr)
	assert.Equal(t, "noreply@agriis.com", enviado.From)
	assert.Equal(t, []string{"ana@fazenda.com"}, enviado.To)
	assert.True(t, m.Configurado())
	assert.False(t, NewMailer(&config.Config{}).Configurado())
}

func TestGerarResumoPedidoPDF(t *testing.T) {
	agora := time.Now().UTC()
	p, err := model.NovoPedido(1, 2, time.Hour, agora)
	require.NoError(t, err)
	p.ID = 42
	item, err := model.NovoPedidoItem(7, decimal.NewFromInt(3), decimal.NewFromInt(100), decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, p.AdicionarItem(item, time.Hour, agora))
	obs := "preço final com frete"
	p.Propostas = []model.Proposta{{PedidoID: 42, Observacao: &obs, UsuarioFornecedorID: new(int)}}
	p.Status = model.StatusPedidoFechado

	path, err := GerarResumoPedidoPDF(ResumoPedido{
		Pedido: p, NomeProdutor: "Fazenda São João", NomeFornecedor: "Insumos Cerrado",
		NomesProdutos: map[int]string{7: "Fertilizante NPK 04-14-08"}, GeradoEm: agora,
	}, t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
	assert.Contains(t, path, "pedido_42_Fechado.pdf")
}
