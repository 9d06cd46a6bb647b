package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"agriis/internal/infra"
	"agriis/internal/model"
	"agriis/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// NotificacaoPedidoPayload is enqueued when an order reaches Fechado or CanceladoPorTempoLimite.
type NotificacaoPedidoPayload struct {
	PedidoID int                `json:"pedido_id"`
	Status   model.StatusPedido `json:"status"`
}

// EnviadorEmail is satisfied by *infra.Mailer.
type EnviadorEmail interface {
	Configurado() bool
	Enviar(msg infra.Mensagem) error
}

type NotificacaoPedidoWorkerConfig struct {
	Pedidos      repository.PedidoRepository
	Produtores   repository.ProdutorRepository
	Fornecedores repository.FornecedorRepository
	Usuarios     repository.UsuarioRepository
	Catalogos    repository.CatalogoRepository
	Mailer       EnviadorEmail
	CB           *infra.CircuitBreaker
	PDFPath      string
}

// NotificacaoPedidoWorker renders the order summary PDF and e-mails it to the
// producer's and supplier's users.
type NotificacaoPedidoWorker struct {
	cfg     NotificacaoPedidoWorkerConfig
	relogio func() time.Time
}

func NewNotificacaoPedidoWorker(cfg NotificacaoPedidoWorkerConfig) *NotificacaoPedidoWorker {
	return &NotificacaoPedidoWorker{cfg: cfg, relogio: func() time.Time { return time.Now().UTC() }}
}

func (w *NotificacaoPedidoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotificacaoPedidoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// malformed payloads never succeed; drop instead of retrying
		log.Error().Err(err).Msg("notificacao_worker: invalid payload")
		return nil
	}
	if !w.cfg.Mailer.Configurado() {
		log.Warn().Int("pedido_id", payload.PedidoID).Str("status", string(payload.Status)).
			Msg("notificacao_worker: SMTP não configurado, notificação ignorada")
		return nil
	}

	pedido, err := w.cfg.Pedidos.ObterPorID(ctx, payload.PedidoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Int("pedido_id", payload.PedidoID).Msg("notificacao_worker: pedido não existe mais")
		return nil
	}
	if err != nil {
		return fmt.Errorf("carregar pedido %d: %w", payload.PedidoID, err)
	}

	produtor, err := w.cfg.Produtores.ObterPorID(ctx, pedido.ProdutorID)
	if err != nil {
		return fmt.Errorf("carregar produtor %d: %w", pedido.ProdutorID, err)
	}
	fornecedor, err := w.cfg.Fornecedores.ObterPorID(ctx, pedido.FornecedorID)
	if err != nil {
		return fmt.Errorf("carregar fornecedor %d: %w", pedido.FornecedorID, err)
	}

	destinatarios, err := w.destinatarios(ctx, pedido, fornecedor)
	if err != nil {
		return err
	}
	if len(destinatarios) == 0 {
		log.Warn().Int("pedido_id", pedido.ID).Msg("notificacao_worker: nenhum destinatário, ignorando")
		return nil
	}

	nomes := make(map[int]string, len(pedido.Itens))
	for _, it := range pedido.Itens {
		if prod, err := w.cfg.Catalogos.ObterProdutoPorID(ctx, it.ProdutoID); err == nil {
			nomes[it.ProdutoID] = prod.Nome
		}
	}

	pdfPath, err := infra.GerarResumoPedidoPDF(infra.ResumoPedido{
		Pedido:         pedido,
		NomeProdutor:   produtor.Nome,
		NomeFornecedor: fornecedor.Nome,
		NomesProdutos:  nomes,
		GeradoEm:       w.relogio(),
	}, w.cfg.PDFPath)
	if err != nil {
		return err
	}
	defer os.Remove(pdfPath)

	msg := infra.Mensagem{
		Para:     destinatarios,
		Assunto:  assunto(pedido),
		Corpo:    corpo(pedido, produtor.Nome, fornecedor.Nome),
		AnexoPDF: pdfPath,
	}
	enviar := func() error { return w.cfg.Mailer.Enviar(msg) }
	if w.cfg.CB != nil {
		err = w.cfg.CB.Execute(enviar)
	} else {
		err = enviar()
	}
	if err != nil {
		return fmt.Errorf("enviar e-mail do pedido %d: %w", pedido.ID, err)
	}

	log.Info().Int("pedido_id", pedido.ID).Str("status", string(pedido.Status)).
		Int("destinatarios", len(destinatarios)).Msg("notificacao_worker: resumo enviado")
	return nil
}

func (w *NotificacaoPedidoWorker) destinatarios(ctx context.Context, p *model.Pedido, f *model.Fornecedor) ([]string, error) {
	vistos := map[string]bool{}
	var out []string
	add := func(e string) {
		e = strings.TrimSpace(e)
		if e == "" || vistos[strings.ToLower(e)] {
			return
		}
		vistos[strings.ToLower(e)] = true
		out = append(out, e)
	}

	usuariosProdutor, err := w.cfg.Usuarios.ListarPorProdutor(ctx, p.ProdutorID)
	if err != nil {
		return nil, fmt.Errorf("usuários do produtor: %w", err)
	}
	for _, u := range usuariosProdutor {
		add(u.Email)
	}
	if f.Email != nil {
		add(*f.Email)
	}
	usuariosFornecedor, err := w.cfg.Usuarios.ListarPorFornecedor(ctx, p.FornecedorID)
	if err != nil {
		return nil, fmt.Errorf("usuários do fornecedor: %w", err)
	}
	for _, u := range usuariosFornecedor {
		add(u.Email)
	}
	return out, nil
}

func assunto(p *model.Pedido) string {
	switch p.Status {
	case model.StatusPedidoFechado:
		return fmt.Sprintf("Agriis: pedido %d fechado", p.ID)
	case model.StatusPedidoCanceladoPorTempoLimite:
		return fmt.Sprintf("Agriis: pedido %d cancelado por tempo limite", p.ID)
	default:
		return fmt.Sprintf("Agriis: pedido %d atualizado", p.ID)
	}
}

func corpo(p *model.Pedido, produtor, fornecedor string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido %d entre %s e %s.\n", p.ID, produtor, fornecedor)
	fmt.Fprintf(&b, "Situação: %s\n", p.Status)
	fmt.Fprintf(&b, "Itens: %d\nValor total: R$ %s\n", p.QuantidadeItens, p.ValorTotal.StringFixed(2))
	if p.Status == model.StatusPedidoCanceladoPorTempoLimite {
		fmt.Fprintf(&b, "A negociação expirou em %s sem nova interação.\n", p.DataLimiteInteracao.Format("02/01/2006 15:04"))
	}
	b.WriteString("\nO resumo completo segue em anexo.\n")
	return b.String()
}
