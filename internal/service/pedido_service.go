package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agriis/internal/dto"
	"agriis/internal/model"
	"agriis/internal/repository"
	"agriis/internal/worker"

	"github.com/rs/zerolog/log"
)

const loteExpiracao = 100

// NotificadorPedido publishes order status changes for asynchronous delivery.
type NotificadorPedido interface {
	EnqueueNotificacaoPedido(ctx context.Context, payload worker.NotificacaoPedidoPayload) error
}

type PedidoService interface {
	Criar(ctx context.Context, ator Ator, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	ObterPorID(ctx context.Context, ator Ator, id int) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, ator Ator, q dto.ListarPedidosQuery) (*dto.ListaPaginada[dto.PedidoResponse], error)
	AdicionarItem(ctx context.Context, ator Ator, pedidoID int, req dto.AdicionarItemPedidoRequest) (*dto.PedidoResponse, error)
	AtualizarItem(ctx context.Context, ator Ator, pedidoID, itemID int, req dto.AtualizarItemPedidoRequest) (*dto.PedidoResponse, error)
	RemoverItem(ctx context.Context, ator Ator, pedidoID, itemID int) (*dto.PedidoResponse, error)
	AgendarTransporte(ctx context.Context, ator Ator, pedidoID, itemID int, req dto.AgendarTransporteRequest) (*dto.PedidoItemResponse, error)
	RegistrarPropostaProdutor(ctx context.Context, ator Ator, pedidoID int, req dto.PropostaProdutorRequest) (*dto.PedidoResponse, error)
	RegistrarPropostaFornecedor(ctx context.Context, ator Ator, pedidoID int, req dto.PropostaFornecedorRequest) (*dto.PedidoResponse, error)
	ListarPropostas(ctx context.Context, ator Ator, pedidoID int) ([]dto.PropostaResponse, error)
	// ExpirarVencidos cancels every negotiating order whose deadline passed
	// and returns how many were moved to CanceladoPorTempoLimite.
	ExpirarVencidos(ctx context.Context) (int, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	produtores   repository.ProdutorRepository
	fornecedores repository.FornecedorRepository
	catalogos    repository.CatalogoRepository
	notificador  NotificadorPedido
	vinculos     vinculos
	prazo        time.Duration
	relogio      func() time.Time
}

// NewPedidoService wires the order negotiation flow. notificador may be nil,
// in which case status changes are not published.
func NewPedidoService(
	repo repository.PedidoRepository,
	produtores repository.ProdutorRepository,
	fornecedores repository.FornecedorRepository,
	catalogos repository.CatalogoRepository,
	notificador NotificadorPedido,
	prazo time.Duration,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		produtores:   produtores,
		fornecedores: fornecedores,
		catalogos:    catalogos,
		notificador:  notificador,
		vinculos:     vinculos{produtores: produtores, fornecedores: fornecedores},
		prazo:        prazo,
		relogio:      agoraUTC,
	}
}

func (s *pedidoService) Criar(ctx context.Context, ator Ator, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	var vinculo *model.UsuarioProdutor
	if !ator.Administrador() {
		v, err := s.vinculos.doProdutor(ctx, ator, req.ProdutorID)
		if err != nil {
			return nil, err
		}
		vinculo = v
	}

	produtor, err := s.produtores.ObterPorID(ctx, req.ProdutorID)
	if err != nil {
		return nil, traduzirErro(err, "produtor", req.ProdutorID)
	}
	if !produtor.Status.Autorizado() {
		return nil, fmt.Errorf("%w: produtor %d não está autorizado a comprar (%s)", ErrProibido, produtor.ID, produtor.Status)
	}
	fornecedor, err := s.fornecedores.ObterPorID(ctx, req.FornecedorID)
	if err != nil {
		return nil, traduzirErro(err, "fornecedor", req.FornecedorID)
	}
	if !fornecedor.Ativo {
		return nil, argInvalido("fornecedor %d está inativo", fornecedor.ID)
	}

	agora := s.relogio()
	p, err := model.NovoPedido(req.ProdutorID, req.FornecedorID, s.prazo, agora)
	if err != nil {
		return nil, err
	}
	if req.PermiteContato != nil {
		p.PermiteContato = *req.PermiteContato
	}
	if req.NegociarPedido != nil {
		p.NegociarPedido = *req.NegociarPedido
	}
	p.FormaPagamentoID = req.FormaPagamentoID
	p.Observacoes = req.Observacoes

	for _, in := range req.Itens {
		item, err := s.novoItem(ctx, p.FornecedorID, in, agora)
		if err != nil {
			return nil, err
		}
		if err := p.AdicionarItem(item, s.prazo, agora); err != nil {
			return nil, err
		}
	}

	var abertura *model.Proposta
	var abrir func(*model.Pedido) (*model.Proposta, error)
	if vinculo != nil {
		abrir = func(p *model.Pedido) (*model.Proposta, error) {
			prop, err := model.NovaPropostaProdutor(p.ID, model.AcaoIniciou, vinculo.ID, "")
			if err != nil {
				return nil, err
			}
			if err := p.RegistrarProposta(prop, s.prazo, agora); err != nil {
				return nil, err
			}
			abertura = prop
			return prop, nil
		}
	}
	if err := s.repo.Criar(ctx, p, abrir); err != nil {
		return nil, err
	}
	if abertura != nil {
		p.Propostas[len(p.Propostas)-1] = *abertura
	}

	log.Info().Int("pedido_id", p.ID).Int("produtor_id", p.ProdutorID).
		Int("fornecedor_id", p.FornecedorID).Str("valor_total", p.ValorTotal.StringFixed(2)).
		Msg("pedido criado")
	return pedidoToResponse(p), nil
}

// novoItem prices a cart line from the supplier's current catalogs.
func (s *pedidoService) novoItem(ctx context.Context, fornecedorID int, in dto.AdicionarItemPedidoRequest, agora time.Time) (*model.PedidoItem, error) {
	produto, err := s.catalogos.ObterProdutoPorID(ctx, in.ProdutoID)
	if err != nil {
		return nil, traduzirErro(err, "produto", in.ProdutoID)
	}
	if produto.FornecedorID != fornecedorID || !produto.Ativo {
		return nil, argInvalido("produto %d não é vendido pelo fornecedor %d", in.ProdutoID, fornecedorID)
	}
	preco, err := precoVigente(ctx, s.catalogos, fornecedorID, in.ProdutoID, agora)
	if err != nil {
		return nil, err
	}
	return model.NovoPedidoItem(in.ProdutoID, in.Quantidade, preco, in.PercentualDesconto, in.Observacoes)
}

func (s *pedidoService) ObterPorID(ctx context.Context, ator Ator, id int) (*dto.PedidoResponse, error) {
	p, err := s.carregar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.vinculos.exigirParte(ctx, ator, p); err != nil {
		return nil, err
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) Listar(ctx context.Context, ator Ator, q dto.ListarPedidosQuery) (*dto.ListaPaginada[dto.PedidoResponse], error) {
	filtro := repository.PedidoFiltro{
		ProdutorID:   q.ProdutorID,
		FornecedorID: q.FornecedorID,
		Desde:        q.Desde,
		Ate:          q.Ate,
		Paginacao:    repository.Paginacao{Pagina: q.Pagina, TamanhoPagina: q.TamanhoPagina}.Normalizar(),
	}
	if q.Status != "" {
		st := model.StatusPedido(q.Status)
		if !st.Valido() {
			return nil, argInvalido("status de pedido %q desconhecido", q.Status)
		}
		filtro.Status = &st
	}
	if err := s.restringirFiltro(ctx, ator, &filtro); err != nil {
		return nil, err
	}

	list, total, err := s.repo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListaPaginada[dto.PedidoResponse]{
		Itens:         make([]dto.PedidoResponse, len(list)),
		Total:         total,
		Pagina:        filtro.Pagina,
		TamanhoPagina: filtro.TamanhoPagina,
	}
	for i := range list {
		resp.Itens[i] = *pedidoToResponse(&list[i])
	}
	return resp, nil
}

// restringirFiltro limits non-admin listings to parties the user represents.
// Without an explicit party, the first linked producer (or supplier) is used.
func (s *pedidoService) restringirFiltro(ctx context.Context, ator Ator, f *repository.PedidoFiltro) error {
	if ator.Administrador() {
		return nil
	}
	if f.ProdutorID != nil {
		if _, err := s.vinculos.doProdutor(ctx, ator, *f.ProdutorID); err != nil {
			return err
		}
	}
	if f.FornecedorID != nil {
		if _, err := s.vinculos.doFornecedor(ctx, ator, *f.FornecedorID); err != nil {
			return err
		}
	}
	if f.ProdutorID != nil || f.FornecedorID != nil {
		return nil
	}

	produtores, err := s.produtores.ListarPorUsuario(ctx, ator.UsuarioID)
	if err != nil {
		return err
	}
	if len(produtores) > 0 {
		id := produtores[0].ID
		f.ProdutorID = &id
		return nil
	}
	fornecedores, err := s.fornecedores.ListarPorUsuario(ctx, ator.UsuarioID)
	if err != nil {
		return err
	}
	if len(fornecedores) > 0 {
		id := fornecedores[0].ID
		f.FornecedorID = &id
		return nil
	}
	return fmt.Errorf("%w: usuário %d não representa produtor nem fornecedor", ErrProibido, ator.UsuarioID)
}

func (s *pedidoService) AdicionarItem(ctx context.Context, ator Ator, pedidoID int, req dto.AdicionarItemPedidoRequest) (*dto.PedidoResponse, error) {
	p, err := s.carregarComoProdutor(ctx, ator, pedidoID)
	if err != nil {
		return nil, err
	}
	agora := s.relogio()
	item, err := s.novoItem(ctx, p.FornecedorID, req, agora)
	if err != nil {
		return nil, err
	}
	if err := p.AdicionarItem(item, s.prazo, agora); err != nil {
		return nil, err
	}
	salvo := &p.Itens[len(p.Itens)-1]
	if err := s.repo.SalvarItem(ctx, p, salvo); err != nil {
		return nil, err
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) AtualizarItem(ctx context.Context, ator Ator, pedidoID, itemID int, req dto.AtualizarItemPedidoRequest) (*dto.PedidoResponse, error) {
	p, err := s.carregarComoProdutor(ctx, ator, pedidoID)
	if err != nil {
		return nil, err
	}
	item, err := p.AtualizarItem(itemID, req.Quantidade, req.PercentualDesconto, s.prazo, s.relogio())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SalvarItem(ctx, p, item); err != nil {
		return nil, err
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) RemoverItem(ctx context.Context, ator Ator, pedidoID, itemID int) (*dto.PedidoResponse, error) {
	p, err := s.carregarComoProdutor(ctx, ator, pedidoID)
	if err != nil {
		return nil, err
	}
	if err := p.RemoverItem(itemID, s.prazo, s.relogio()); err != nil {
		return nil, err
	}
	if err := s.repo.RemoverItem(ctx, p, itemID); err != nil {
		return nil, err
	}
	return pedidoToResponse(p), nil
}

// AgendarTransporte schedules delivery for an item. Either party may schedule
// while the order is negotiating or closed.
func (s *pedidoService) AgendarTransporte(ctx context.Context, ator Ator, pedidoID, itemID int, req dto.AgendarTransporteRequest) (*dto.PedidoItemResponse, error) {
	p, err := s.carregar(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if err := s.vinculos.exigirParte(ctx, ator, p); err != nil {
		return nil, err
	}
	if p.Status != model.StatusPedidoEmNegociacao && p.Status != model.StatusPedidoFechado {
		return nil, fmt.Errorf("%w: pedido %d está %s", model.ErrTransicaoInvalida, p.ID, p.Status)
	}
	item := p.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("%w: item %d do pedido %d", ErrNaoEncontrado, itemID, pedidoID)
	}
	t := model.PedidoItemTransporte{
		Quantidade:      req.Quantidade,
		DataAgendamento: utcPtr(req.DataAgendamento),
		EnderecoOrigem:  req.EnderecoOrigem,
		EnderecoDestino: req.EnderecoDestino,
		ValorFrete:      req.ValorFrete,
		Observacoes:     req.Observacoes,
	}
	if err := item.AgendarTransporte(t); err != nil {
		return nil, err
	}
	novo := &item.Transportes[len(item.Transportes)-1]
	if err := s.repo.AgendarTransporte(ctx, novo); err != nil {
		return nil, err
	}
	resp := pedidoItemToResponse(item)
	return &resp, nil
}

func (s *pedidoService) RegistrarPropostaProdutor(ctx context.Context, ator Ator, pedidoID int, req dto.PropostaProdutorRequest) (*dto.PedidoResponse, error) {
	acao, err := model.ParseAcaoComprador(req.Acao)
	if err != nil {
		return nil, err
	}
	p, err := s.carregar(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	vinc, err := s.vinculos.doProdutor(ctx, ator, p.ProdutorID)
	if err != nil {
		return nil, err
	}
	prop, err := model.NovaPropostaProdutor(p.ID, acao, vinc.ID, req.Observacao)
	if err != nil {
		return nil, err
	}
	return s.registrar(ctx, p, prop)
}

func (s *pedidoService) RegistrarPropostaFornecedor(ctx context.Context, ator Ator, pedidoID int, req dto.PropostaFornecedorRequest) (*dto.PedidoResponse, error) {
	p, err := s.carregar(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	vinc, err := s.vinculos.doFornecedor(ctx, ator, p.FornecedorID)
	if err != nil {
		return nil, err
	}
	prop, err := model.NovaPropostaFornecedor(p.ID, req.Observacao, vinc.ID)
	if err != nil {
		return nil, err
	}
	return s.registrar(ctx, p, prop)
}

func (s *pedidoService) registrar(ctx context.Context, p *model.Pedido, prop *model.Proposta) (*dto.PedidoResponse, error) {
	anterior := p.Status
	if err := p.RegistrarProposta(prop, s.prazo, s.relogio()); err != nil {
		return nil, err
	}
	if err := s.repo.RegistrarProposta(ctx, p, prop); err != nil {
		if errors.Is(err, model.ErrTransicaoInvalida) {
			return nil, fmt.Errorf("%w: pedido %d foi alterado por outra operação", model.ErrTransicaoInvalida, p.ID)
		}
		return nil, err
	}
	p.Propostas[len(p.Propostas)-1] = *prop

	ev := log.Info().Int("pedido_id", p.ID).Str("status", string(p.Status))
	if prop.EhPropostaProdutor() {
		ev = ev.Str("acao", prop.Acao().String())
	}
	ev.Msg("proposta registrada")

	if anterior != p.Status && p.Status == model.StatusPedidoFechado {
		s.notificar(ctx, p)
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) ListarPropostas(ctx context.Context, ator Ator, pedidoID int) ([]dto.PropostaResponse, error) {
	p, err := s.carregar(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if err := s.vinculos.exigirParte(ctx, ator, p); err != nil {
		return nil, err
	}
	resp := make([]dto.PropostaResponse, len(p.Propostas))
	for i := range p.Propostas {
		resp[i] = propostaToResponse(&p.Propostas[i])
	}
	return resp, nil
}

// ExpirarVencidos walks overdue orders in batches. The status update is
// conditional, so an order closed concurrently is skipped and not counted.
func (s *pedidoService) ExpirarVencidos(ctx context.Context) (int, error) {
	agora := s.relogio()
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		lote, err := s.repo.ListarVencidos(ctx, agora, loteExpiracao)
		if err != nil {
			return total, err
		}
		progresso := 0
		for i := range lote {
			p := &lote[i]
			if err := p.CancelarPorTempoLimite(agora); err != nil {
				log.Warn().Err(err).Int("pedido_id", p.ID).Msg("pedido vencido ignorado")
				continue
			}
			n, err := s.repo.AtualizarStatus(ctx, p.ID, p.Status, agora)
			if err != nil {
				return total, fmt.Errorf("expirando pedido %d: %w", p.ID, err)
			}
			if n == 0 {
				continue
			}
			progresso++
			s.notificar(ctx, p)
		}
		total += progresso
		if len(lote) < loteExpiracao || progresso == 0 {
			break
		}
	}
	if total > 0 {
		log.Info().Int("pedidos", total).Msg("pedidos cancelados por tempo limite")
	}
	return total, nil
}

func (s *pedidoService) notificar(ctx context.Context, p *model.Pedido) {
	if s.notificador == nil {
		return
	}
	payload := worker.NotificacaoPedidoPayload{PedidoID: p.ID, Status: p.Status}
	if err := s.notificador.EnqueueNotificacaoPedido(ctx, payload); err != nil {
		log.Error().Err(err).Int("pedido_id", p.ID).Msg("falha ao enfileirar notificação do pedido")
	}
}

func (s *pedidoService) carregar(ctx context.Context, id int) (*model.Pedido, error) {
	p, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		return nil, traduzirErro(err, "pedido", id)
	}
	return p, nil
}

// carregarComoProdutor loads the order for a cart change, which only the
// buying side may perform.
func (s *pedidoService) carregarComoProdutor(ctx context.Context, ator Ator, id int) (*model.Pedido, error) {
	p, err := s.carregar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.vinculos.exigirProdutor(ctx, ator, p.ProdutorID); err != nil {
		return nil, err
	}
	return p, nil
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:                  p.ID,
		ProdutorID:          p.ProdutorID,
		FornecedorID:        p.FornecedorID,
		Status:              string(p.Status),
		PermiteContato:      p.PermiteContato,
		NegociarPedido:      p.NegociarPedido,
		DataLimiteInteracao: p.DataLimiteInteracao,
		ValorTotal:          p.ValorTotal,
		QuantidadeItens:     p.QuantidadeItens,
		FormaPagamentoID:    p.FormaPagamentoID,
		Observacoes:         p.Observacoes,
		DataCriacao:         p.DataCriacao,
		DataAtualizacao:     p.DataAtualizacao,
	}
	if len(p.Itens) > 0 {
		resp.Itens = make([]dto.PedidoItemResponse, len(p.Itens))
		for i := range p.Itens {
			resp.Itens[i] = pedidoItemToResponse(&p.Itens[i])
		}
	}
	if len(p.Propostas) > 0 {
		resp.Propostas = make([]dto.PropostaResponse, len(p.Propostas))
		for i := range p.Propostas {
			resp.Propostas[i] = propostaToResponse(&p.Propostas[i])
		}
	}
	return resp
}

func pedidoItemToResponse(it *model.PedidoItem) dto.PedidoItemResponse {
	resp := dto.PedidoItemResponse{
		ID:                 it.ID,
		ProdutoID:          it.ProdutoID,
		Quantidade:         it.Quantidade,
		PrecoUnitario:      it.PrecoUnitario,
		PercentualDesconto: it.PercentualDesconto,
		ValorDesconto:      it.ValorDesconto,
		ValorTotal:         it.ValorTotal,
		Observacoes:        it.Observacoes,
		Transportes:        make([]dto.PedidoItemTransporteResponse, len(it.Transportes)),
	}
	for i, t := range it.Transportes {
		resp.Transportes[i] = dto.PedidoItemTransporteResponse{
			ID:              t.ID,
			Quantidade:      t.Quantidade,
			DataAgendamento: t.DataAgendamento,
			EnderecoOrigem:  t.EnderecoOrigem,
			EnderecoDestino: t.EnderecoDestino,
			ValorFrete:      t.ValorFrete,
			Observacoes:     t.Observacoes,
		}
	}
	return resp
}

func propostaToResponse(p *model.Proposta) dto.PropostaResponse {
	resp := dto.PropostaResponse{
		ID:                  p.ID,
		PedidoID:            p.PedidoID,
		Observacao:          p.Observacao,
		UsuarioProdutorID:   p.UsuarioProdutorID,
		UsuarioFornecedorID: p.UsuarioFornecedorID,
		DataCriacao:         p.DataCriacao,
	}
	if p.EhPropostaProdutor() {
		resp.Autor = "produtor"
		acao := p.Acao().String()
		resp.AcaoComprador = &acao
	} else {
		resp.Autor = "fornecedor"
	}
	return resp
}
