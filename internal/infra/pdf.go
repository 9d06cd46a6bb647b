package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agriis/internal/model"

	"github.com/go-pdf/fpdf"
)

// ResumoPedido is what the order summary PDF prints besides the order itself.
type ResumoPedido struct {
	Pedido         *model.Pedido
	NomeProdutor   string
	NomeFornecedor string
	NomesProdutos  map[int]string
	GeradoEm       time.Time
}

var rotuloStatus = map[model.StatusPedido]string{
	model.StatusPedidoEmNegociacao:            "Em negociação",
	model.StatusPedidoFechado:                 "Fechado",
	model.StatusPedidoCanceladoPorTempoLimite: "Cancelado por tempo limite",
	model.StatusPedidoCanceladoPeloComprador:  "Cancelado pelo comprador",
}

// GerarResumoPedidoPDF writes an A4 summary of the order to
// storagePath/pedido_{id}_{status}.pdf and returns the file path.
func GerarResumoPedidoPDF(r ResumoPedido, storagePath string) (string, error) {
	if r.Pedido == nil {
		return "", fmt.Errorf("pdf: pedido nulo")
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: criar diretório: %w", err)
	}
	p := r.Pedido
	filePath := filepath.Join(storagePath, fmt.Sprintf("pedido_%d_%s.pdf", p.ID, p.Status))

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Agriis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Resumo do pedido Nº %d", p.ID)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	linhas := [][2]string{
		{"Produtor", r.NomeProdutor},
		{"Fornecedor", r.NomeFornecedor},
		{"Situação", rotuloStatus[p.Status]},
		{"Criado em", p.DataCriacao.Format("02/01/2006 15:04")},
		{"Prazo de interação", p.DataLimiteInteracao.Format("02/01/2006 15:04")},
	}
	for _, l := range linhas {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(40, 5, tr(l[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-40, 5, tr(l[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// items
	cols := []float64{contentW * 0.40, contentW * 0.14, contentW * 0.16, contentW * 0.12, contentW * 0.18}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Produto", "Qtd", "Preço unit.", "Desc. %", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 6, tr(h), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range p.Itens {
		nome := r.NomesProdutos[it.ProdutoID]
		if nome == "" {
			nome = fmt.Sprintf("Produto %d", it.ProdutoID)
		}
		if len([]rune(nome)) > 45 {
			nome = string([]rune(nome)[:44]) + "..."
		}
		pdf.CellFormat(cols[0], 5, tr(nome), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, it.Quantidade.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 5, it.PrecoUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, it.PercentualDesconto.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, it.ValorTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW-cols[4], 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(cols[4], 7, "R$ "+p.ValorTotal.StringFixed(2), "", 1, "R", false, 0, "")

	// negotiation history
	if len(p.Propostas) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, tr("Histórico da negociação"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, prop := range p.Propostas {
			autor := "Fornecedor"
			if prop.EhPropostaProdutor() {
				autor = "Produtor (" + prop.Acao().String() + ")"
			}
			texto := prop.DataCriacao.Format("02/01 15:04") + " " + autor
			if prop.Observacao != nil {
				texto += ": " + *prop.Observacao
			}
			pdf.MultiCell(contentW, 4, tr(texto), "", "L", false)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("Gerado em "+r.GeradoEm.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: gravar arquivo: %w", err)
	}
	return filePath, nil
}
