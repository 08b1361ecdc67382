package infra

// pdf.go — DRE report rendering using go-pdf/fpdf.
// Generates an A4 summary of the month's income statement: revenue by
// channel, cost blocks, margins and the non-operational cash flow.

import (
	"fmt"
	"os"
	"path/filepath"

	"cafeops/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GerarRelatorioPDF writes the income statement PDF to caminho.
func GerarRelatorioPDF(dre *dto.DRE, caminho string) error {
	if err := os.MkdirAll(filepath.Dir(caminho), 0o755); err != nil {
		return fmt.Errorf("pdf: create reports dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	periodo := dre.Mes
	if periodo == "" {
		periodo = "Geral"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Relatorio Financeiro - "+periodo, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("%d lancamentos | %d pendentes", dre.TotalLancamentos, dre.Pendentes),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	linha := func(rotulo string, valor decimal.Decimal, negrito bool) {
		estilo := ""
		if negrito {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 9)
		pdf.CellFormat(contentW*0.6, 6, rotulo, "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, "R$ "+valor.StringFixed(2), "B", 1, "R", false, 0, "")
	}
	secao := func(titulo string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, titulo, "", 1, "L", false, 0, "")
	}

	secao("Receita de Vendas")
	linha("Granito Credito", dre.Receitas.GranitoCredito, false)
	linha("Granito Debito", dre.Receitas.GranitoDebito, false)
	linha("PIX", dre.Receitas.Pix, false)
	linha("iFood", dre.Receitas.Ifood, false)
	linha("B2B", dre.Receitas.B2B, false)
	linha("Caixinha", dre.Receitas.Caixinha, false)
	linha("TOTAL RECEITA", dre.Receitas.Total, true)

	secao("Custo dos Produtos Vendidos")
	linha("Cafe", dre.CPV.Cafe, false)
	linha("Insumos", dre.CPV.Insumos, false)
	linha("Bebidas", dre.CPV.Bebidas, false)
	linha("Sorvete", dre.CPV.Sorvete, false)
	linha("Outros", dre.CPV.Outros, false)
	linha("TOTAL CPV", dre.CPV.Total, true)

	secao("Resultado")
	linha(fmt.Sprintf("Lucro Bruto (%s%%)", dre.MargemBruta.StringFixed(1)), dre.LucroBruto, true)
	linha("Despesas Variaveis", dre.Variaveis.Total, false)
	linha("Despesas Fixas", dre.Fixas.Total, false)
	linha(fmt.Sprintf("EBITDA (%s%%)", dre.MargemEBITDA.StringFixed(1)), dre.EBITDA, true)
	linha("Investimentos", dre.Investimentos, false)
	linha("Impostos", dre.Impostos.Total, false)
	linha(fmt.Sprintf("LUCRO LIQUIDO (%s%%)", dre.MargemLiquida.StringFixed(1)), dre.LucroLiquido, true)

	secao("Fluxo de Caixa (nao-DRE)")
	linha("Sangrias Caixinha -> Banco", dre.FluxoCaixa.Sangrias, false)
	linha("Aplicacoes Financeiras", dre.FluxoCaixa.Aplicacoes, false)
	linha("Pagamentos de Fatura", dre.FluxoCaixa.PagamentoFatura, false)
	linha("Despesas Pessoais (Socios)", dre.FluxoCaixa.PessoalSocio, false)
	linha("Retirada de Lucro", dre.FluxoCaixa.RetiradaLucro, false)
	linha("Variacao Caixa Liquida", dre.VariacaoCaixa, true)

	if err := pdf.OutputFileAndClose(caminho); err != nil {
		return fmt.Errorf("pdf: write %s: %w", caminho, err)
	}
	return nil
}
