package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

type RelatorioService interface {
	// Gerar computes the month's income statement from the ledger. An empty
	// month computes over the whole ledger.
	Gerar(ctx context.Context, mes string) (*dto.DRE, error)
	RenderMarkdown(dre *dto.DRE) string
}

type relatorioService struct {
	repo repository.LancamentoRepository
}

func NewRelatorioService(repo repository.LancamentoRepository) RelatorioService {
	return &relatorioService{repo: repo}
}

// ── Gerar ─────────────────────────────────────────────────────────────────────

func (s *relatorioService) Gerar(ctx context.Context, mes string) (*dto.DRE, error) {
	var lancamentos []model.Lancamento
	var err error
	if mes != "" {
		lancamentos, err = s.repo.ListPeriodo(ctx, mes)
	} else {
		lancamentos, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	porCategoria := make(map[string]decimal.Decimal)
	pendentes := 0
	for _, l := range lancamentos {
		porCategoria[l.Categoria] = porCategoria[l.Categoria].Add(l.Valor)
		if l.Pendente() {
			pendentes++
		}
	}
	soma := func(cat string) decimal.Decimal { return porCategoria[cat] }
	somaAbs := func(cat string) decimal.Decimal { return porCategoria[cat].Abs() }

	dre := &dto.DRE{
		Mes:              mes,
		TotalLancamentos: len(lancamentos),
		Pendentes:        pendentes,
	}

	dre.Receitas = dto.DREReceitas{
		GranitoCredito: soma("REC_GRANITO_CRED"),
		GranitoDebito:  soma("REC_GRANITO_DEB"),
		Pix:            soma("REC_PIX"),
		Ifood:          soma("REC_IFOOD"),
		B2B:            soma("REC_B2B").Add(soma("REC_B2B_A_VERIFICAR")),
		Caixinha:       soma("REC_CAIXINHA"),
	}
	dre.Receitas.Total = dre.Receitas.GranitoCredito.
		Add(dre.Receitas.GranitoDebito).
		Add(dre.Receitas.Pix).
		Add(dre.Receitas.Ifood).
		Add(dre.Receitas.B2B).
		Add(dre.Receitas.Caixinha)

	dre.CPV = dto.DRECPV{
		Cafe:    somaAbs("CPV_CAFE"),
		Insumos: somaAbs("CPV_INSUMOS"),
		Bebidas: somaAbs("CPV_BEBIDAS"),
		Sorvete: somaAbs("CPV_SORVETE"),
		Outros:  somaAbs("CPV_OUTROS"),
	}
	dre.CPV.Total = dre.CPV.Cafe.Add(dre.CPV.Insumos).Add(dre.CPV.Bebidas).
		Add(dre.CPV.Sorvete).Add(dre.CPV.Outros)

	dre.LucroBruto = dre.Receitas.Total.Sub(dre.CPV.Total)
	dre.MargemBruta = margem(dre.LucroBruto, dre.Receitas.Total)

	dre.Variaveis = dto.DREVariaveis{
		Frete:      somaAbs("VAR_FRETE"),
		Embalagens: somaAbs("VAR_EMBALAGENS"),
	}
	dre.Variaveis.Total = dre.Variaveis.Frete.Add(dre.Variaveis.Embalagens)

	dre.Fixas = dto.DREFixas{
		Aluguel:      somaAbs("FIX_ALUGUEL"),
		Energia:      somaAbs("FIX_ENERGIA"),
		Agua:         somaAbs("FIX_AGUA"),
		PessoalCLT:   somaAbs("FIX_PESSOAL_CLT"),
		PessoalExtra: somaAbs("FIX_PESSOAL_EXTRA"),
		FGTS:         somaAbs("FIX_FGTS"),
		VR:           somaAbs("FIX_VR"),
		Contador:     somaAbs("FIX_CONTADOR"),
		Sistema:      somaAbs("FIX_SISTEMA"),
		Marketing:    somaAbs("FIX_MARKETING"),
		Admin:        somaAbs("FIX_ADMIN"),
		Manutencao:   somaAbs("FIX_MANUTENCAO"),
		Limpeza:      somaAbs("FIX_LIMPEZA"),
	}
	dre.Fixas.Total = dre.Fixas.Aluguel.Add(dre.Fixas.Energia).Add(dre.Fixas.Agua).
		Add(dre.Fixas.PessoalCLT).Add(dre.Fixas.PessoalExtra).Add(dre.Fixas.FGTS).
		Add(dre.Fixas.VR).Add(dre.Fixas.Contador).Add(dre.Fixas.Sistema).
		Add(dre.Fixas.Marketing).Add(dre.Fixas.Admin).Add(dre.Fixas.Manutencao).
		Add(dre.Fixas.Limpeza)

	dre.EBITDA = dre.LucroBruto.Sub(dre.Variaveis.Total).Sub(dre.Fixas.Total)
	dre.MargemEBITDA = margem(dre.EBITDA, dre.Receitas.Total)

	dre.Investimentos = somaAbs("INV_EQUIPAMENTO")

	dre.Impostos = dto.DREImpostos{
		DAS:  somaAbs("IMP_DAS"),
		INSS: somaAbs("IMP_INSS"),
		IPTU: somaAbs("IMP_IPTU"),
	}
	dre.Impostos.Total = dre.Impostos.DAS.Add(dre.Impostos.INSS).Add(dre.Impostos.IPTU)

	dre.LucroLiquido = dre.EBITDA.Sub(dre.Investimentos).Sub(dre.Impostos.Total)
	dre.MargemLiquida = margem(dre.LucroLiquido, dre.Receitas.Total)

	// Movimentacoes fora do DRE. Sangrias mantem o sinal: liquido negativo
	// no caixinha significa retirada pelos socios.
	sangrias := soma("OP_SANGRIA")
	dre.FluxoCaixa = dto.DREFluxoCaixa{
		Sangrias:        sangrias,
		Aplicacoes:      somaAbs("OP_TRANSFERENCIA"),
		PagamentoFatura: somaAbs("OP_PAGAMENTO_FATURA"),
		PessoalSocio:    somaAbs("PESSOAL_SOCIO"),
	}
	if sangrias.IsNegative() {
		dre.FluxoCaixa.RetiradaLucro = sangrias.Abs()
	}

	dre.VariacaoCaixa = dre.LucroLiquido.
		Sub(dre.FluxoCaixa.Aplicacoes).
		Sub(dre.FluxoCaixa.RetiradaLucro).
		Sub(dre.FluxoCaixa.PessoalSocio)

	return dre, nil
}

func margem(parte, receita decimal.Decimal) decimal.Decimal {
	if receita.IsZero() {
		return decimal.Zero
	}
	return parte.Div(receita).Mul(cem)
}

// ── RenderMarkdown ────────────────────────────────────────────────────────────

func (s *relatorioService) RenderMarkdown(dre *dto.DRE) string {
	periodo := dre.Mes
	if periodo == "" {
		periodo = "Geral"
	}
	categorizados := dre.TotalLancamentos - dre.Pendentes
	pctCategorizados := 0.0
	if dre.TotalLancamentos > 0 {
		pctCategorizados = float64(categorizados) / float64(dre.TotalLancamentos) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Relatório Financeiro - %s\n\n", periodo)
	fmt.Fprintf(&b, "> Gerado em: %s\n\n---\n\n", time.Now().Format("02/01/2006"))

	b.WriteString("## Verificação de Integridade\n\n")
	b.WriteString("| Métrica | Valor |\n|---------|-------|\n")
	fmt.Fprintf(&b, "| Total de lançamentos | %d |\n", dre.TotalLancamentos)
	fmt.Fprintf(&b, "| Categorizados | %d (%.1f%%) |\n", categorizados, pctCategorizados)
	fmt.Fprintf(&b, "| Pendentes | %d |\n\n---\n\n", dre.Pendentes)

	b.WriteString("## DRE - Demonstração do Resultado\n\n")
	b.WriteString("### Receita de Vendas\n\n| Canal | Valor |\n|-------|-------|\n")
	fmt.Fprintf(&b, "| Granito Crédito | %s |\n", reais(dre.Receitas.GranitoCredito))
	fmt.Fprintf(&b, "| Granito Débito | %s |\n", reais(dre.Receitas.GranitoDebito))
	fmt.Fprintf(&b, "| PIX | %s |\n", reais(dre.Receitas.Pix))
	fmt.Fprintf(&b, "| iFood | %s |\n", reais(dre.Receitas.Ifood))
	fmt.Fprintf(&b, "| B2B | %s |\n", reais(dre.Receitas.B2B))
	fmt.Fprintf(&b, "| Caixinha | %s |\n", reais(dre.Receitas.Caixinha))
	fmt.Fprintf(&b, "| **TOTAL RECEITA** | **%s** |\n\n", reais(dre.Receitas.Total))

	b.WriteString("### Custo dos Produtos Vendidos (CPV)\n\n| Item | Valor |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Café | %s |\n", reais(dre.CPV.Cafe))
	fmt.Fprintf(&b, "| Insumos | %s |\n", reais(dre.CPV.Insumos))
	fmt.Fprintf(&b, "| Bebidas | %s |\n", reais(dre.CPV.Bebidas))
	fmt.Fprintf(&b, "| Sorvete | %s |\n", reais(dre.CPV.Sorvete))
	fmt.Fprintf(&b, "| Outros | %s |\n", reais(dre.CPV.Outros))
	fmt.Fprintf(&b, "| **TOTAL CPV** | **%s** |\n\n", reais(dre.CPV.Total))

	b.WriteString("### Lucro Bruto\n\n| | Valor | % |\n|---|-------|---|\n")
	fmt.Fprintf(&b, "| **LUCRO BRUTO** | **%s** | **%s%%** |\n\n", reais(dre.LucroBruto), pct(dre.MargemBruta))

	b.WriteString("### Despesas Variáveis\n\n| Item | Valor |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Frete | %s |\n", reais(dre.Variaveis.Frete))
	fmt.Fprintf(&b, "| Embalagens | %s |\n", reais(dre.Variaveis.Embalagens))
	fmt.Fprintf(&b, "| **TOTAL VARIÁVEIS** | **%s** |\n\n", reais(dre.Variaveis.Total))

	b.WriteString("### Despesas Fixas\n\n| Item | Valor |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Aluguel | %s |\n", reais(dre.Fixas.Aluguel))
	fmt.Fprintf(&b, "| Energia | %s |\n", reais(dre.Fixas.Energia))
	fmt.Fprintf(&b, "| Água | %s |\n", reais(dre.Fixas.Agua))
	fmt.Fprintf(&b, "| Pessoal CLT | %s |\n", reais(dre.Fixas.PessoalCLT))
	fmt.Fprintf(&b, "| Pessoal Extra | %s |\n", reais(dre.Fixas.PessoalExtra))
	fmt.Fprintf(&b, "| FGTS | %s |\n", reais(dre.Fixas.FGTS))
	fmt.Fprintf(&b, "| Vale Refeição | %s |\n", reais(dre.Fixas.VR))
	fmt.Fprintf(&b, "| Contador | %s |\n", reais(dre.Fixas.Contador))
	fmt.Fprintf(&b, "| Sistemas | %s |\n", reais(dre.Fixas.Sistema))
	fmt.Fprintf(&b, "| Marketing | %s |\n", reais(dre.Fixas.Marketing))
	fmt.Fprintf(&b, "| Admin | %s |\n", reais(dre.Fixas.Admin))
	fmt.Fprintf(&b, "| Manutenção | %s |\n", reais(dre.Fixas.Manutencao))
	fmt.Fprintf(&b, "| Limpeza | %s |\n", reais(dre.Fixas.Limpeza))
	fmt.Fprintf(&b, "| **TOTAL FIXAS** | **%s** |\n\n", reais(dre.Fixas.Total))

	b.WriteString("### EBITDA\n\n| | Valor | % |\n|---|-------|---|\n")
	fmt.Fprintf(&b, "| **EBITDA** | **%s** | **%s%%** |\n\n", reais(dre.EBITDA), pct(dre.MargemEBITDA))

	b.WriteString("### Investimentos e Impostos\n\n| Item | Valor |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Investimentos (CAPEX) | %s |\n", reais(dre.Investimentos))
	fmt.Fprintf(&b, "| DAS Simples | %s |\n", reais(dre.Impostos.DAS))
	fmt.Fprintf(&b, "| INSS (Folha) | %s |\n", reais(dre.Impostos.INSS))
	fmt.Fprintf(&b, "| IPTU | %s |\n", reais(dre.Impostos.IPTU))
	fmt.Fprintf(&b, "| **TOTAL IMPOSTOS** | **%s** |\n\n", reais(dre.Impostos.Total))

	b.WriteString("### Resultado Final\n\n| | Valor | % |\n|---|-------|---|\n")
	fmt.Fprintf(&b, "| **LUCRO LÍQUIDO** | **%s** | **%s%%** |\n\n---\n\n", reais(dre.LucroLiquido), pct(dre.MargemLiquida))

	b.WriteString("## Indicadores\n\n| Indicador | Valor | Benchmark |\n|-----------|-------|-----------|\n")
	fmt.Fprintf(&b, "| Margem Bruta | %s%% | > 50%% |\n", pct(dre.MargemBruta))
	fmt.Fprintf(&b, "| CPV / Receita | %s%% | < 40%% |\n", pct(margem(dre.CPV.Total, dre.Receitas.Total)))
	pessoal := dre.Fixas.PessoalCLT.Add(dre.Fixas.PessoalExtra).Add(dre.Fixas.FGTS).Add(dre.Fixas.VR)
	fmt.Fprintf(&b, "| Pessoal / Receita | %s%% | < 25%% |\n", pct(margem(pessoal, dre.Receitas.Total)))
	fmt.Fprintf(&b, "| Margem EBITDA | %s%% | > 15%% |\n", pct(dre.MargemEBITDA))
	fmt.Fprintf(&b, "| Margem Líquida | %s%% | > 10%% |\n\n---\n\n", pct(dre.MargemLiquida))

	b.WriteString("## Fluxo de Caixa (Movimentações não-DRE)\n\n")
	b.WriteString("Estas movimentações não afetam o resultado operacional mas impactam o caixa disponível:\n\n")
	b.WriteString("| Item | Valor | Observação |\n|------|-------|------------|\n")
	fmt.Fprintf(&b, "| Lucro Líquido (DRE) | %s | Resultado operacional |\n", reais(dre.LucroLiquido))
	fmt.Fprintf(&b, "| (-) Aplicações Financeiras | %s | CDB/RDB |\n", reais(dre.FluxoCaixa.Aplicacoes))
	fmt.Fprintf(&b, "| (-) Retirada de Lucro (Sócios) | %s | Diferença sangrias vs depósitos |\n", reais(dre.FluxoCaixa.RetiradaLucro))
	fmt.Fprintf(&b, "| (-) Despesas Pessoais | %s | Gastos pessoais no cartão empresa |\n", reais(dre.FluxoCaixa.PessoalSocio))
	fmt.Fprintf(&b, "| **= Variação Caixa Líquida** | **%s** | Efetivamente disponível |\n\n", reais(dre.VariacaoCaixa))

	b.WriteString("### Detalhamento Operacional\n\n| Operação | Valor |\n|----------|-------|\n")
	fmt.Fprintf(&b, "| Sangrias Caixinha → Banco | %s |\n", reais(dre.FluxoCaixa.Sangrias))
	fmt.Fprintf(&b, "| Pagamentos de Fatura | %s |\n\n", reais(dre.FluxoCaixa.PagamentoFatura))
	b.WriteString("> **Nota:** Sangrias e pagamentos de fatura são movimentações internas (dinheiro trocando de lugar) e não afetam o patrimônio total.\n\n---\n\n")

	b.WriteString("## Observações\n\n")
	b.WriteString("- Os valores de receita PIX incluem todas as transferências recebidas de clientes\n")
	b.WriteString("- Sangrias do caixinha para conta corrente são operações internas e não entram no DRE\n")
	b.WriteString("- Pagamentos de fatura de cartão são operações internas\n")
	b.WriteString("- Retirada de lucro = sangrias do caixinha que não foram depositadas na conta (retiradas pelos sócios)\n")

	return b.String()
}

// reais formats a value as pt-BR currency: "R$ 1.234,56".
func reais(v decimal.Decimal) string {
	negativo := v.IsNegative()
	fixo := v.Abs().StringFixed(2)

	inteiro := fixo[:len(fixo)-3]
	centavos := fixo[len(fixo)-2:]

	var grupos []string
	for len(inteiro) > 3 {
		grupos = append([]string{inteiro[len(inteiro)-3:]}, grupos...)
		inteiro = inteiro[:len(inteiro)-3]
	}
	grupos = append([]string{inteiro}, grupos...)

	s := "R$ " + strings.Join(grupos, ".") + "," + centavos
	if negativo {
		s = "R$ -" + s[3:]
	}
	return s
}

func pct(v decimal.Decimal) string {
	return v.StringFixed(1)
}
