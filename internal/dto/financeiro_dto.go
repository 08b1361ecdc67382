package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CategorizarLancamentoRequest struct {
	Categoria    string  `json:"categoria"    validate:"required"`
	Subcategoria *string `json:"subcategoria"`
	Notas        *string `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResumoImportacao totals one import batch.
type ResumoImportacao struct {
	Arquivo    string `json:"arquivo"`
	Fonte      string `json:"fonte"`
	Importados int    `json:"importados"`
	Duplicados int    `json:"duplicados"`
	Pendentes  int    `json:"pendentes"`
}

// ResumoConciliacao totals one reconciliation run.
type ResumoConciliacao struct {
	Conciliadas       int `json:"conciliadas"`
	DepositosSemPar   int `json:"depositos_sem_par"`
	SangriasSemPar    int `json:"sangrias_sem_par"`
	ComDiferenca      int `json:"com_diferenca"`
	TotalReconciliado int `json:"total_reconciliado"`
}

// ResumoCategorizacao totals one second-pass categorization run.
type ResumoCategorizacao struct {
	Analisados    int `json:"analisados"`
	Categorizados int `json:"categorizados"`
	Restantes     int `json:"restantes"`
}

// ─── DRE ─────────────────────────────────────────────────────────────────────
// Demonstrativo de resultados do mês. All amounts are positive magnitudes
// except FluxoCaixa.Sangrias, which keeps its sign.

type DREReceitas struct {
	GranitoCredito decimal.Decimal `json:"granito_credito"`
	GranitoDebito  decimal.Decimal `json:"granito_debito"`
	Pix            decimal.Decimal `json:"pix"`
	Ifood          decimal.Decimal `json:"ifood"`
	B2B            decimal.Decimal `json:"b2b"`
	Caixinha       decimal.Decimal `json:"caixinha"`
	Total          decimal.Decimal `json:"total"`
}

type DRECPV struct {
	Cafe    decimal.Decimal `json:"cafe"`
	Insumos decimal.Decimal `json:"insumos"`
	Bebidas decimal.Decimal `json:"bebidas"`
	Sorvete decimal.Decimal `json:"sorvete"`
	Outros  decimal.Decimal `json:"outros"`
	Total   decimal.Decimal `json:"total"`
}

type DREVariaveis struct {
	Frete      decimal.Decimal `json:"frete"`
	Embalagens decimal.Decimal `json:"embalagens"`
	Total      decimal.Decimal `json:"total"`
}

type DREFixas struct {
	Aluguel      decimal.Decimal `json:"aluguel"`
	Energia      decimal.Decimal `json:"energia"`
	Agua         decimal.Decimal `json:"agua"`
	PessoalCLT   decimal.Decimal `json:"pessoal_clt"`
	PessoalExtra decimal.Decimal `json:"pessoal_extra"`
	FGTS         decimal.Decimal `json:"fgts"`
	VR           decimal.Decimal `json:"vr"`
	Contador     decimal.Decimal `json:"contador"`
	Sistema      decimal.Decimal `json:"sistema"`
	Marketing    decimal.Decimal `json:"marketing"`
	Admin        decimal.Decimal `json:"admin"`
	Manutencao   decimal.Decimal `json:"manutencao"`
	Limpeza      decimal.Decimal `json:"limpeza"`
	Total        decimal.Decimal `json:"total"`
}

type DREImpostos struct {
	DAS   decimal.Decimal `json:"das"`
	INSS  decimal.Decimal `json:"inss"`
	IPTU  decimal.Decimal `json:"iptu"`
	Total decimal.Decimal `json:"total"`
}

type DREFluxoCaixa struct {
	Sangrias        decimal.Decimal `json:"sangrias"`
	Aplicacoes      decimal.Decimal `json:"aplicacoes"`
	PagamentoFatura decimal.Decimal `json:"pagamento_fatura"`
	PessoalSocio    decimal.Decimal `json:"pessoal_socio"`
	RetiradaLucro   decimal.Decimal `json:"retirada_lucro"`
}

type DRE struct {
	Mes              string          `json:"mes"` // YYYY-MM
	TotalLancamentos int             `json:"total_lancamentos"`
	Pendentes        int             `json:"pendentes"`
	Receitas         DREReceitas     `json:"receitas"`
	CPV              DRECPV          `json:"cpv"`
	LucroBruto       decimal.Decimal `json:"lucro_bruto"`
	MargemBruta      decimal.Decimal `json:"margem_bruta"`
	Variaveis        DREVariaveis    `json:"variaveis"`
	Fixas            DREFixas        `json:"fixas"`
	EBITDA           decimal.Decimal `json:"ebitda"`
	MargemEBITDA     decimal.Decimal `json:"margem_ebitda"`
	Investimentos    decimal.Decimal `json:"investimentos"`
	Impostos         DREImpostos     `json:"impostos"`
	LucroLiquido     decimal.Decimal `json:"lucro_liquido"`
	MargemLiquida    decimal.Decimal `json:"margem_liquida"`
	FluxoCaixa       DREFluxoCaixa   `json:"fluxo_caixa"`
	VariacaoCaixa    decimal.Decimal `json:"variacao_caixa"`
}
