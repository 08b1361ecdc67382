package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carregar(t *testing.T) *Engine {
	t.Helper()
	e, err := Load()
	require.NoError(t, err)
	return e
}

func TestCategorizarEntradaContaCorrente(t *testing.T) {
	e := carregar(t)

	res := e.Categorizar("conta-corrente", "entrada", "PIX IFOOD COM AGENCIA", decimal.NewFromInt(350))
	assert.Equal(t, "REC_IFOOD", res.Categoria)
	assert.Nil(t, res.Subcategoria)
}

func TestCategorizarPatternsCompostos(t *testing.T) {
	e := carregar(t)

	// Ambos os padroes precisam estar na descricao
	res := e.Categorizar("conta-corrente", "entrada", "GRANITO PAGAMENTOS CRÉDITO LOJA", decimal.NewFromInt(1200))
	assert.Equal(t, "REC_GRANITO_CRED", res.Categoria)

	res = e.Categorizar("conta-corrente", "entrada", "GRANITO PAGAMENTOS DÉBITO LOJA", decimal.NewFromInt(800))
	assert.Equal(t, "REC_GRANITO_DEB", res.Categoria)
}

func TestCategorizarDepositoBoleto(t *testing.T) {
	e := carregar(t)

	res := e.Categorizar("conta-corrente", "entrada", "DEPÓSITO RECEBIDO POR BOLETO", decimal.NewFromInt(980))
	assert.Equal(t, "OP_SANGRIA", res.Categoria)
	require.NotNil(t, res.Subcategoria)
	assert.Equal(t, "boleto_caixinha", *res.Subcategoria)
}

func TestCategorizarLimiteDeValor(t *testing.T) {
	e := carregar(t)

	// Pagamento de fatura so casa abaixo de -5000
	res := e.Categorizar("conta-corrente", "saida", "NU PAGAMENTOS - FATURA", decimal.NewFromInt(-6000))
	assert.Equal(t, "OP_PAGAMENTO_FATURA", res.Categoria)

	res = e.Categorizar("conta-corrente", "saida", "NU PAGAMENTOS - FATURA", decimal.NewFromInt(-2000))
	assert.Equal(t, "A_CATEGORIZAR", res.Categoria)
}

func TestCategorizarCaixinhaMatchExato(t *testing.T) {
	e := carregar(t)

	res := e.Categorizar("caixinha", "saida", "  Frete ", decimal.NewFromInt(-30))
	assert.Equal(t, "VAR_FRETE", res.Categoria)

	res = e.Categorizar("caixinha", "saida", "transferência", decimal.NewFromInt(-900))
	assert.Equal(t, "OP_SANGRIA", res.Categoria)
	require.NotNil(t, res.Subcategoria)
	assert.Equal(t, "caixinha_para_banco", *res.Subcategoria)

	// "frete para o centro" nao e match exato
	res = e.Categorizar("caixinha", "saida", "frete para o centro", decimal.NewFromInt(-30))
	assert.Equal(t, "A_CATEGORIZAR", res.Categoria)
}

func TestCategorizarAmazonFicaPendente(t *testing.T) {
	e := carregar(t)

	res := e.Categorizar("cartao-credito", "saida", "AMAZON MARKETPLACE BR", decimal.NewFromInt(-120))
	assert.Equal(t, "A_CATEGORIZAR", res.Categoria)
}

func TestCategorizarFonteDesconhecida(t *testing.T) {
	e := carregar(t)

	res := e.Categorizar("poupanca", "entrada", "IFOOD", decimal.NewFromInt(100))
	assert.Equal(t, "A_CATEGORIZAR", res.Categoria)
}

func TestCategorizarPendenteAplicaRegra(t *testing.T) {
	e := carregar(t)

	res, pattern, aplicado := e.CategorizarPendente("COPEL DISTRIBUICAO S.A.")
	require.True(t, aplicado)
	assert.Equal(t, "FIX_ENERGIA", res.Categoria)
	assert.Equal(t, "COPEL", pattern)
	require.NotNil(t, res.Subcategoria)
	assert.Equal(t, "Copel", *res.Subcategoria)
}

func TestCategorizarPendenteAmazonEncerraSemAplicar(t *testing.T) {
	e := carregar(t)

	// A regra Amazon existe mas mantem o sentinela: nada a aplicar
	_, _, aplicado := e.CategorizarPendente("AMAZON SERVICOS DE VAREJO")
	assert.False(t, aplicado)
}

func TestCategorizarPendenteSemMatch(t *testing.T) {
	e := carregar(t)

	_, _, aplicado := e.CategorizarPendente("FORNECEDOR INEXISTENTE LTDA")
	assert.False(t, aplicado)
}
