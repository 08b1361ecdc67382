package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"
	"cafeops/internal/rules"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory LancamentoRepository ───────────────────────────────────────────

type fakeLancamentoRepo struct {
	lancamentos []*model.Lancamento
	recs        []model.Reconciliacao
}

func (r *fakeLancamentoRepo) Create(_ context.Context, l *model.Lancamento) error {
	r.lancamentos = append(r.lancamentos, l)
	return nil
}

func (r *fakeLancamentoRepo) Existe(_ context.Context, fitid, data string, valor decimal.Decimal, descricao string) (bool, error) {
	for _, l := range r.lancamentos {
		if fitid != "" && l.FitID == fitid {
			return true, nil
		}
		if l.Data == data && l.DescricaoOriginal == descricao &&
			l.Valor.Sub(valor).Abs().LessThan(decimal.NewFromFloat(0.01)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLancamentoRepo) FindByID(_ context.Context, id string) (*model.Lancamento, error) {
	for _, l := range r.lancamentos {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeLancamentoRepo) CountByFonte(_ context.Context, fonte string) (int64, error) {
	var n int64
	for _, l := range r.lancamentos {
		if l.Fonte == fonte {
			n++
		}
	}
	return n, nil
}

func (r *fakeLancamentoRepo) ListPendentes(_ context.Context) ([]model.Lancamento, error) {
	var out []model.Lancamento
	for _, l := range r.lancamentos {
		if l.Pendente() {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLancamentoRepo) ListPeriodo(_ context.Context, mes string) ([]model.Lancamento, error) {
	var out []model.Lancamento
	for _, l := range r.lancamentos {
		if strings.HasPrefix(l.Data, mes) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLancamentoRepo) ListAll(_ context.Context) ([]model.Lancamento, error) {
	var out []model.Lancamento
	for _, l := range r.lancamentos {
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeLancamentoRepo) ListPorFonteCategoria(_ context.Context, fonte, categoria string) ([]model.Lancamento, error) {
	var out []model.Lancamento
	for _, l := range r.lancamentos {
		if l.Fonte == fonte && l.Categoria == categoria {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLancamentoRepo) Update(_ context.Context, l *model.Lancamento) error {
	for i := range r.lancamentos {
		if r.lancamentos[i].ID == l.ID {
			copia := *l
			r.lancamentos[i] = &copia
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeLancamentoRepo) CreateReconciliacao(_ context.Context, rec *model.Reconciliacao) error {
	rec.CreatedAt = time.Now()
	r.recs = append(r.recs, *rec)
	return nil
}

func (r *fakeLancamentoRepo) CountReconciliacoes(_ context.Context) (int64, error) {
	return int64(len(r.recs)), nil
}

func (r *fakeLancamentoRepo) ListReconciliacoes(_ context.Context) ([]model.Reconciliacao, error) {
	return r.recs, nil
}

var _ repository.LancamentoRepository = (*fakeLancamentoRepo)(nil)

func porID(t *testing.T, repo *fakeLancamentoRepo, id string) *model.Lancamento {
	t.Helper()
	l, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return l
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

const csvCaixinha = `Data,Descricao,Valor,Tipo
10/01/2025,Clientes revenda,"850,50",CRÉDITO
12/01/2025,Compras mercadoria,"120,00",DÉBITO
`

const ofxCartao = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250131120000
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0260
<ACCTID>12345678
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250101120000
<DTEND>20250131120000
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250115120000
<TRNAMT>320.00
<FITID>card001
<MEMO>FACEBK ADS
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>320.00
<DTASOF>20250131120000
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func novoImportacao(t *testing.T) (ImportacaoService, *fakeLancamentoRepo) {
	t.Helper()
	engine, err := rules.Load()
	require.NoError(t, err)
	repo := &fakeLancamentoRepo{}
	return NewImportacaoService(repo, engine), repo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestImportarCaixinha(t *testing.T) {
	svc, repo := novoImportacao(t)

	resumo, err := svc.Importar(context.Background(), model.FonteCaixinha, "caixinha-jan.csv",
		strings.NewReader(csvCaixinha))
	require.NoError(t, err)

	assert.Equal(t, 2, resumo.Importados)
	assert.Equal(t, 0, resumo.Duplicados)
	assert.Equal(t, 0, resumo.Pendentes)
	require.Len(t, repo.lancamentos, 2)

	entrada := porID(t, repo, "cx_20250110_001")
	assert.Equal(t, "REC_CAIXINHA", entrada.Categoria)
	assert.Equal(t, "850.5", entrada.Valor.String())
	assert.Equal(t, "entrada", entrada.Tipo)

	saida := porID(t, repo, "cx_20250112_002")
	assert.Equal(t, "CPV_INSUMOS", saida.Categoria)
	assert.Equal(t, "-120", saida.Valor.String())
}

func TestImportarDeduplicaPorFitID(t *testing.T) {
	svc, repo := novoImportacao(t)

	_, err := svc.Importar(context.Background(), model.FonteCaixinha, "a.csv", strings.NewReader(csvCaixinha))
	require.NoError(t, err)

	resumo, err := svc.Importar(context.Background(), model.FonteCaixinha, "b.csv", strings.NewReader(csvCaixinha))
	require.NoError(t, err)

	assert.Equal(t, 0, resumo.Importados)
	assert.Equal(t, 2, resumo.Duplicados)
	assert.Len(t, repo.lancamentos, 2)
}

// Duplicate bank rows keep their own FITID on some re-exports; the date,
// amount and description triple still has to catch them.
const ofxFitIDsDistintos = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250131120000
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0260
<ACCTID>12345678
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250101120000
<DTEND>20250131120000
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250110120000
<TRNAMT>350.00
<FITID>abc001
<MEMO>PIX DE CLIENTE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250110120000
<TRNAMT>350.00
<FITID>abc002
<MEMO>PIX DE CLIENTE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>700.00
<DTASOF>20250131120000
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestImportarDeduplicaPorDataValorDescricao(t *testing.T) {
	svc, repo := novoImportacao(t)

	resumo, err := svc.Importar(context.Background(), model.FonteContaCorrente, "extrato-jan.ofx",
		strings.NewReader(ofxFitIDsDistintos))
	require.NoError(t, err)

	assert.Equal(t, 1, resumo.Importados)
	assert.Equal(t, 1, resumo.Duplicados)
	require.Len(t, repo.lancamentos, 1)
	assert.Equal(t, "abc001", repo.lancamentos[0].FitID)
	assert.Equal(t, "REC_PIX", repo.lancamentos[0].Categoria)
}

func TestImportarCartaoForcaSaida(t *testing.T) {
	svc, repo := novoImportacao(t)

	resumo, err := svc.Importar(context.Background(), model.FonteCartaoCredito, "fatura-jan.ofx",
		strings.NewReader(ofxCartao))
	require.NoError(t, err)
	require.Equal(t, 1, resumo.Importados)

	// Extrato de cartao so traz gastos: o credito vira saida negativa
	l := porID(t, repo, "cart_20250115_001")
	assert.Equal(t, "saida", l.Tipo)
	assert.Equal(t, "-320", l.Valor.String())
	assert.Equal(t, "FIX_MARKETING", l.Categoria)
}

func TestImportarFonteDesconhecida(t *testing.T) {
	svc, _ := novoImportacao(t)

	_, err := svc.Importar(context.Background(), "poupanca", "x.ofx", strings.NewReader(""))
	assert.ErrorContains(t, err, "fonte desconhecida")
}

func TestCategorizarPendentes(t *testing.T) {
	svc, repo := novoImportacao(t)
	repo.lancamentos = []*model.Lancamento{
		{
			ID: "cc_20250110_001", Fonte: model.FonteContaCorrente, Data: "2025-01-10",
			Valor: decimal.NewFromInt(-200), Tipo: "saida",
			DescricaoOriginal: "COPEL DISTRIBUICAO S.A.", Categoria: model.CategoriaPendente,
		},
		{
			ID: "cart_20250112_001", Fonte: model.FonteCartaoCredito, Data: "2025-01-12",
			Valor: decimal.NewFromInt(-90), Tipo: "saida",
			DescricaoOriginal: "AMAZON MARKETPLACE", Categoria: model.CategoriaPendente,
		},
	}

	resumo, err := svc.CategorizarPendentes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resumo.Analisados)
	assert.Equal(t, 1, resumo.Categorizados)
	assert.Equal(t, 1, resumo.Restantes)

	copel := porID(t, repo, "cc_20250110_001")
	assert.Equal(t, "FIX_ENERGIA", copel.Categoria)
	require.NotNil(t, copel.Notas)
	assert.Equal(t, "Categorizado automaticamente por regra: COPEL", *copel.Notas)

	// Amazon permanece pendente para decisao manual
	amazon := porID(t, repo, "cart_20250112_001")
	assert.Equal(t, model.CategoriaPendente, amazon.Categoria)
}

func TestCategorizarManual(t *testing.T) {
	svc, repo := novoImportacao(t)
	repo.lancamentos = []*model.Lancamento{
		{
			ID: "cart_20250112_001", Fonte: model.FonteCartaoCredito, Data: "2025-01-12",
			Valor: decimal.NewFromInt(-90), Tipo: "saida",
			DescricaoOriginal: "AMAZON MARKETPLACE", Categoria: model.CategoriaPendente,
		},
	}

	sub := "Amazon"
	nota := "Compra de embalagens"
	l, err := svc.Categorizar(context.Background(), "cart_20250112_001", dto.CategorizarLancamentoRequest{
		Categoria:    "VAR_EMBALAGENS",
		Subcategoria: &sub,
		Notas:        &nota,
	})
	require.NoError(t, err)

	assert.Equal(t, "VAR_EMBALAGENS", l.Categoria)
	armazenado := porID(t, repo, "cart_20250112_001")
	assert.Equal(t, "VAR_EMBALAGENS", armazenado.Categoria)
	require.NotNil(t, armazenado.Notas)
	assert.Equal(t, "Compra de embalagens", *armazenado.Notas)

	_, err = svc.Categorizar(context.Background(), "nao_existe", dto.CategorizarLancamentoRequest{Categoria: "X"})
	assert.ErrorContains(t, err, "nao encontrado")
}

func TestExportarCSV(t *testing.T) {
	svc, repo := novoImportacao(t)
	sub := "Copel"
	repo.lancamentos = []*model.Lancamento{
		{
			ID: "cc_20250110_001", Fonte: model.FonteContaCorrente, Data: "2025-01-10",
			Valor: decimal.NewFromFloat(-210.55), Tipo: "saida",
			DescricaoOriginal: "COPEL DISTRIBUICAO S.A.",
			Categoria:         "FIX_ENERGIA", Subcategoria: &sub,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.ExportarCSV(context.Background(), &buf))

	linhas := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, linhas, 2)
	assert.Equal(t, "ID;Data;Valor;Tipo;Fonte;Categoria;Subcategoria;Fornecedor/Cliente;Descricao Original;Notas;Reconciliado", linhas[0])
	assert.Contains(t, linhas[1], "10/01/2025")
	assert.Contains(t, linhas[1], "-210,55")
	assert.Contains(t, linhas[1], "Saída")
	assert.Contains(t, linhas[1], "Não")
}
