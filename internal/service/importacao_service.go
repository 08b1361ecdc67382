package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/parser"
	"cafeops/internal/repository"
	"cafeops/internal/rules"
)

// Prefixos de ID por fonte.
var prefixoFonte = map[string]string{
	model.FonteContaCorrente: "cc",
	model.FonteCartaoCredito: "cart",
	model.FonteCaixinha:      "cx",
}

type ImportacaoService interface {
	// Importar parses a statement stream and appends new entries to the
	// ledger. Duplicates are skipped, never updated.
	Importar(ctx context.Context, fonte, arquivo string, r io.Reader) (*dto.ResumoImportacao, error)
	ImportarArquivo(ctx context.Context, fonte, caminho string) (*dto.ResumoImportacao, error)
	// CategorizarPendentes runs the second-pass rule list over entries still
	// waiting for a category.
	CategorizarPendentes(ctx context.Context) (*dto.ResumoCategorizacao, error)
	Categorizar(ctx context.Context, id string, req dto.CategorizarLancamentoRequest) (*model.Lancamento, error)
	ListarPendentes(ctx context.Context) ([]model.Lancamento, error)
	ExportarCSV(ctx context.Context, w io.Writer) error
}

type importacaoService struct {
	repo   repository.LancamentoRepository
	engine *rules.Engine
}

func NewImportacaoService(repo repository.LancamentoRepository, engine *rules.Engine) ImportacaoService {
	return &importacaoService{repo: repo, engine: engine}
}

// ── Importar ──────────────────────────────────────────────────────────────────

func (s *importacaoService) Importar(ctx context.Context, fonte, arquivo string, r io.Reader) (*dto.ResumoImportacao, error) {
	prefixo, ok := prefixoFonte[fonte]
	if !ok {
		return nil, fmt.Errorf("fonte desconhecida: %s", fonte)
	}

	var transacoes []parser.Transacao
	var err error
	if fonte == model.FonteCaixinha {
		transacoes, err = parser.ParseCSV(r, arquivo)
	} else {
		transacoes, err = parser.ParseOFX(r, arquivo)
	}
	if err != nil {
		return nil, err
	}

	contador, err := s.repo.CountByFonte(ctx, fonte)
	if err != nil {
		return nil, err
	}

	resumo := &dto.ResumoImportacao{Arquivo: arquivo, Fonte: fonte}
	for _, t := range transacoes {
		tipo := t.Tipo
		valor := t.Valor
		if tipo == "saida" {
			valor = valor.Neg()
		}
		// Extrato de cartao so traz gastos: tudo vira saida negativa
		if fonte == model.FonteCartaoCredito {
			tipo = "saida"
			valor = t.Valor.Abs().Neg()
		}

		existe, err := s.repo.Existe(ctx, t.FitID, t.Data, valor, t.Descricao)
		if err != nil {
			return nil, err
		}
		if existe {
			resumo.Duplicados++
			continue
		}

		contador++
		id := fmt.Sprintf("%s_%s_%03d", prefixo, strings.ReplaceAll(t.Data, "-", ""), contador)

		resultado := s.engine.Categorizar(fonte, tipo, t.Descricao, valor)

		lancamento := &model.Lancamento{
			ID:                id,
			Fonte:             fonte,
			ArquivoOrigem:     arquivo,
			FitID:             t.FitID,
			Data:              t.Data,
			Valor:             valor,
			Tipo:              tipo,
			DescricaoOriginal: t.Descricao,
			Categoria:         resultado.Categoria,
			Subcategoria:      resultado.Subcategoria,
			ProcessadoEm:      time.Now(),
		}
		if err := s.repo.Create(ctx, lancamento); err != nil {
			return nil, err
		}
		resumo.Importados++
		if lancamento.Pendente() {
			resumo.Pendentes++
		}
	}

	return resumo, nil
}

func (s *importacaoService) ImportarArquivo(ctx context.Context, fonte, caminho string) (*dto.ResumoImportacao, error) {
	f, err := os.Open(caminho)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Importar(ctx, fonte, filepath.Base(caminho), f)
}

// ── Categorizacao pendente ────────────────────────────────────────────────────

func (s *importacaoService) CategorizarPendentes(ctx context.Context) (*dto.ResumoCategorizacao, error) {
	pendentes, err := s.repo.ListPendentes(ctx)
	if err != nil {
		return nil, err
	}

	resumo := &dto.ResumoCategorizacao{Analisados: len(pendentes)}
	for i := range pendentes {
		l := &pendentes[i]
		resultado, pattern, aplicado := s.engine.CategorizarPendente(l.DescricaoOriginal)
		if !aplicado {
			resumo.Restantes++
			continue
		}

		l.Categoria = resultado.Categoria
		l.Subcategoria = resultado.Subcategoria
		nota := fmt.Sprintf("Categorizado automaticamente por regra: %s", pattern)
		l.Notas = &nota
		if err := s.repo.Update(ctx, l); err != nil {
			return nil, err
		}
		resumo.Categorizados++
	}

	return resumo, nil
}

func (s *importacaoService) Categorizar(ctx context.Context, id string, req dto.CategorizarLancamentoRequest) (*model.Lancamento, error) {
	alvo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lancamento %s nao encontrado", id)
	}

	alvo.Categoria = req.Categoria
	alvo.Subcategoria = req.Subcategoria
	if req.Notas != nil {
		alvo.Notas = req.Notas
	}
	if err := s.repo.Update(ctx, alvo); err != nil {
		return nil, err
	}
	return alvo, nil
}

func (s *importacaoService) ListarPendentes(ctx context.Context) ([]model.Lancamento, error) {
	return s.repo.ListPendentes(ctx)
}

// ── Exportar ──────────────────────────────────────────────────────────────────
// Planilha de conferencia: separador ";", data DD/MM/YYYY, valor com virgula.

func (s *importacaoService) ExportarCSV(ctx context.Context, w io.Writer) error {
	lancamentos, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{
		"ID", "Data", "Valor", "Tipo", "Fonte", "Categoria", "Subcategoria",
		"Fornecedor/Cliente", "Descricao Original", "Notas", "Reconciliado",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, l := range lancamentos {
		tipo := "Entrada"
		if l.Tipo == "saida" {
			tipo = "Saída"
		}
		reconciliado := "Não"
		if l.Reconciliado {
			reconciliado = "Sim"
		}
		row := []string{
			l.ID,
			formatarDataBR(l.Data),
			strings.ReplaceAll(l.Valor.StringFixed(2), ".", ","),
			tipo,
			l.Fonte,
			l.Categoria,
			strOuVazio(l.Subcategoria),
			strOuVazio(l.FornecedorCliente),
			l.DescricaoOriginal,
			strOuVazio(l.Notas),
			reconciliado,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatarDataBR(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

func strOuVazio(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
