package worker

// relatorio_worker.go
// Processes report jobs from QueueRelatorio: computes the month's DRE and
// writes the markdown (and optionally PDF) file to the reports directory.

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"cafeops/internal/dto"
	"cafeops/internal/infra"

	"github.com/rs/zerolog/log"
)

// RelatorioPayload is the job envelope sent to QueueRelatorio.
type RelatorioPayload struct {
	Mes string `json:"mes"` // YYYY-MM; empty renders the whole ledger
	PDF bool   `json:"pdf"`
}

// GeradorDRE computes and renders income statements.
type GeradorDRE interface {
	Gerar(ctx context.Context, mes string) (*dto.DRE, error)
	RenderMarkdown(dre *dto.DRE) string
}

type RelatorioWorker struct {
	gerador GeradorDRE
	dir     string
}

func NewRelatorioWorker(gerador GeradorDRE, dir string) *RelatorioWorker {
	return &RelatorioWorker{gerador: gerador, dir: dir}
}

// Process writes the requested report files.
func (w *RelatorioWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RelatorioPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("relatorio_worker: invalid payload")
		return
	}

	dre, err := w.gerador.Gerar(ctx, payload.Mes)
	if err != nil {
		log.Error().Err(err).Str("mes", payload.Mes).Msg("relatorio_worker: failed to compute DRE")
		return
	}

	nome := payload.Mes
	if nome == "" {
		nome = "geral"
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", w.dir).Msg("relatorio_worker: cannot create reports dir")
		return
	}

	caminhoMD := filepath.Join(w.dir, nome+".md")
	if err := os.WriteFile(caminhoMD, []byte(w.gerador.RenderMarkdown(dre)), 0o644); err != nil {
		log.Error().Err(err).Str("path", caminhoMD).Msg("relatorio_worker: failed to write markdown")
		return
	}
	log.Info().Str("path", caminhoMD).Msg("relatorio_worker: markdown written")

	if payload.PDF {
		caminhoPDF := filepath.Join(w.dir, nome+".pdf")
		if err := infra.GerarRelatorioPDF(dre, caminhoPDF); err != nil {
			log.Error().Err(err).Str("path", caminhoPDF).Msg("relatorio_worker: failed to write pdf")
			return
		}
		log.Info().Str("path", caminhoPDF).Msg("relatorio_worker: pdf written")
	}
}
