package worker

// fechamento_worker.go
// Processes register-closing jobs from QueueFechamento: renders the day's
// summary and emails it to the owner.

import (
	"context"
	"encoding/json"
	"fmt"

	"cafeops/internal/infra"
	"cafeops/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FechamentoPayload is the job envelope sent to QueueFechamento.
type FechamentoPayload struct {
	CaixaID string `json:"caixa_id"`
}

type FechamentoWorker struct {
	repo        repository.CaixaRepository
	mailer      *infra.Mailer
	emailResumo string
}

func NewFechamentoWorker(repo repository.CaixaRepository, mailer *infra.Mailer, emailResumo string) *FechamentoWorker {
	return &FechamentoWorker{repo: repo, mailer: mailer, emailResumo: emailResumo}
}

// Process emails the closing summary for a register movement.
func (w *FechamentoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FechamentoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("fechamento_worker: invalid payload")
		return
	}
	if w.emailResumo == "" {
		log.Warn().Msg("fechamento_worker: EMAIL_RESUMO not set — skipping")
		return
	}

	id, err := uuid.Parse(payload.CaixaID)
	if err != nil {
		log.Error().Err(err).Str("caixa_id", payload.CaixaID).Msg("fechamento_worker: invalid caixa_id")
		return
	}
	caixa, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("caixa_id", payload.CaixaID).Msg("fechamento_worker: caixa not found")
		return
	}

	assunto := fmt.Sprintf("Fechamento de caixa %s", caixa.MovimentoLabel())
	if err := w.mailer.SendResumo(w.emailResumo, assunto, caixa.Resumo()); err != nil {
		log.Error().Err(err).Str("to", w.emailResumo).Msg("fechamento_worker: failed to send email")
		return
	}
	log.Info().Str("caixa_id", payload.CaixaID).Str("to", w.emailResumo).Msg("fechamento_worker: resumo sent")
}
