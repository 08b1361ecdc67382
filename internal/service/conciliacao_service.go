package service

import (
	"context"
	"fmt"
	"time"

	"cafeops/internal/dto"
	"cafeops/internal/model"
	"cafeops/internal/repository"

	"github.com/shopspring/decimal"
)

// Janela de casamento entre deposito e sangria.
var (
	janelaDias     = 3.0
	toleranciaPar  = decimal.NewFromInt(50)
	toleranciaZero = decimal.NewFromInt(1)
)

type ConciliacaoService interface {
	// ReconciliarSangrias pairs boleto deposits on the checking account with
	// sangria transfers from the cashbox. Deposits left unmatched are
	// reclassified as possible B2B revenue; transfers left unmatched only
	// get a review note.
	ReconciliarSangrias(ctx context.Context) (*dto.ResumoConciliacao, error)
	Listar(ctx context.Context) ([]model.Reconciliacao, error)
}

type conciliacaoService struct {
	repo repository.LancamentoRepository
}

func NewConciliacaoService(repo repository.LancamentoRepository) ConciliacaoService {
	return &conciliacaoService{repo: repo}
}

func (s *conciliacaoService) ReconciliarSangrias(ctx context.Context) (*dto.ResumoConciliacao, error) {
	depositos, err := s.repo.ListPorFonteCategoria(ctx, model.FonteContaCorrente, "OP_SANGRIA")
	if err != nil {
		return nil, err
	}
	transferencias, err := s.repo.ListPorFonteCategoria(ctx, model.FonteCaixinha, "OP_SANGRIA")
	if err != nil {
		return nil, err
	}

	// Depositos por boleto ainda nao reconciliados
	boletos := depositos[:0]
	for _, d := range depositos {
		if d.Reconciliado || d.Subcategoria == nil || *d.Subcategoria != "boleto_caixinha" {
			continue
		}
		boletos = append(boletos, d)
	}
	sangrias := make([]model.Lancamento, 0, len(transferencias))
	for _, t := range transferencias {
		if !t.Reconciliado {
			sangrias = append(sangrias, t)
		}
	}

	recID, err := s.repo.CountReconciliacoes(ctx)
	if err != nil {
		return nil, err
	}

	resumo := &dto.ResumoConciliacao{}
	usadas := make(map[string]bool)

	for i := range boletos {
		deposito := &boletos[i]
		melhor := -1
		var melhorDist decimal.Decimal

		for j := range sangrias {
			t := &sangrias[j]
			if usadas[t.ID] {
				continue
			}
			if difDias(deposito.Data, t.Data) > janelaDias {
				continue
			}
			dist := deposito.Valor.Sub(t.Valor.Abs()).Abs()
			if dist.GreaterThan(toleranciaPar) {
				continue
			}
			// Menor distancia em valor vence; empate fica com o primeiro
			if melhor < 0 || dist.LessThan(melhorDist) {
				melhor = j
				melhorDist = dist
			}
		}

		if melhor < 0 {
			continue
		}
		par := &sangrias[melhor]
		usadas[par.ID] = true

		recID++
		diferenca := deposito.Valor.Sub(par.Valor.Abs())
		status := "diferenca"
		if diferenca.Abs().LessThan(toleranciaZero) {
			status = "ok"
		}

		rec := &model.Reconciliacao{
			ID:                 fmt.Sprintf("rec_%03d", recID),
			Data:               deposito.Data,
			Tipo:               "sangria_caixinha",
			LancamentoConta:    deposito.ID,
			LancamentoCaixinha: par.ID,
			ValorConta:         deposito.Valor,
			ValorCaixinha:      par.Valor,
			Diferenca:          diferenca,
			Status:             status,
		}
		if err := s.repo.CreateReconciliacao(ctx, rec); err != nil {
			return nil, err
		}

		deposito.Reconciliado = true
		deposito.ReconciliadoCom = &par.ID
		par.Reconciliado = true
		par.ReconciliadoCom = &deposito.ID
		if err := s.repo.Update(ctx, deposito); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, par); err != nil {
			return nil, err
		}

		resumo.Conciliadas++
		if status == "diferenca" {
			resumo.ComDiferenca++
		}
	}

	// Depositos sem par viram possivel receita B2B
	for i := range boletos {
		d := &boletos[i]
		if d.Reconciliado {
			continue
		}
		d.Categoria = "REC_B2B_A_VERIFICAR"
		nota := "Deposito por boleto sem correspondencia no caixinha - verificar se e B2B"
		d.Notas = &nota
		if err := s.repo.Update(ctx, d); err != nil {
			return nil, err
		}
		resumo.DepositosSemPar++
	}

	// Sangrias sem par indicam problema de registro no caixinha
	for i := range sangrias {
		t := &sangrias[i]
		if t.Reconciliado {
			continue
		}
		nota := "Transferencia sem deposito correspondente na conta - verificar"
		t.Notas = &nota
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, err
		}
		resumo.SangriasSemPar++
	}

	total, err := s.repo.CountReconciliacoes(ctx)
	if err != nil {
		return nil, err
	}
	resumo.TotalReconciliado = int(total)

	return resumo, nil
}

func (s *conciliacaoService) Listar(ctx context.Context) ([]model.Reconciliacao, error) {
	return s.repo.ListReconciliacoes(ctx)
}

func difDias(a, b string) float64 {
	da, errA := time.Parse("2006-01-02", a)
	db, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return janelaDias + 1
	}
	dias := da.Sub(db).Hours() / 24
	if dias < 0 {
		dias = -dias
	}
	return dias
}
