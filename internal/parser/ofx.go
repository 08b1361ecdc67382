package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// ParseOFX reads an OFX statement (bank or credit card, SGML 1.x or XML 2.x)
// and returns its transactions in normalized form. Lines without a posting
// date or FITID are skipped.
func ParseOFX(r io.Reader, arquivo string) ([]Transacao, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("parser: ofx %s: %w", arquivo, err)
	}

	var transacoes []Transacao

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		transacoes = append(transacoes, converterOFX(stmt.BankTranList.Transactions, arquivo)...)
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		transacoes = append(transacoes, converterOFX(stmt.BankTranList.Transactions, arquivo)...)
	}

	return transacoes, nil
}

func converterOFX(trns []ofxgo.Transaction, arquivo string) []Transacao {
	out := make([]Transacao, 0, len(trns))
	for _, t := range trns {
		fitid := strings.TrimSpace(string(t.FiTID))
		if fitid == "" || t.DtPosted.IsZero() {
			continue
		}

		valor, err := decimal.NewFromString(t.TrnAmt.String())
		if err != nil {
			continue
		}

		descricao := strings.TrimSpace(string(t.Memo))
		if descricao == "" {
			descricao = strings.TrimSpace(string(t.Name))
		}

		tipo := "entrada"
		if valor.IsNegative() {
			tipo = "saida"
		}

		out = append(out, Transacao{
			Data:      t.DtPosted.Format("2006-01-02"),
			Valor:     valor.Abs(),
			Tipo:      tipo,
			Descricao: descricao,
			FitID:     fitid,
			Arquivo:   arquivo,
		})
	}
	return out
}
