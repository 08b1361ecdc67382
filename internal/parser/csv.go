package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var dataBR = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)

// ParseCSV reads the cashbox ledger CSV: one row per movement with
// [data DD/MM/YYYY, descricao, valor, tipo]. The amount may use a comma as
// decimal separator; the type column marks credits with "CRÉD"/"CRED", any
// other label counts as saida. The header row and blank rows are skipped.
//
// The cashbox has no bank FITID, so a synthetic one is derived from date,
// truncated description and amount — good enough to keep re-imports of the
// same file idempotent.
func ParseCSV(r io.Reader, arquivo string) ([]Transacao, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var transacoes []Transacao
	linha := 0
	for {
		campos, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parser: csv %s: %w", arquivo, err)
		}
		linha++
		if linha == 1 || len(campos) < 4 {
			continue
		}

		data := strings.TrimSpace(campos[0])
		descricao := strings.TrimSpace(campos[1])
		valorStr := strings.TrimSpace(campos[2])
		tipoStr := strings.ToUpper(strings.TrimSpace(campos[3]))

		if data == "" || descricao == "" {
			continue
		}

		m := dataBR.FindStringSubmatch(data)
		if m == nil {
			continue
		}
		dataISO := fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])

		valorStr = strings.ReplaceAll(valorStr, `"`, "")
		valorStr = strings.ReplaceAll(valorStr, ",", ".")
		valor, err := decimal.NewFromString(valorStr)
		if err != nil {
			valor = decimal.Zero
		}
		valor = valor.Abs()

		tipo := "saida"
		if strings.Contains(tipoStr, "CRÉD") || strings.Contains(tipoStr, "CRED") {
			tipo = "entrada"
		}

		desc20 := descricao
		if r := []rune(desc20); len(r) > 20 {
			desc20 = string(r[:20])
		}

		transacoes = append(transacoes, Transacao{
			Data:      dataISO,
			Valor:     valor,
			Tipo:      tipo,
			Descricao: descricao,
			FitID:     fmt.Sprintf("cx_%s_%s_%s", dataISO, desc20, valor.String()),
			Arquivo:   arquivo,
		})
	}

	return transacoes, nil
}
