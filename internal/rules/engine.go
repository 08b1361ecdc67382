// Package rules provides the YAML-based decision table that categorizes
// imported statement entries. Rules are embedded at build time so the table
// ships with the binary and its order is inspectable in one place.
package rules

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

//go:embed pendentes.yaml
var embeddedPendentes []byte

// Match types. "contem" requires every pattern to be a substring of the
// uppercased description; "exato" requires any pattern to equal the trimmed,
// lowercased description.
const (
	MatchContem = "contem"
	MatchExato  = "exato"
)

// Regra is a single categorization rule.
type Regra struct {
	Patterns     []string `yaml:"patterns"`
	Match        string   `yaml:"match"`
	ValorAbaixo  *float64 `yaml:"valor_abaixo"`
	Categoria    string   `yaml:"categoria"`
	Subcategoria string   `yaml:"subcategoria"`
}

// Resultado carries the outcome of a categorization pass.
type Resultado struct {
	Categoria    string
	Subcategoria *string
}

// Engine holds the first-pass table (fonte -> tipo -> rules) and the
// second-pass list for pending entries.
type Engine struct {
	tabela    map[string]map[string][]Regra
	pendentes []Regra
}

// Load parses the embedded rule tables.
func Load() (*Engine, error) {
	tabela := make(map[string]map[string][]Regra)
	if err := yaml.Unmarshal(embeddedRules, &tabela); err != nil {
		return nil, fmt.Errorf("rules: parse rules.yaml: %w", err)
	}
	var pendentes []Regra
	if err := yaml.Unmarshal(embeddedPendentes, &pendentes); err != nil {
		return nil, fmt.Errorf("rules: parse pendentes.yaml: %w", err)
	}

	e := &Engine{tabela: tabela, pendentes: pendentes}
	if err := e.validar(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) validar() error {
	check := func(r Regra, onde string) error {
		if len(r.Patterns) == 0 {
			return fmt.Errorf("rules: regra sem patterns em %s", onde)
		}
		if r.Categoria == "" {
			return fmt.Errorf("rules: regra sem categoria em %s (patterns %v)", onde, r.Patterns)
		}
		if r.Match != "" && r.Match != MatchContem && r.Match != MatchExato {
			return fmt.Errorf("rules: match invalido %q em %s", r.Match, onde)
		}
		return nil
	}
	for fonte, tipos := range e.tabela {
		for tipo, regras := range tipos {
			for _, r := range regras {
				if err := check(r, fonte+"/"+tipo); err != nil {
					return err
				}
			}
		}
	}
	for _, r := range e.pendentes {
		if err := check(r, "pendentes"); err != nil {
			return err
		}
	}
	return nil
}

// Categorizar runs the first-pass table for the given source and direction.
// valor is the signed amount (negative for saida). Entries that match no rule
// fall through to the A_CATEGORIZAR sentinel.
func (e *Engine) Categorizar(fonte, tipo, descricao string, valor decimal.Decimal) Resultado {
	tipos, ok := e.tabela[fonte]
	if !ok {
		return Resultado{Categoria: "A_CATEGORIZAR"}
	}

	for _, grupo := range []string{tipo, "ambos"} {
		for _, r := range tipos[grupo] {
			if r.casa(descricao, valor) {
				return r.resultado()
			}
		}
	}
	return Resultado{Categoria: "A_CATEGORIZAR"}
}

// CategorizarPendente runs the second-pass list over a still-pending entry.
// The scan stops at the first pattern hit; when that rule itself maps to the
// sentinel (the Amazon case) the entry stays pending and aplicado is false.
// The matched pattern is returned so callers can note the provenance.
func (e *Engine) CategorizarPendente(descricao string) (res Resultado, pattern string, aplicado bool) {
	for _, r := range e.pendentes {
		if r.casa(descricao, decimal.Zero) {
			if r.Categoria == "A_CATEGORIZAR" {
				return Resultado{}, "", false
			}
			return r.resultado(), r.Patterns[0], true
		}
	}
	return Resultado{}, "", false
}

func (r Regra) casa(descricao string, valor decimal.Decimal) bool {
	if r.Match == MatchExato {
		desc := strings.ToLower(strings.TrimSpace(descricao))
		achou := false
		for _, p := range r.Patterns {
			if desc == strings.ToLower(p) {
				achou = true
				break
			}
		}
		if !achou {
			return false
		}
	} else {
		desc := strings.ToUpper(descricao)
		for _, p := range r.Patterns {
			if !strings.Contains(desc, strings.ToUpper(p)) {
				return false
			}
		}
	}

	if r.ValorAbaixo != nil && !valor.LessThan(decimal.NewFromFloat(*r.ValorAbaixo)) {
		return false
	}
	return true
}

func (r Regra) resultado() Resultado {
	res := Resultado{Categoria: r.Categoria}
	if r.Subcategoria != "" {
		sub := r.Subcategoria
		res.Subcategoria = &sub
	}
	return res
}
