// cmd/finops/main.go — CLI financeiro: importa extratos, roda a
// categorizacao pendente, concilia sangrias e gera o relatorio mensal.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cafeops/internal/config"
	"cafeops/internal/dto"
	"cafeops/internal/infra"
	"cafeops/internal/repository"
	"cafeops/internal/rules"
	"cafeops/internal/service"

	"github.com/fatih/color"
	"github.com/urfave/cli"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

type app struct {
	cfg         *config.Config
	importacao  service.ImportacaoService
	conciliacao service.ConciliacaoService
	relatorio   service.RelatorioService
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	engine, err := rules.Load()
	if err != nil {
		return nil, fmt.Errorf("regras: %w", err)
	}
	repo := repository.NewLancamentoRepository(db)
	return &app{
		cfg:         cfg,
		importacao:  service.NewImportacaoService(repo, engine),
		conciliacao: service.NewConciliacaoService(repo),
		relatorio:   service.NewRelatorioService(repo),
	}, nil
}

// fontes maps each statement directory under EXTRATOS_DIR to its source.
var fontes = []string{"conta-corrente", "cartao-credito", "caixinha"}

func cmdImportar(c *cli.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	ctx := context.Background()

	total := dto.ResumoImportacao{}
	for _, fonte := range fontes {
		dir := filepath.Join(a.cfg.ExtratosDir, fonte)
		entries, err := os.ReadDir(dir)
		if err != nil {
			yellow.Printf("! pasta %s ausente, pulando\n", dir)
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext != ".ofx" && ext != ".csv" {
				continue
			}
			resumo, err := a.importacao.ImportarArquivo(ctx, fonte, filepath.Join(dir, e.Name()))
			if err != nil {
				red.Printf("✗ %s: %v\n", e.Name(), err)
				continue
			}
			green.Printf("✓ %s: %d importados, %d duplicados, %d pendentes\n",
				resumo.Arquivo, resumo.Importados, resumo.Duplicados, resumo.Pendentes)
			total.Importados += resumo.Importados
			total.Duplicados += resumo.Duplicados
			total.Pendentes += resumo.Pendentes
		}
	}
	fmt.Printf("\nTotal: %d importados, %d duplicados, %d pendentes\n",
		total.Importados, total.Duplicados, total.Pendentes)
	return nil
}

func cmdCategorizarPendentes(c *cli.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	resumo, err := a.importacao.CategorizarPendentes(context.Background())
	if err != nil {
		return err
	}
	green.Printf("✓ %d analisados, %d categorizados, %d restantes\n",
		resumo.Analisados, resumo.Categorizados, resumo.Restantes)
	return nil
}

func cmdReconciliar(c *cli.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	resumo, err := a.conciliacao.ReconciliarSangrias(context.Background())
	if err != nil {
		return err
	}
	green.Printf("✓ %d pares conciliados (%d com diferenca)\n", resumo.Conciliadas, resumo.ComDiferenca)
	if resumo.DepositosSemPar > 0 {
		yellow.Printf("! %d depositos sem par — marcados para verificacao B2B\n", resumo.DepositosSemPar)
	}
	if resumo.SangriasSemPar > 0 {
		yellow.Printf("! %d sangrias sem deposito correspondente\n", resumo.SangriasSemPar)
	}
	return nil
}

func cmdRelatorio(c *cli.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	mes := c.String("mes")
	dre, err := a.relatorio.Gerar(context.Background(), mes)
	if err != nil {
		return err
	}

	fmt.Printf("Receita total:  R$ %s\n", dre.Receitas.Total.StringFixed(2))
	fmt.Printf("Lucro bruto:    R$ %s (%s%%)\n", dre.LucroBruto.StringFixed(2), dre.MargemBruta.StringFixed(1))
	fmt.Printf("EBITDA:         R$ %s (%s%%)\n", dre.EBITDA.StringFixed(2), dre.MargemEBITDA.StringFixed(1))
	lucro := green
	if dre.LucroLiquido.IsNegative() {
		lucro = red
	}
	lucro.Printf("Lucro liquido:  R$ %s (%s%%)\n", dre.LucroLiquido.StringFixed(2), dre.MargemLiquida.StringFixed(1))
	if dre.Pendentes > 0 {
		yellow.Printf("! %d lancamentos ainda pendentes de categoria\n", dre.Pendentes)
	}
	fmt.Println()

	nome := mes
	if nome == "" {
		nome = "geral"
	}
	if err := os.MkdirAll(a.cfg.RelatoriosDir, 0o755); err != nil {
		return err
	}
	caminho := filepath.Join(a.cfg.RelatoriosDir, nome+".md")
	if err := os.WriteFile(caminho, []byte(a.relatorio.RenderMarkdown(dre)), 0o644); err != nil {
		return err
	}
	green.Printf("✓ relatorio gravado em %s\n", caminho)

	if c.Bool("pdf") {
		pdfPath := filepath.Join(a.cfg.RelatoriosDir, nome+".pdf")
		if err := infra.GerarRelatorioPDF(dre, pdfPath); err != nil {
			return err
		}
		green.Printf("✓ PDF gravado em %s\n", pdfPath)
	}
	return nil
}

func cmdExportar(c *cli.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	destino := c.String("saida")
	f, err := os.Create(destino)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := a.importacao.ExportarCSV(context.Background(), f); err != nil {
		return err
	}
	green.Printf("✓ lancamentos exportados para %s\n", destino)
	return nil
}

func main() {
	cmdApp := cli.NewApp()
	cmdApp.Name = "finops"
	cmdApp.Usage = "pipeline financeiro: extratos → categorias → conciliacao → DRE"
	cmdApp.Commands = []cli.Command{
		{
			Name:   "importar",
			Usage:  "importa todos os extratos OFX/CSV de EXTRATOS_DIR",
			Action: cmdImportar,
		},
		{
			Name:   "categorizar-pendentes",
			Usage:  "roda as regras de segunda passada sobre lancamentos pendentes",
			Action: cmdCategorizarPendentes,
		},
		{
			Name:   "reconciliar",
			Usage:  "concilia depositos por boleto com sangrias do caixinha",
			Action: cmdReconciliar,
		},
		{
			Name:  "relatorio",
			Usage: "gera o DRE mensal em markdown (e PDF opcional)",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "mes", Usage: "mes no formato YYYY-MM (vazio = razao inteiro)"},
				cli.BoolFlag{Name: "pdf", Usage: "gera tambem a versao PDF"},
			},
			Action: cmdRelatorio,
		},
		{
			Name:  "exportar",
			Usage: "exporta o razao completo em CSV (separador ';')",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "saida", Value: "lancamentos.csv", Usage: "arquivo de destino"},
			},
			Action: cmdExportar,
		},
	}

	if err := cmdApp.Run(os.Args); err != nil {
		red.Printf("erro: %v\n", err)
		os.Exit(1)
	}
}
