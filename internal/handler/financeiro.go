package handler

import (
	"net/http"

	"cafeops/internal/apierror"
	"cafeops/internal/dto"
	"cafeops/internal/service"
	"cafeops/internal/worker"

	"github.com/gin-gonic/gin"
)

type FinanceiroHandler struct {
	importacao  service.ImportacaoService
	conciliacao service.ConciliacaoService
	relatorio   service.RelatorioService
	dispatcher  *worker.Dispatcher
}

func NewFinanceiroHandler(
	importacao service.ImportacaoService,
	conciliacao service.ConciliacaoService,
	relatorio service.RelatorioService,
	dispatcher *worker.Dispatcher,
) *FinanceiroHandler {
	return &FinanceiroHandler{
		importacao:  importacao,
		conciliacao: conciliacao,
		relatorio:   relatorio,
		dispatcher:  dispatcher,
	}
}

// Importar godoc
// @Summary Importa um extrato OFX ou CSV para o razao
// @Tags financeiro
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param fonte formData string true "conta-corrente, cartao-credito ou caixinha"
// @Param arquivo formData file true "Arquivo do extrato"
// @Success 200 {object} dto.ResumoImportacao
// @Failure 400 {object} apierror.APIError
// @Router /v1/financeiro/importar [post]
func (h *FinanceiroHandler) Importar(c *gin.Context) {
	fonte := c.PostForm("fonte")
	switch fonte {
	case "conta-corrente", "cartao-credito", "caixinha":
	default:
		c.JSON(http.StatusBadRequest, apierror.New("fonte invalida: use conta-corrente, cartao-credito ou caixinha"))
		return
	}

	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arquivo de extrato ausente"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("falha ao ler o arquivo enviado"))
		return
	}
	defer f.Close()

	resumo, err := h.importacao.Importar(c.Request.Context(), fonte, fh.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resumo)
}

// CategorizarPendentes godoc
// @Summary Roda as regras de segunda passada sobre lancamentos pendentes
// @Tags financeiro
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumoCategorizacao
// @Failure 500 {object} apierror.APIError
// @Router /v1/financeiro/categorizar-pendentes [post]
func (h *FinanceiroHandler) CategorizarPendentes(c *gin.Context) {
	resumo, err := h.importacao.CategorizarPendentes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resumo)
}

// ListarPendentes returns ledger entries still waiting for a category.
func (h *FinanceiroHandler) ListarPendentes(c *gin.Context) {
	pendentes, err := h.importacao.ListarPendentes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pendentes, "total": len(pendentes)})
}

// Categorizar sets the category of a single ledger entry by hand.
func (h *FinanceiroHandler) Categorizar(c *gin.Context) {
	var req dto.CategorizarLancamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	lanc, err := h.importacao.Categorizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, lanc)
}

// Reconciliar godoc
// @Summary Concilia depositos por boleto com sangrias do caixinha
// @Tags financeiro
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumoConciliacao
// @Failure 500 {object} apierror.APIError
// @Router /v1/financeiro/reconciliar [post]
func (h *FinanceiroHandler) Reconciliar(c *gin.Context) {
	resumo, err := h.conciliacao.ReconciliarSangrias(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resumo)
}

// ListarReconciliacoes returns every recorded deposit/transfer pair.
func (h *FinanceiroHandler) ListarReconciliacoes(c *gin.Context) {
	recs, err := h.conciliacao.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}

// DRE returns the income statement for ?mes=YYYY-MM (whole ledger when empty).
func (h *FinanceiroHandler) DRE(c *gin.Context) {
	dre, err := h.relatorio.Gerar(c.Request.Context(), c.Query("mes"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dre)
}

// GerarRelatorio godoc
// @Summary Enfileira a geracao do relatorio mensal em markdown (e PDF opcional)
// @Tags financeiro
// @Produce json
// @Security BearerAuth
// @Param mes query string false "Mes no formato YYYY-MM"
// @Param pdf query boolean false "Gera tambem a versao PDF"
// @Success 202 {object} map[string]string
// @Failure 500 {object} apierror.APIError
// @Router /v1/financeiro/relatorio [post]
func (h *FinanceiroHandler) GerarRelatorio(c *gin.Context) {
	mes := c.Query("mes")
	pdf := c.Query("pdf") == "true"
	if err := h.dispatcher.EnqueueRelatorio(c.Request.Context(), mes, pdf); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "enfileirado", "mes": mes})
}

// ExportarCSV streams the full ledger as a semicolon-separated CSV.
func (h *FinanceiroHandler) ExportarCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="lancamentos.csv"`)
	if err := h.importacao.ExportarCSV(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
}
