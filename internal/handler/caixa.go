package handler

import (
	"net/http"
	"strconv"

	"cafeops/internal/apierror"
	"cafeops/internal/dto"
	"cafeops/internal/middleware"
	"cafeops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre um novo movimento de caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Fundo inicial"
// @Success 201 {object} dto.CaixaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, claims.Username, req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarOperacao godoc
// @Summary Registra insert, withdraw ou sangria no caixa aberto
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OperacaoCaixaRequest true "Operacao de caixa"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/operacao [post]
func (h *CaixaHandler) RegistrarOperacao(c *gin.Context) {
	var req dto.OperacaoCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.RegistrarOperacao(c.Request.Context(), usuarioID, claims.Username, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AtualizarConferencia godoc
// @Summary Registra os valores conferidos por metodo de pagamento
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ConferenciaRequest true "Valores contados"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/conferencia [post]
func (h *CaixaHandler) AtualizarConferencia(c *gin.Context) {
	var req dto.ConferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AtualizarConferencia(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Fechar godoc
// @Summary Fecha o caixa aberto e dispara o resumo por email
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Notas de fechamento"
// @Success 200 {object} dto.CaixaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Fechar(c.Request.Context(), usuarioID, claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ativo returns the currently open register.
func (h *CaixaHandler) Ativo(c *gin.Context) {
	resp, err := h.svc.Ativo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter returns one register movement by ID.
func (h *CaixaHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Relatorio returns the plain-text summary of a register movement.
func (h *CaixaHandler) Relatorio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resumo, err := h.svc.Relatorio(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.String(http.StatusOK, resumo)
}

// Historico lists recent register movements.
func (h *CaixaHandler) Historico(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit < 1 || limit > 100 {
		limit = 30
	}
	resp, err := h.svc.Historico(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "limit": limit})
}
