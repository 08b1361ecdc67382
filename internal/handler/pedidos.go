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

type PedidoHandler struct{ svc service.PedidoService }

func NewPedidoHandler(svc service.PedidoService) *PedidoHandler { return &PedidoHandler{svc: svc} }

// Criar godoc
// @Summary Cria um pedido de balcao
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarPedidoRequest true "Dados do pedido"
// @Success 201 {object} model.Pedido
// @Failure 400 {object} apierror.APIError
// @Router /v1/pedidos [post]
func (h *PedidoHandler) Criar(c *gin.Context) {
	var req dto.CriarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	baristaID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Criar(c.Request.Context(), baristaID, claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obter returns one order with items and payments.
func (h *PedidoHandler) Obter(c *gin.Context) {
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

// Listar returns today's orders by default; filters: status, cliente_id, data.
func (h *PedidoHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := dto.PedidoFilter{
		Status:    c.Query("status"),
		ClienteID: c.Query("cliente_id"),
		Data:      c.Query("data"),
		Page:      page,
		Limit:     limit,
	}
	pedidos, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pedidos, "total": total, "page": filter.Page, "limit": filter.Limit})
}

// AdicionarItem godoc
// @Summary Adiciona um item a um pedido aberto
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Param body body dto.ItemPedidoRequest true "Item"
// @Success 200 {object} model.Pedido
// @Failure 400 {object} apierror.APIError
// @Router /v1/pedidos/{id}/itens [post]
func (h *PedidoHandler) AdicionarItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ItemPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.AdicionarItem(c.Request.Context(), id, claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverItem removes a line from an open order and recomputes the total.
func (h *PedidoHandler) RemoverItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de item invalido"))
		return
	}
	resp, err := h.svc.RemoverItem(c.Request.Context(), id, itemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AtualizarStatus moves an order through the preparation flow.
func (h *PedidoHandler) AtualizarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AtualizarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AtualizarStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AdicionarPagamento godoc
// @Summary Registra um pagamento; sela o pedido quando quitado
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Param body body dto.PagamentoPedidoRequest true "Pagamento"
// @Success 200 {object} model.Pedido
// @Failure 400 {object} apierror.APIError
// @Router /v1/pedidos/{id}/pagamentos [post]
func (h *PedidoHandler) AdicionarPagamento(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.PagamentoPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarPagamento(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UsarCashback applies loyalty balance as a discount on an open order.
func (h *PedidoHandler) UsarCashback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ResgateCashbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UsarCashback(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar cancels an unpaid order.
func (h *PedidoHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
