package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"dockhand/internal/core/apperror"
	"dockhand/internal/core/id"
	"dockhand/internal/domain/receipt"
	"dockhand/internal/infrastructure/http/v1/dto"
)

// SessionHandler exposes the composer session lifecycle: open, inspect,
// switch modes, edit the draft, submit, discard.
type SessionHandler struct {
	*BaseHandler
	manager *receipt.Manager
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(base *BaseHandler, manager *receipt.Manager) *SessionHandler {
	return &SessionHandler{BaseHandler: base, manager: manager}
}

// composer resolves the session id path param to a live composer.
func (h *SessionHandler) composer(c *gin.Context) (id.ID, *receipt.Composer, bool) {
	sessionID, err := id.Parse(c.Param("sessionId"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("invalid session id"))
		return id.Nil(), nil, false
	}

	composer, err := h.manager.Get(sessionID)
	if err != nil {
		h.Error(c, err)
		return id.Nil(), nil, false
	}
	return sessionID, composer, true
}

func sessionResponse(sessionID id.ID, composer *receipt.Composer) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID: sessionID.String(),
		Snapshot:  composer.Snapshot(),
	}
}

// Create opens a new composer session.
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	sessionID, composer := h.manager.Create()
	h.Created(c, sessionResponse(sessionID, composer))
}

// Get returns the session snapshot.
// GET /api/v1/sessions/:sessionId
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, composer, ok := h.composer(c)
	if !ok {
		return
	}
	h.OK(c, sessionResponse(sessionID, composer))
}

// Discard cancels the session and drops its draft.
// DELETE /api/v1/sessions/:sessionId
func (h *SessionHandler) Discard(c *gin.Context) {
	sessionID, err := id.Parse(c.Param("sessionId"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("invalid session id"))
		return
	}

	h.manager.Remove(sessionID)
	h.NoContent(c)
}

// SwitchMode swaps between manual and purchase-order entry.
// POST /api/v1/sessions/:sessionId/mode
func (h *SessionHandler) SwitchMode(c *gin.Context) {
	sessionID, composer, ok := h.composer(c)
	if !ok {
		return
	}

	var req dto.SwitchModeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := composer.SwitchMode(receipt.Mode(req.Mode)); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sessionResponse(sessionID, composer))
}

// OpenOrders returns the open purchase orders for selection.
// GET /api/v1/sessions/:sessionId/purchase-orders
func (h *SessionHandler) OpenOrders(c *gin.Context) {
	_, composer, ok := h.composer(c)
	if !ok {
		return
	}

	orders, err := composer.OpenOrders(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"purchaseOrders": orders})
}

// SelectOrder loads one purchase order's line items into the draft.
// POST /api/v1/sessions/:sessionId/purchase-order
func (h *SessionHandler) SelectOrder(c *gin.Context) {
	sessionID, composer, ok := h.composer(c)
	if !ok {
		return
	}

	var req dto.SelectOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := composer.SelectOrder(c.Request.Context(), req.PurchaseOrderID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sessionResponse(sessionID, composer))
}

// ChangeOrder clears the loaded order and returns to selection.
// DELETE /api/v1/sessions/:sessionId/purchase-order
func (h *SessionHandler) ChangeOrder(c *gin.Context) {
	sessionID, composer, ok := h.composer(c)
	if !ok {
		return
	}

	if err := composer.ChangeOrder(); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sessionResponse(sessionID, composer))
}

// UpdateHeader applies draft header changes.
// PATCH /api/v1/sessions/:sessionId
func (h *SessionHandler) UpdateHeader(c *gin.Context) {
	sessionID, composer, ok := h.composer(c)
	if !ok {
		return
	}

	var req dto.UpdateHeaderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := composer.UpdateHeader(req.ToHeaderUpdate()); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sessionResponse(sessionID, composer))
}

// AddItem appends an empty line item (manual mode only).
// POST /api/v1/sessions/:sessionId/items
func (h *SessionHandler) AddItem(c *gin.Context) {
	_, composer, ok := h.composer(c)
	if !ok {
		return
	}

	item, err := composer.AddItem()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem replaces one field of the item at the given position.
// PATCH /api/v1/sessions/:sessionId/items/:index
func (h *SessionHandler) UpdateItem(c *gin.Context) {
	_, composer, ok := h.composer(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("invalid item index"))
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := composer.UpdateItem(index, receipt.Field(req.Field), req.Value)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// RemoveItem removes the item at the given position.
// DELETE /api/v1/sessions/:sessionId/items/:index
func (h *SessionHandler) RemoveItem(c *gin.Context) {
	_, composer, ok := h.composer(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("invalid item index"))
		return
	}

	if err := composer.RemoveItem(index); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Submit validates the draft and posts it to the inventory service. The
// session ends on success; on failure the draft stays editable.
// POST /api/v1/sessions/:sessionId/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	sessionID, composer, ok := h.composer(c)
	if !ok {
		return
	}

	created, err := composer.Submit(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.manager.Remove(sessionID)
	h.Created(c, dto.SubmitResponse{
		ReceiptID:     created.ID,
		ReceiptNumber: created.ReceiptNumber,
	})
}

// RegisterRoutes wires the session endpoints.
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.Create)
		sessions.GET("/:sessionId", h.Get)
		sessions.PATCH("/:sessionId", h.UpdateHeader)
		sessions.DELETE("/:sessionId", h.Discard)
		sessions.POST("/:sessionId/mode", h.SwitchMode)
		sessions.GET("/:sessionId/purchase-orders", h.OpenOrders)
		sessions.POST("/:sessionId/purchase-order", h.SelectOrder)
		sessions.DELETE("/:sessionId/purchase-order", h.ChangeOrder)
		sessions.POST("/:sessionId/items", h.AddItem)
		sessions.PATCH("/:sessionId/items/:index", h.UpdateItem)
		sessions.DELETE("/:sessionId/items/:index", h.RemoveItem)
		sessions.POST("/:sessionId/submit", h.Submit)
	}
}
