// README: Session command and snapshot handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"guincho/internal/modules/dispatch"
	"guincho/internal/modules/ride"
)

type SessionHandler struct {
	session *ride.Session
}

func NewSessionHandler(session *ride.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

type editAddressReq struct {
	Text string `json:"text"`
}

type payReq struct {
	Method string `json:"method"`
	Rating int    `json:"rating"`
}

// Get returns the current session snapshot.
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

func (h *SessionHandler) EditOrigin(c *gin.Context) {
	var req editAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.session.EditOrigin(req.Text)
	c.JSON(http.StatusOK, h.session.Snapshot())
}

func (h *SessionHandler) EditDestination(c *gin.Context) {
	var req editAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.session.EditDestination(req.Text)
	c.JSON(http.StatusOK, h.session.Snapshot())
}

func (h *SessionHandler) RequestQuote(c *gin.Context) {
	if err := h.session.RequestQuote(); err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.session.Snapshot())
}

func (h *SessionHandler) Confirm(c *gin.Context) {
	req, err := h.session.Confirm(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req, "snapshot": h.session.Snapshot()})
}

func (h *SessionHandler) Finalize(c *gin.Context) {
	if err := h.session.Finalize(); err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

func (h *SessionHandler) Pay(c *gin.Context) {
	var req payReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	receipt, err := h.session.Pay(ride.PaymentMethod(req.Method), req.Rating)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt, "snapshot": h.session.Snapshot()})
}

func (h *SessionHandler) Reset(c *gin.Context) {
	h.session.Reset()
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// writeSessionError maps engine errors to HTTP status codes.
func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrEmptyAddress), errors.Is(err, ride.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dispatch.ErrNoProviderAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, ride.ErrNoQuote), errors.Is(err, ride.ErrActiveRequest), errors.Is(err, ride.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
