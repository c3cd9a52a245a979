package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novacoinotc/claudewallet/internal/core/application"
	"github.com/novacoinotc/claudewallet/internal/core/domain"
)

// TransactionHandler exposes balance lookup, transfer preparation,
// signed transfer submission and transaction status over REST.
type TransactionHandler struct {
	txSvc    *application.TransactionService
	relaySvc *application.RelayService
}

func NewTransactionHandler(
	txSvc *application.TransactionService, relaySvc *application.RelayService,
) *TransactionHandler {
	return &TransactionHandler{txSvc, relaySvc}
}

type prepareRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type legResponse struct {
	Recipient   string                      `json:"recipient"`
	Amount      string                      `json:"amount"`
	Transaction *domain.UnsignedTransaction `json:"transaction"`
}

type prepareResponse struct {
	Total        string      `json:"total"`
	FeeLeg       legResponse `json:"feeLeg"`
	PrincipalLeg legResponse `json:"principalLeg"`
}

type submitRequest struct {
	From         string                    `json:"from" binding:"required"`
	To           string                    `json:"to" binding:"required"`
	Amount       string                    `json:"amount" binding:"required"`
	FeeLeg       *domain.SignedTransaction `json:"feeLeg" binding:"required"`
	PrincipalLeg *domain.SignedTransaction `json:"principalLeg" binding:"required"`
}

type submitResponse struct {
	FeeTxID       string `json:"feeTxID"`
	PrincipalTxID string `json:"principalTxID"`
}

func (h *TransactionHandler) GetBalance(c *gin.Context) {
	balance, err := h.txSvc.GetBalance(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address": balance.Address,
		"balance": balance.Amount(),
		"units":   balance.Units,
	})
}

func (h *TransactionHandler) PrepareTransfer(c *gin.Context) {
	var req prepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	totalUnits, err := application.ParseTokenAmount(req.Amount)
	if err != nil {
		abortWithError(c, err)
		return
	}

	pair, err := h.txSvc.PrepareTransfer(
		c.Request.Context(), req.From, req.To, totalUnits,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prepareResponse{
		Total: application.FormatTokenAmount(pair.Split.Total),
		FeeLeg: legResponse{
			Recipient:   pair.FeeReceiver,
			Amount:      application.FormatTokenAmount(pair.Split.Fee),
			Transaction: pair.FeeLeg,
		},
		PrincipalLeg: legResponse{
			Recipient:   pair.To,
			Amount:      application.FormatTokenAmount(pair.Split.Principal),
			Transaction: pair.PrincipalLeg,
		},
	})
}

func (h *TransactionHandler) SubmitTransfer(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	totalUnits, err := application.ParseTokenAmount(req.Amount)
	if err != nil {
		abortWithError(c, err)
		return
	}

	res, err := h.relaySvc.Submit(
		c.Request.Context(), &application.SignedTransferPair{
			From:         req.From,
			To:           req.To,
			Total:        totalUnits,
			FeeLeg:       req.FeeLeg,
			PrincipalLeg: req.PrincipalLeg,
		},
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		FeeTxID:       res.FeeTxID,
		PrincipalTxID: res.PrincipalTxID,
	})
}

func (h *TransactionHandler) GetTransactionStatus(c *gin.Context) {
	status, err := h.txSvc.GetTransactionStatus(
		c.Request.Context(), c.Param("txid"),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"txID":        status.TxID,
		"confirmed":   status.Confirmed,
		"blockNumber": status.BlockNumber,
	})
}

// abortWithError maps application errors to HTTP statuses. Partial
// failures carry the fee transaction id so callers can reconcile the
// funds that already moved.
func abortWithError(c *gin.Context, err error) {
	var insufficientErr *application.InsufficientBalanceError
	var underfundedErr *application.SponsorUnderfundedError
	var partialErr *application.PartialFailureError
	var unknownErr *application.UnknownOutcomeError
	var broadcastErr *application.BroadcastError

	switch {
	case errors.Is(err, application.ErrInvalidAmount),
		errors.Is(err, application.ErrAmountBelowFee),
		errors.Is(err, application.ErrInvalidAddress),
		errors.Is(err, application.ErrSameAddress),
		errors.Is(err, domain.ErrTxMissingID),
		errors.Is(err, domain.ErrTxMissingRawData),
		errors.Is(err, domain.ErrTxMissingSig),
		errors.Is(err, domain.ErrTxDigestMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &underfundedErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &unknownErr):
		// Unknown outcome is not a failure: the caller must re-query the
		// transaction status before retrying anything.
		body := gin.H{"error": err.Error()}
		if unknownErr.FeeTxID != "" {
			body["feeTxID"] = unknownErr.FeeTxID
		}
		c.JSON(http.StatusGatewayTimeout, body)
	case errors.As(err, &partialErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   err.Error(),
			"feeTxID": partialErr.FeeTxID,
		})
	case errors.As(err, &broadcastErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
