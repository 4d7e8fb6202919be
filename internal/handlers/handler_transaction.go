package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/SscSPs/remesas_backend/internal/utils/daterange"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for remittance transactions.
type transactionHandler struct {
	txnService  portssvc.TransactionSvcFacade
	rateService portssvc.PurchaseRateSvc
	editWindow  time.Duration
	location    *time.Location
	clock       func() time.Time
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, prs portssvc.PurchaseRateSvc, editWindow time.Duration, loc *time.Location) *transactionHandler {
	return &transactionHandler{
		txnService:  ts,
		rateService: prs,
		editWindow:  editWindow,
		location:    loc,
		clock:       time.Now,
	}
}

// RegisterTransactionRoutes registers routes related to transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, prs portssvc.PurchaseRateSvc, editWindow time.Duration, loc *time.Location) {
	h := newTransactionHandler(ts, prs, editWindow, loc)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.GET("/:id/history", h.getHistory)
		txns.PUT("/:id", h.updateTransaction)
		txns.POST("/:id/edit", h.startEditing)
		txns.POST("/:id/cancel", h.cancelBySeller)
		txns.POST("/:id/resend", h.resendTransaction)
		txns.POST("/:id/vendor-payment", h.markPaidByVendor)

		txns.POST("/:id/admin-cancel", h.cancelByAdmin)
		txns.POST("/:id/complete", h.completeTransaction)
		txns.POST("/:id/reject", h.rejectTransaction)
		txns.PUT("/:id/voucher", h.replaceVoucher)

		txns.PUT("/:id/purchase-rate", h.setPurchaseRate)
		txns.POST("/:id/purchase-rate/finalize", h.finalizePurchaseRate)
		txns.DELETE("/:id/purchase-rate", h.removePurchaseRate)
	}
}

func (h *transactionHandler) respond(c *gin.Context, status int, txn *domain.Transaction) {
	c.JSON(status, dto.ToTransactionResponse(txn, h.clock(), h.editWindow))
}

// createTransaction godoc
// @Summary Create a remittance
// @Description Creates a PENDIENTE transaction from the official or a custom rate. Exactly one of amountCOP and amountBs is required.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Role cannot create transactions"
// @Failure 404 {object} map[string]string "Beneficiary not found"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.txnService.CreateTransaction(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction created", slog.Int64("transaction_id", txn.ID))
	h.respond(c, http.StatusCreated, txn)
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions visible to the caller, newest first, with cursor pagination.
// @Tags transactions
// @Produce  json
// @Param   status query string false "Status filter"
// @Param   createdBy query string false "Creator filter (administrators only)"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rng, err := daterange.Parse(params.From, params.To, h.location)
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return
	}
	filter := domain.TransactionFilter{Range: rng, Limit: params.Limit}
	if params.Status != "" {
		status := domain.TransactionStatus(strings.ToUpper(params.Status))
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status " + params.Status})
			return
		}
		filter.Status = &status
	}
	if params.CreatedBy != "" {
		filter.CreatedBy = &params.CreatedBy
	}
	if params.NextToken != "" {
		filter.NextToken = &params.NextToken
	}

	txns, next, err := h.txnService.ListTransactions(c.Request.Context(), actor, filter)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, next, h.clock(), h.editWindow))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Not visible to caller"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	txn, err := h.txnService.GetTransaction(c.Request.Context(), actor, id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// getHistory godoc
// @Summary Get the audit trail of a transaction
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {array} domain.TransactionHistory
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id}/history [get]
func (h *transactionHandler) getHistory(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	history, err := h.txnService.GetHistory(c.Request.Context(), actor, id)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// updateTransaction godoc
// @Summary Edit a pending transaction
// @Description Edits amounts, rate or beneficiary while the edit window is open. Restarts the window.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   changes body dto.UpdateTransactionRequest true "Changes"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not editable"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.UpdateTransaction(c.Request.Context(), actor, id, req)
	if err != nil {
		respondWithError(c, err, "Failed to update transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// startEditing godoc
// @Summary Restart the edit window
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not editable"
// @Security BearerAuth
// @Router /transactions/{id}/edit [post]
func (h *transactionHandler) startEditing(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	txn, err := h.txnService.StartEditing(c.Request.Context(), actor, id)
	if err != nil {
		respondWithError(c, err, "Failed to start editing")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// cancelBySeller godoc
// @Summary Cancel a pending transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   reason body dto.ReasonRequest true "Cancellation reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not cancellable"
// @Security BearerAuth
// @Router /transactions/{id}/cancel [post]
func (h *transactionHandler) cancelBySeller(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.CancelBySeller(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to cancel transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// resendTransaction godoc
// @Summary Resend a rejected transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   resend body dto.ResendTransactionRequest true "Resend options"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not rejected"
// @Security BearerAuth
// @Router /transactions/{id}/resend [post]
func (h *transactionHandler) resendTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.ResendTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.ResendTransaction(c.Request.Context(), actor, id, req)
	if err != nil {
		respondWithError(c, err, "Failed to resend transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// markPaidByVendor godoc
// @Summary Record the seller's payment
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   payment body dto.MarkPaidByVendorRequest true "Payment method and proof"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not completed or already paid"
// @Security BearerAuth
// @Router /transactions/{id}/vendor-payment [post]
func (h *transactionHandler) markPaidByVendor(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.MarkPaidByVendorRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.MarkPaidByVendor(c.Request.Context(), actor, id, req)
	if err != nil {
		respondWithError(c, err, "Failed to record vendor payment")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// cancelByAdmin godoc
// @Summary Force-cancel a transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   reason body dto.ReasonRequest true "Cancellation reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Administrators only"
// @Failure 409 {object} map[string]string "Already cancelled"
// @Security BearerAuth
// @Router /transactions/{id}/admin-cancel [post]
func (h *transactionHandler) cancelByAdmin(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.CancelByAdmin(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to cancel transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// completeTransaction godoc
// @Summary Complete a transaction
// @Description Marks the payout as done. When accountID is given the amount in Bs is withdrawn from that cash account atomically.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   completion body dto.CompleteTransactionRequest true "Voucher and optional funding account"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not awaiting payout"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /transactions/{id}/complete [post]
func (h *transactionHandler) completeTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.CompleteTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.CompleteTransaction(c.Request.Context(), actor, id, req)
	if err != nil {
		respondWithError(c, err, "Failed to complete transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// rejectTransaction godoc
// @Summary Reject a transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   rejection body dto.RejectTransactionRequest true "Reason and optional proof"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not awaiting payout"
// @Security BearerAuth
// @Router /transactions/{id}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.RejectTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.RejectTransaction(c.Request.Context(), actor, id, req)
	if err != nil {
		respondWithError(c, err, "Failed to reject transaction")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// replaceVoucher godoc
// @Summary Replace the voucher of a completed transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   voucher body dto.ReplaceVoucherRequest true "New voucher path"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{id}/voucher [put]
func (h *transactionHandler) replaceVoucher(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.ReplaceVoucherRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.txnService.ReplaceVoucher(c.Request.Context(), actor, id, req.VoucherProofPath)
	if err != nil {
		respondWithError(c, err, "Failed to replace voucher")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// setPurchaseRate godoc
// @Summary Set the purchase rate of a completed transaction
// @Tags purchase-rates
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   rate body dto.SetPurchaseRateRequest true "Purchase rate"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not completed or rate already final"
// @Security BearerAuth
// @Router /transactions/{id}/purchase-rate [put]
func (h *transactionHandler) setPurchaseRate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	var req dto.SetPurchaseRateRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.rateService.SetPurchaseRate(c.Request.Context(), actor, id, *req.PurchaseRate, req.Final)
	if err != nil {
		respondWithError(c, err, "Failed to set purchase rate")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// finalizePurchaseRate godoc
// @Summary Mark the purchase rate as final
// @Tags purchase-rates
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{id}/purchase-rate/finalize [post]
func (h *transactionHandler) finalizePurchaseRate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	txn, err := h.rateService.FinalizePurchaseRate(c.Request.Context(), actor, id)
	if err != nil {
		respondWithError(c, err, "Failed to finalize purchase rate")
		return
	}
	h.respond(c, http.StatusOK, txn)
}

// removePurchaseRate godoc
// @Summary Remove the purchase rate
// @Tags purchase-rates
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{id}/purchase-rate [delete]
func (h *transactionHandler) removePurchaseRate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}
	txn, err := h.rateService.RemovePurchaseRate(c.Request.Context(), actor, id)
	if err != nil {
		respondWithError(c, err, "Failed to remove purchase rate")
		return
	}
	h.respond(c, http.StatusOK, txn)
}
