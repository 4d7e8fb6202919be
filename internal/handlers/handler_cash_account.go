package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashAccountHandler handles HTTP requests related to cash accounts.
type cashAccountHandler struct {
	accountService portssvc.CashAccountSvcFacade
}

// RegisterCashAccountRoutes registers routes related to cash accounts.
func RegisterCashAccountRoutes(rg *gin.RouterGroup, accountService portssvc.CashAccountSvcFacade) {
	h := &cashAccountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/movements", h.listMovements)
		accounts.POST("/:id/deposit", h.deposit)
		accounts.POST("/:id/withdraw", h.withdraw)
	}
}

// createAccount godoc
// @Summary Open a cash account
// @Description Opens a cash account for the calling administrator. A positive initial balance is recorded as a deposit.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} domain.Account
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Administrators only"
// @Security BearerAuth
// @Router /accounts [post]
func (h *cashAccountHandler) createAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, account)
}

// listAccounts godoc
// @Summary List the caller's cash accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *cashAccountHandler) listAccounts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: accounts})
}

// getAccount godoc
// @Summary Get a cash account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} domain.Account
// @Failure 403 {object} map[string]string "Forbidden (accessing another administrator's account)"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *cashAccountHandler) getAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccount(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// listMovements godoc
// @Summary List account movements
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAccountTransactionsResponse
// @Security BearerAuth
// @Router /accounts/{id}/movements [get]
func (h *cashAccountHandler) listMovements(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.ListAccountTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	movements, next, err := h.accountService.ListAccountTransactions(c.Request.Context(), actor, c.Param("id"), params.Limit, nextToken)
	if err != nil {
		respondWithError(c, err, "Failed to list account movements")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountTransactionsResponse{Movements: movements, NextToken: next})
}

// deposit godoc
// @Summary Deposit into a cash account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   movement body dto.AccountMovementRequest true "Amount and description"
// @Success 200 {object} dto.MovementResponse
// @Security BearerAuth
// @Router /accounts/{id}/deposit [post]
func (h *cashAccountHandler) deposit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.AccountMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	account, movement, err := h.accountService.Deposit(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusOK, dto.MovementResponse{Account: *account, Movement: *movement})
}

// withdraw godoc
// @Summary Withdraw from a cash account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   movement body dto.AccountMovementRequest true "Amount and description"
// @Success 200 {object} dto.MovementResponse
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /accounts/{id}/withdraw [post]
func (h *cashAccountHandler) withdraw(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.AccountMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	account, movement, err := h.accountService.Withdraw(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusOK, dto.MovementResponse{Account: *account, Movement: *movement})
}
