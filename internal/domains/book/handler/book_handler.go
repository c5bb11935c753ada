package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type BookHandler struct {
	service *service.BookService
}

func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{service: svc}
}

// Create handles POST /books
func (h *BookHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	created, err := h.service.CreateBook(c.Request.Context(), actor, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetByID handles GET /books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), bookID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// Update handles PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	if err := h.service.UpdateBook(c.Request.Context(), actor, bookID, req); err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete handles DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), actor, bookID); err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ChangeOwner handles PUT /books/:id/owner
func (h *BookHandler) ChangeOwner(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	var req model.ChangeOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	if err := h.service.ChangeOwner(c.Request.Context(), actor, bookID, req); err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"owner_changed": true})
}

// Checkout handles POST /books/:id/checkout
func (h *BookHandler) Checkout(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	if err := h.service.CheckoutBook(c.Request.Context(), actor, bookID); err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checked_out": true})
}

// Return handles POST /books/:id/return
func (h *BookHandler) Return(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	if err := h.service.ReturnBook(c.Request.Context(), actor, bookID); err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"returned": true})
}

// CheckoutHistory handles GET /books/:id/checkouts
func (h *BookHandler) CheckoutHistory(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	history, err := h.service.GetCheckoutHistory(c.Request.Context(), actor, bookID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, history)
}

func parseBookID(c *gin.Context) (uuid.UUID, bool) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return uuid.Nil, false
	}
	return bookID, true
}
