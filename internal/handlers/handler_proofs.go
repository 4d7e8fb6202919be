package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const maxProofSize = 10 << 20

// proofOpener is implemented by storages that can serve files behind signed view tokens.
type proofOpener interface {
	Open(ctx context.Context, token string) (*os.File, error)
}

type proofHandler struct {
	storage portssvc.ProofStorage
}

// RegisterProofRoutes registers upload and URL resolution routes on the authenticated group.
func RegisterProofRoutes(rg *gin.RouterGroup, storage portssvc.ProofStorage) {
	h := &proofHandler{storage: storage}

	proofs := rg.Group("/proofs")
	{
		proofs.POST("", h.upload)
		proofs.GET("/url", h.resolveURL)
	}
}

// RegisterProofViewRoute registers the public, token-guarded file view when the storage supports it.
func RegisterProofViewRoute(r gin.IRouter, route string, storage portssvc.ProofStorage) bool {
	opener, ok := storage.(proofOpener)
	if !ok {
		return false
	}
	r.GET(route, func(c *gin.Context) {
		viewProof(c, opener)
	})
	return true
}

// upload godoc
// @Summary Upload a proof file
// @Tags proofs
// @Accept multipart/form-data
// @Produce json
// @Param category formData string true "vouchers, rejections, vendor_payments or payments"
// @Param file formData file true "Proof image or PDF"
// @Success 201 {object} map[string]string "Stored path"
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /proofs [post]
func (h *proofHandler) upload(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	category := domain.ProofCategory(c.PostForm("category"))
	if !category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proof category"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if header.Size > maxProofSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}
	file, err := header.Open()
	if err != nil {
		respondWithError(c, err, "Failed to read upload")
		return
	}
	defer file.Close()

	path, err := h.storage.Store(c.Request.Context(), io.LimitReader(file, maxProofSize), header.Filename, category)
	if err != nil {
		respondWithError(c, err, "Failed to store proof")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Proof stored", slog.String("path", path))
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// resolveURL godoc
// @Summary Resolve a stored proof to a temporary URL
// @Tags proofs
// @Produce json
// @Param path query string true "Stored path"
// @Success 200 {object} map[string]string "Temporary URL"
// @Security BearerAuth
// @Router /proofs/url [get]
func (h *proofHandler) resolveURL(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	url, err := h.storage.ResolveForDisplay(c.Request.Context(), path)
	if err != nil {
		respondWithError(c, err, "Failed to resolve proof")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func viewProof(c *gin.Context, opener proofOpener) {
	f, err := opener.Open(c.Request.Context(), c.Query("token"))
	if err != nil {
		respondWithError(c, err, "Failed to open proof")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondWithError(c, err, "Failed to open proof")
		return
	}
	http.ServeContent(c.Writer, c.Request, filepath.Base(f.Name()), info.ModTime(), f)
}
