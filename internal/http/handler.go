package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jojimjohn/pbm-contracts/internal/http/middleware"
	"github.com/jojimjohn/pbm-contracts/internal/model"
	"github.com/jojimjohn/pbm-contracts/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/next-number", h.nextContractNumber)
	protected.GET("/contracts/:id", h.getContract)
	protected.POST("/contracts", h.createContract)
	protected.PUT("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)
	protected.POST("/contracts/validate", h.validateContract)
	protected.GET("/contracts/:id/export", h.exportContractExcel)
	protected.GET("/contracts/:id/export/pdf", h.exportContractPDF)

	protected.GET("/suppliers", h.listSuppliers)
	protected.GET("/suppliers/:id/locations", h.listSupplierLocations)
	protected.GET("/materials", h.listMaterials)
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.contracts.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]contractResponse, 0, len(contracts))
	for _, contract := range contracts {
		out = append(out, toContractResponse(contract))
	}
	ok(c, out)
}

func (h *Handler) getContract(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid contract id")
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, toContractResponse(*contract))
}

func (h *Handler) nextContractNumber(c *gin.Context) {
	number, err := h.contracts.NextContractNumber(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, gin.H{"contractNumber": number})
}

func (h *Handler) createContract(c *gin.Context) {
	principal, found := middleware.MustPrincipal(c)
	if !found {
		fail(c, http.StatusUnauthorized, "missing principal")
		return
	}

	var payload model.ContractPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), principal, payload)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": toContractResponse(*contract)})
}

type updateContractRequest struct {
	model.ContractPayload
	PendingDeletions model.StagedDeletions `json:"pendingDeletions"`
}

func (h *Handler) updateContract(c *gin.Context) {
	principal, found := middleware.MustPrincipal(c)
	if !found {
		fail(c, http.StatusUnauthorized, "missing principal")
		return
	}

	id, err := parseID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid contract id")
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := h.contracts.Update(c.Request.Context(), principal, id, req.ContractPayload, req.PendingDeletions)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, toContractResponse(*contract))
}

func (h *Handler) deleteContract(c *gin.Context) {
	principal, found := middleware.MustPrincipal(c)
	if !found {
		fail(c, http.StatusUnauthorized, "missing principal")
		return
	}

	id, err := parseID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid contract id")
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}

func (h *Handler) validateContract(c *gin.Context) {
	var payload model.ContractPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	errs := h.contracts.Validate(payload)
	ok(c, gin.H{"valid": len(errs) == 0, "errors": errs})
}

func (h *Handler) exportContractExcel(c *gin.Context) {
	h.export(c, h.contracts.ExportExcel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handler) exportContractPDF(c *gin.Context) {
	h.export(c, h.contracts.ExportPDF, "application/pdf")
}

func (h *Handler) export(c *gin.Context, generate func(ctx context.Context, id uuid.UUID) (*service.ExportResult, error), contentType string) {
	id, err := parseID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid contract id")
		return
	}
	result, err := generate(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.contracts.ListSuppliers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]supplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	ok(c, out)
}

func (h *Handler) listSupplierLocations(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid supplier id")
		return
	}
	locations, err := h.contracts.ListSupplierLocations(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]locationResponse, 0, len(locations))
	for _, loc := range locations {
		out = append(out, toLocationResponse(loc))
	}
	ok(c, out)
}

func (h *Handler) listMaterials(c *gin.Context) {
	materials, err := h.contracts.ListMaterials(c.Request.Context(), c.Query("businessType"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]materialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, toMaterialResponse(m))
	}
	ok(c, out)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicate):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Msg("contract request failed")
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}
