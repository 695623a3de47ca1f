package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// catalogHandler handles promo codes, packages and add-ons.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newCatalogHandler(cs portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{catalogService: cs}
}

func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newCatalogHandler(catalogService)

	promos := rg.Group("/promo-codes")
	{
		promos.POST("", h.createPromoCode)
		promos.GET("", h.listPromoCodes)
		promos.POST("/:id/deactivate", h.deactivatePromoCode)
		promos.POST("/expire", h.expirePromoCodes)
	}

	rg.POST("/packages", h.createPackage)
	rg.GET("/packages", h.listPackages)
	rg.POST("/add-ons", h.createAddOn)
	rg.GET("/add-ons", h.listAddOns)
}

// createPromoCode godoc
// @Summary Create a promo code
// @Description Codes are stored uppercased and must be unique
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   promo body dto.CreatePromoCodeRequest true "Promo code"
// @Success 201 {object} domain.PromoCode
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Code already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/promo-codes [post]
func (h *catalogHandler) createPromoCode(c *gin.Context) {
	var req dto.CreatePromoCodeRequest
	if !bindJSON(c, &req, "CreatePromoCode") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	promo, err := h.catalogService.CreatePromoCode(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create promo code")
		return
	}
	c.JSON(http.StatusCreated, promo)
}

// listPromoCodes godoc
// @Summary List promo codes
// @Tags catalog
// @Produce  json
// @Success 200 {array} domain.PromoCode
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/promo-codes [get]
func (h *catalogHandler) listPromoCodes(c *gin.Context) {
	promos, err := h.catalogService.ListPromoCodes(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list promo codes")
		return
	}
	c.JSON(http.StatusOK, promos)
}

// deactivatePromoCode godoc
// @Summary Deactivate a promo code
// @Tags catalog
// @Produce  json
// @Param   id path string true "Promo code ID"
// @Success 200 {object} domain.PromoCode
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/promo-codes/{id}/deactivate [post]
func (h *catalogHandler) deactivatePromoCode(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	promo, err := h.catalogService.DeactivatePromoCode(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to deactivate promo code")
		return
	}
	c.JSON(http.StatusOK, promo)
}

// expirePromoCodes godoc
// @Summary Deactivate every expired promo code now
// @Tags catalog
// @Produce  json
// @Success 200 {object} dto.ExpirePromoCodesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/promo-codes/expire [post]
func (h *catalogHandler) expirePromoCodes(c *gin.Context) {
	expired, err := h.catalogService.ExpirePromoCodes(c.Request.Context(), time.Now())
	if err != nil {
		respondWithError(c, err, "Failed to expire promo codes")
		return
	}
	c.JSON(http.StatusOK, dto.ExpirePromoCodesResponse{Expired: expired})
}

// createPackage godoc
// @Summary Create a package
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   package body dto.CreatePackageRequest true "Package"
// @Success 201 {object} domain.Package
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/packages [post]
func (h *catalogHandler) createPackage(c *gin.Context) {
	var req dto.CreatePackageRequest
	if !bindJSON(c, &req, "CreatePackage") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pkg, err := h.catalogService.CreatePackage(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create package")
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

// listPackages godoc
// @Summary List packages
// @Tags catalog
// @Produce  json
// @Success 200 {array} domain.Package
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/packages [get]
func (h *catalogHandler) listPackages(c *gin.Context) {
	pkgs, err := h.catalogService.ListPackages(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list packages")
		return
	}
	c.JSON(http.StatusOK, pkgs)
}

// createAddOn godoc
// @Summary Create an add-on
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   addOn body dto.CreateAddOnRequest true "Add-on"
// @Success 201 {object} domain.AddOn
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/add-ons [post]
func (h *catalogHandler) createAddOn(c *gin.Context) {
	var req dto.CreateAddOnRequest
	if !bindJSON(c, &req, "CreateAddOn") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	addOn, err := h.catalogService.CreateAddOn(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create add-on")
		return
	}
	c.JSON(http.StatusCreated, addOn)
}

// listAddOns godoc
// @Summary List add-ons
// @Tags catalog
// @Produce  json
// @Success 200 {array} domain.AddOn
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/add-ons [get]
func (h *catalogHandler) listAddOns(c *gin.Context) {
	addOns, err := h.catalogService.ListAddOns(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list add-ons")
		return
	}
	c.JSON(http.StatusOK, addOns)
}
