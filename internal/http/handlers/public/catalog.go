package public

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts returns the merged storefront catalog.
func (h *Handler) GetProducts(c *gin.Context) {
	filter := service.CatalogFilter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Keyword:     c.Query("keyword"),
	}
	products, err := h.CatalogService.Catalog(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct returns one product with variants.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Mã sản phẩm không hợp lệ")
		return
	}
	product, err := h.CatalogService.ProductDetail(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// GetShopConfig returns the public storefront settings: page visibility,
// transfer details and the notice banner.
func (h *Handler) GetShopConfig(c *gin.Context) {
	visibility, err := h.SettingService.PageVisibility()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	bank, err := h.SettingService.BankAccount()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	notice, err := h.SettingService.ShopNotice()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"page_visibility": visibility,
		"bank_account":    bank,
		"shop_notice":     notice,
	})
}
