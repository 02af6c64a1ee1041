package admin

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the product table.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Category:     c.Query("category"),
		Subcategory:  c.Query("subcategory"),
		Status:       c.Query("status"),
		Master:       c.Query("master"),
		Search:       c.Query("keyword"),
		WithVariants: true,
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct returns one product with variants.
func (h *Handler) GetProduct(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã sản phẩm không hợp lệ")
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct saves a new product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if err := h.ProductService.Create(c.Request.Context(), &product); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã tạo sản phẩm", product)
}

// UpdateProduct rewrites a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã sản phẩm không hợp lệ")
		return
	}
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	product.ID = id
	if err := h.ProductService.Update(c.Request.Context(), &product); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã cập nhật sản phẩm", product)
}

// DeleteProduct removes a product from the catalog.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã sản phẩm không hợp lệ")
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã xoá sản phẩm", nil)
}

// SyncProductsFromFeed pulls the spreadsheet feed into the local catalog.
func (h *Handler) SyncProductsFromFeed(c *gin.Context) {
	count, err := h.ProductService.SyncFromFeed(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã đồng bộ từ bảng tính", gin.H{"synced": count})
}

// PushProductsToFeed uploads products back to the spreadsheet.
func (h *Handler) PushProductsToFeed(c *gin.Context) {
	id, _ := strconv.ParseUint(c.DefaultQuery("product_id", "0"), 10, 64)
	if err := h.ProductService.PushToFeed(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã đẩy lên bảng tính", nil)
}

// ListExpiringProducts lists products whose order deadline is close.
func (h *Handler) ListExpiringProducts(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("within_hours", "24"))
	products, err := h.ProductService.ExpiringSoon(hours)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}
