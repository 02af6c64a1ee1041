package admin

import (
	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadFile stores an image for a given scene and returns its public
// URL.
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Thiếu tệp tải lên")
		return
	}
	scene := c.DefaultPostForm("scene", constants.UploadSceneProduct)
	url, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}
