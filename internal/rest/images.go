package rest

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdoyle/galleria/api"
	"github.com/jdoyle/galleria/gallery/application"
	"github.com/jdoyle/galleria/gallery/domain"
)

// ImagesHandler exposes the image CRUD surface over HTTP.
type ImagesHandler struct {
	service *application.ImageService
}

func NewImagesHandler(service *application.ImageService) *ImagesHandler {
	return &ImagesHandler{
		service: service,
	}
}

func (h *ImagesHandler) CreateImage(c *gin.Context) {
	fileHeader, err := c.FormFile("imageFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Msg: "No file uploaded."})
		return
	}

	upload, file, err := openUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error during image creation.", Err: err.Error()})
		return
	}
	defer file.Close()

	img, err := h.service.Create(c.Request.Context(), application.CreateImage{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		File:        upload,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error during image creation.", Err: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, api.FromDomain(img))
}

func (h *ImagesHandler) GetImages(c *gin.Context) {
	images, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error fetching images."})
		return
	}

	c.JSON(http.StatusOK, api.FromDomainList(images))
}

func (h *ImagesHandler) GetImageByID(c *gin.Context) {
	img, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.Error{Msg: "Image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error retrieving image."})
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(img))
}

func (h *ImagesHandler) UpdateImage(c *gin.Context) {
	fields := application.UpdateImage{}

	if title, ok := c.GetPostForm("title"); ok {
		fields.Title = &title
	}
	if description, ok := c.GetPostForm("description"); ok {
		fields.Description = &description
	}

	if fileHeader, err := c.FormFile("imageFile"); err == nil {
		upload, file, err := openUpload(fileHeader)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error during image update.", Err: err.Error()})
			return
		}
		defer file.Close()
		fields.File = upload
	}

	img, err := h.service.Update(c.Request.Context(), c.Param("id"), fields)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.Error{Msg: "Image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error during image update.", Err: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(img))
}

func (h *ImagesHandler) DeleteImage(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.Error{Msg: "Image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error{Msg: "Server Error during image deletion."})
		return
	}

	c.JSON(http.StatusOK, api.Ack{Msg: "Image deleted successfully"})
}

// openUpload turns a parsed multipart file header into the upload the
// blob store consumes. The caller owns closing the returned file.
func openUpload(header *multipart.FileHeader) (*domain.FileUpload, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &domain.FileUpload{
		FieldName:    "imageFile",
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Content:      file,
	}, file, nil
}
