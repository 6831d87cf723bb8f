package product

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"productcatalog/internal/domain/upload"
	"productcatalog/internal/pkg/flash"
	"productcatalog/internal/pkg/response"
)

const (
	listPath = "/products"

	tmplList   = "products/list"
	tmplCreate = "products/create"
	tmplEdit   = "products/edit"

	// multipart overhead allowed on top of the image size limit
	formOverhead = 1 << 20
)

// DefaultCategories are offered in the category select.
var DefaultCategories = []string{"Phones", "Computers", "Accessories", "Printers", "Cameras", "Other"}

// Handler serves the server-rendered product pages. Every mutation ends in a
// redirect to the list; only validation failures re-render the form.
type Handler struct {
	service       *Service
	maxUploadSize int64
}

func NewHandler(service *Service, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = upload.MaxFileSize
	}
	return &Handler{service: service, maxUploadSize: maxUploadSize}
}

// List handles GET /products
func (h *Handler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		log.Printf("product list failed: %v", err)
		response.HTML(c, http.StatusInternalServerError, tmplList, gin.H{
			"Title":    "Products",
			"Products": []Product{},
			"Flashes":  []string{"Products could not be loaded."},
		})
		return
	}

	response.HTML(c, http.StatusOK, tmplList, gin.H{
		"Title":    "Products",
		"Products": products,
	})
}

// ShowCreate handles GET /products/create
func (h *Handler) ShowCreate(c *gin.Context) {
	h.renderCreate(c, http.StatusOK, ProductForm{}, nil)
}

// Create handles POST /products/create
func (h *Handler) Create(c *gin.Context) {
	form, fieldErrs := h.bindForm(c)
	if len(fieldErrs) > 0 {
		h.renderCreate(c, http.StatusBadRequest, form, fieldErrs)
		return
	}

	p, err := h.service.Create(c.Request.Context(), form)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderCreate(c, http.StatusBadRequest, form, verr.Fields)
		return
	case err != nil:
		log.Printf("product create failed: %v", err)
		flash.Add(c, "The product could not be created.")
	default:
		flash.Add(c, "Product #"+strconv.FormatInt(p.ID, 10)+" created.")
	}

	c.Redirect(http.StatusSeeOther, listPath)
}

// ShowEdit handles GET /products/edit?id=
func (h *Handler) ShowEdit(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	p, form, err := h.service.EditForm(c.Request.Context(), id)
	if err != nil {
		h.abandon(c, "edit form", id, err)
		return
	}

	h.renderEdit(c, http.StatusOK, p, form, nil)
}

// Update handles POST /products/edit?id=
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	form, fieldErrs := h.bindForm(c)
	if len(fieldErrs) > 0 {
		p, _, err := h.service.EditForm(c.Request.Context(), id)
		if err != nil {
			h.abandon(c, "update", id, err)
			return
		}
		h.renderEdit(c, http.StatusBadRequest, p, form, fieldErrs)
		return
	}

	_, err := h.service.Update(c.Request.Context(), id, form)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderEdit(c, http.StatusBadRequest, verr.Product, form, verr.Fields)
		return
	case err != nil:
		h.abandon(c, "update", id, err)
		return
	}

	flash.Add(c, "Product #"+strconv.FormatInt(id, 10)+" updated.")
	c.Redirect(http.StatusSeeOther, listPath)
}

// Delete handles GET /products/delete?id=
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.abandon(c, "delete", id, err)
		return
	}

	flash.Add(c, "Product #"+strconv.FormatInt(id, 10)+" deleted.")
	c.Redirect(http.StatusSeeOther, listPath)
}

// bindForm reads the multipart form and the optional image.
// Returned field errors are ones that cannot wait for the service (oversized body).
func (h *Handler) bindForm(c *gin.Context) (ProductForm, map[string]string) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+formOverhead)

	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return form, map[string]string{ImageField: "The image file is too large"}
		}
		log.Printf("product form bind failed: %v", err)
	}

	fh, err := c.FormFile(ImageField)
	if err != nil {
		// no file part: treated as "no image supplied"
		return form, nil
	}

	img, err := upload.FromFileHeader(fh, h.maxUploadSize)
	if errors.Is(err, upload.ErrFileTooLarge) {
		return form, map[string]string{ImageField: "The image file is too large"}
	}
	if err != nil {
		log.Printf("product image read failed: %v", err)
		return form, nil
	}

	form.Image = img
	return form, nil
}

func (h *Handler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		log.Printf("product request ignored: invalid id %q", c.Query("id"))
		c.Redirect(http.StatusSeeOther, listPath)
		return 0, false
	}
	return id, true
}

// abandon logs a failed use case and sends the user back to the list.
// A missing product is a silent no-op for the user.
func (h *Handler) abandon(c *gin.Context, op string, id int64, err error) {
	if errors.Is(err, ErrProductNotFound) {
		log.Printf("product %s ignored: id=%d not found", op, id)
	} else {
		log.Printf("product %s failed id=%d: %v", op, id, err)
		flash.Add(c, "The product could not be "+pastTense(op)+".")
	}
	c.Redirect(http.StatusSeeOther, listPath)
}

func (h *Handler) renderCreate(c *gin.Context, status int, form ProductForm, fieldErrs map[string]string) {
	response.HTML(c, status, tmplCreate, gin.H{
		"Title":      "New Product",
		"Form":       form,
		"Errors":     nonNil(fieldErrs),
		"Categories": categoriesWith(form.Category),
	})
}

func (h *Handler) renderEdit(c *gin.Context, status int, p *Product, form ProductForm, fieldErrs map[string]string) {
	response.HTML(c, status, tmplEdit, gin.H{
		"Title":      "Edit Product",
		"Product":    p,
		"Form":       form,
		"Errors":     nonNil(fieldErrs),
		"Categories": categoriesWith(form.Category),
	})
}

func categoriesWith(current string) []string {
	if current == "" {
		return DefaultCategories
	}
	for _, c := range DefaultCategories {
		if c == current {
			return DefaultCategories
		}
	}
	return append([]string{current}, DefaultCategories...)
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func pastTense(op string) string {
	switch op {
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	default:
		return "loaded"
	}
}
