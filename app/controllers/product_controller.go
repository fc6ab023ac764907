package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/app/services"
	"github.com/threadline/threadline/pkg/response"
	"github.com/threadline/threadline/pkg/validation"
)

const maxImageSize = 5 << 20

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.List(r.Context())
	if err != nil {
		response.ServerError(w, err)
		return
	}
	response.OK(w, products)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Product not found")
		return
	}

	product, err := c.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.NotFound(w, "Product not found")
			return
		}
		response.ServerError(w, err)
		return
	}

	response.OK(w, product)
}

type createProductFields struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       float64          `json:"price" validate:"required,gt=0"`
	Category    string           `json:"category" validate:"required"`
	Variants    []models.Variant `json:"variants" validate:"omitempty,dive"`
}

// Create accepts multipart form data: product fields plus an optional
// "image" file part. Variants arrive as a JSON-encoded "variants" field,
// the usual shape for file uploads alongside structured data.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	fields := createProductFields{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
	}

	if raw := r.FormValue("variants"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields.Variants); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid variants payload")
			return
		}
	}

	if err := validation.Struct(&fields); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed")
		return
	}

	in := services.CreateProductInput{
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Variants:    fields.Variants,
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
		if err != nil {
			response.ServerError(w, err)
			return
		}
		in.Image = data
		in.ImageName = header.Filename
	}

	product, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		response.ServerError(w, err)
		return
	}

	response.Created(w, product)
}
