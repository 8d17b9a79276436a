// Package controllers holds the HTTP handlers. Controllers parse and
// validate the request, call a service, and shape the JSON envelope; all
// workflow rules live one layer down.
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/app/services"
	"github.com/shashiranjanraj/camtools/pkg/bind"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

// maxImageBytes caps product image uploads at 5 MB.
const maxImageBytes = 5 << 20

type ToolController struct {
	tools *services.ToolService
}

func NewToolController(tools *services.ToolService) *ToolController {
	return &ToolController{tools: tools}
}

// objectID parses the {id} route param, answering 400 itself on garbage.
func objectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// List handles GET /tools.
func (c *ToolController) List(w http.ResponseWriter, r *http.Request) {
	tools, err := c.tools.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list tools", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load tools")
		return
	}
	if tools == nil {
		tools = []models.Tool{}
	}
	response.Success(w, tools)
}

// Get handles GET /tool/{id}.
func (c *ToolController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	tool, err := c.tools.Get(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "tool not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("get tool", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load tool")
		return
	}
	response.Success(w, tool)
}

// Create handles POST /tool (admin).
func (c *ToolController) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ToolInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	id, err := c.tools.Create(r.Context(), input)
	if err != nil {
		logger.WithCtx(r.Context()).Error("create tool", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create tool")
		return
	}
	response.Created(w, map[string]interface{}{"insertedId": id.Hex()})
}

// Delete handles DELETE /tool/{id} (admin).
func (c *ToolController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	count, err := c.tools.Delete(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete tool", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not delete tool")
		return
	}
	response.Success(w, map[string]interface{}{"deletedCount": count})
}

// UploadImage handles POST /tool/{id}/image (admin). Multipart form with
// the file under the "image" field.
func (c *ToolController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "could not read image")
		return
	}

	url, err := c.tools.AttachImage(r.Context(), id, header.Filename, content)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "tool not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("upload tool image", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not store image")
		return
	}
	response.Success(w, map[string]interface{}{"img": url})
}
