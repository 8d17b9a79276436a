package controllers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/pkg/bind"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

// ReviewStore is the append-only review collection surface.
type ReviewStore interface {
	All(ctx context.Context) ([]models.Review, error)
	Insert(ctx context.Context, review models.Review) (primitive.ObjectID, error)
}

// ReviewController is a thin pass-through; reviews have no workflow beyond
// validation, so no service layer sits in between.
type ReviewController struct {
	reviews ReviewStore
}

func NewReviewController(reviews ReviewStore) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// List handles GET /review.
func (c *ReviewController) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.reviews.All(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list reviews", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	response.Success(w, reviews)
}

// Create handles POST /review. Open to anonymous callers.
func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ReviewInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	id, err := c.reviews.Insert(r.Context(), models.Review{
		Name:        input.Name,
		Image:       input.Image,
		Rating:      input.Rating,
		Description: input.Description,
	})
	if err != nil {
		logger.WithCtx(r.Context()).Error("create review", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create review")
		return
	}
	response.Created(w, map[string]interface{}{"insertedId": id.Hex()})
}
