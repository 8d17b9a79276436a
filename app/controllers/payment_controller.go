package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/camtools/pkg/bind"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/metrics"
	"github.com/shashiranjanraj/camtools/pkg/payments"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

// IntentCreator is the slice of the payment client the controller needs.
type IntentCreator interface {
	CreateIntent(ctx context.Context, priceDollars float64) (*payments.Intent, error)
}

type PaymentController struct {
	processor IntentCreator
}

func NewPaymentController(processor IntentCreator) *PaymentController {
	return &PaymentController{processor: processor}
}

type intentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// CreateIntent handles POST /create-payment-intent (authenticated).
func (c *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var input intentRequest
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	intent, err := c.processor.CreateIntent(r.Context(), input.Price)
	if errors.Is(err, payments.ErrUpstream) {
		metrics.PaymentIntents.WithLabelValues("upstream_error").Inc()
		logger.WithCtx(r.Context()).Error("payment intent upstream failure", "error", err)
		response.BadGateway(w, "payment processor unavailable")
		return
	}
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("error").Inc()
		logger.WithCtx(r.Context()).Error("create payment intent", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create payment intent")
		return
	}

	metrics.PaymentIntents.WithLabelValues("created").Inc()
	response.Success(w, map[string]interface{}{"clientSecret": intent.ClientSecret})
}
