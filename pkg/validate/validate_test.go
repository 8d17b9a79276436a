package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/camtools/pkg/validate"
)

type toolInput struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Quantity    int     `json:"quantity"    validate:"required,gte=0"`
	Email       string  `json:"email"       validate:"nullable,email"`
	Rating      int     `json:"rating"      validate:"required,between=1,5"`
	Role        string  `json:"role"        validate:"nullable,in=admin,user"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(toolInput{
		Name:     "Canon EOS R6",
		Price:    2499.99,
		Quantity: 10,
		Email:    "buyer@example.com",
		Rating:   5,
		Role:     "user",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(toolInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["price"]; !ok {
		t.Error("expected price to be required")
	}
}

func TestGtRule(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"required,gt=0"`
	}
	errs := validate.Struct(in{Price: -5})
	if _, ok := errs["price"]; !ok {
		t.Error("expected price gt error for negative value")
	}
	errs = validate.Struct(in{Price: 0.01})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,between=1,5"`
	}
	if errs := validate.Struct(in{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected between error for rating 6")
	}
	if errs := validate.Struct(in{Rating: 3}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	type in struct {
		Site string `json:"site" validate:"nullable,email"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable field to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Role string `json:"role" validate:"required,in=admin,user"`
	}
	if errs := validate.Struct(in{Role: "superuser"}); !validate.HasErrors(errs) {
		t.Error("expected in-list error")
	}
}
