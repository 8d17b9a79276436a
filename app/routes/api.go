// Package routes declares the API route table. Every route names its
// handler and carries its policy level explicitly, so the whole
// authorization surface is readable in one place.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/camtools/app/controllers"
	"github.com/shashiranjanraj/camtools/pkg/metrics"
	"github.com/shashiranjanraj/camtools/pkg/policy"
	"github.com/shashiranjanraj/camtools/pkg/response"
	"github.com/shashiranjanraj/camtools/pkg/router"
)

// API bundles the controllers and the policy guard the route table needs.
type API struct {
	Tools    *controllers.ToolController
	Orders   *controllers.OrderController
	Users    *controllers.UserController
	Reviews  *controllers.ReviewController
	Profiles *controllers.ProfileController
	Payments *controllers.PaymentController
	Guard    *policy.Guard
}

// Register mounts the full route table on r.
func Register(r *router.Router, api API) {
	anon := api.Guard.Require(policy.Anonymous)
	authed := api.Guard.Require(policy.Authenticated)
	admin := api.Guard.Require(policy.Admin)

	r.Get("/", "home", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]interface{}{"message": "camera tools api"})
	}, anon)

	// Catalog.
	r.Get("/tools", "tools.list", api.Tools.List, anon)
	r.Get("/tool/{id}", "tools.get", api.Tools.Get, anon)
	r.Post("/tool", "tools.create", api.Tools.Create, admin)
	r.Delete("/tool/{id}", "tools.delete", api.Tools.Delete, admin)
	r.Post("/tool/{id}/image", "tools.image", api.Tools.UploadImage, admin)

	// Orders. Static /order/admin paths are declared alongside the {id}
	// routes; the router matches literals before params.
	r.Post("/order", "orders.create", api.Orders.Create, authed)
	r.Get("/order", "orders.mine", api.Orders.ListMine, authed)
	r.Get("/order/admin", "orders.all", api.Orders.ListAll, admin)
	r.Get("/order/{id}", "orders.get", api.Orders.Get, authed)
	r.Delete("/order/{id}", "orders.delete", api.Orders.Delete, authed)
	r.Patch("/order/admin/{id}", "orders.ship", api.Orders.MarkShipped, admin)
	r.Patch("/order/{id}", "orders.pay", api.Orders.ConfirmPayment, authed)

	// Payment bridge.
	r.Post("/create-payment-intent", "payments.intent", api.Payments.CreateIntent, authed)

	// Reviews, open to anonymous posters.
	r.Get("/review", "reviews.list", api.Reviews.List, anon)
	r.Post("/review", "reviews.create", api.Reviews.Create, anon)

	// Profiles.
	r.Get("/profile", "profiles.get", api.Profiles.Get, anon)
	r.Post("/profile", "profiles.upsert", api.Profiles.Upsert, anon)

	// Identity and roles.
	r.Put("/user/{email}", "users.login", api.Users.Login, anon)
	r.Get("/user", "users.list", api.Users.List, authed)
	r.Put("/user/admin/{email}", "users.promote", api.Users.Promote, admin)
	r.Get("/admin/{email}", "users.admin", api.Users.CheckAdmin, anon)

	// Operational surface.
	r.HandleFunc("/metrics", metrics.Handler())
}
