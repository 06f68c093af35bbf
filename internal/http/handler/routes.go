package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userdesk/internal/controller"
	"userdesk/internal/model"
	"userdesk/internal/view"
)

const pageTitle = "Three-Tier Application"

// RegisterRoutes attaches the UI host routes to app.
func RegisterRoutes(app *fiber.App, ctrl controller.UserList, engine *view.Engine, gatherer prometheus.Gatherer) {
	app.Get("/", Page(ctrl, engine))
	app.Get("/state", State(ctrl))
	app.Post("/users", AddUser(ctrl))
	app.Post("/users/:id/delete", DeleteUser(ctrl))
	app.Post("/refresh", Refresh(ctrl))

	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))
}

// Page renders the users page from the current view state.
func Page(ctrl controller.UserList, engine *view.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := engine.RenderBytes(view.PageUsers, view.PageData{Title: pageTitle, State: ctrl.State()})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "RENDER_ERROR", "cannot render page")
		}
		c.Type("html", "utf-8")
		return c.Send(body)
	}
}

// State returns the view state as JSON.
func State(ctrl controller.UserList) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ctrl.State())
	}
}

// AddUser binds the form inputs and adds the posted values. The values are passed directly so
// overlapping posts never submit each other's input.
// Outcomes are reported through the view state, so every non-fatal result redirects back to the page.
func AddUser(ctrl controller.UserList) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Form values alias fasthttp buffers; the view state outlives the request.
		name := utils.CopyString(c.FormValue("name"))
		email := utils.CopyString(c.FormValue("email"))
		ctrl.SetInputs(name, email)
		return afterAction(c, ctrl, ctrl.AddUser(c.UserContext(), name, email))
	}
}

// DeleteUser removes the user named by the :id path segment.
func DeleteUser(ctrl controller.UserList) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := url.PathUnescape(utils.CopyString(c.Params("id")))
		if err != nil || id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		return afterAction(c, ctrl, ctrl.DeleteUser(c.UserContext(), model.ID(id)))
	}
}

// Refresh reloads the list.
func Refresh(ctrl controller.UserList) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return afterAction(c, ctrl, ctrl.FetchAll(c.UserContext()))
	}
}

// LivenessProbe is a simple liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes gatherer in the prometheus text format.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// afterAction answers a form post: JSON clients get the new state, browsers a 303 back to the page.
func afterAction(c *fiber.Ctx, ctrl controller.UserList, err error) error {
	if errors.Is(err, controller.ErrClosed) {
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "shutting down")
	}
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(ctrl.State())
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
