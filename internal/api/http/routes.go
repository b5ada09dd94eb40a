package httpapi

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/azmataliakbar/weather-app/internal/render"
	"github.com/azmataliakbar/weather-app/internal/search"
	"github.com/azmataliakbar/weather-app/internal/session"
	"github.com/azmataliakbar/weather-app/internal/weather"
)

// SessionCookie carries the caller's session ID.
const SessionCookie = "weather_session"

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *session.Registry) {
	h := &handlers{sessions: sessions}

	app.Get("/", h.page)
	app.Post("/search", h.searchForm)

	v1 := app.Group("/api/v1")
	v1.Get("/search", h.searchJSON)
	v1.Get("/state", h.state)
	v1.Delete("/session", h.endSession)
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

type handlers struct {
	sessions *session.Registry
}

// cityInput holds the submitted city for both the form and the JSON route.
type cityInput struct {
	City string `form:"city" query:"city" validate:"max=100"`
}

func (h *handlers) page(c *fiber.Ctx) error {
	ctrl := h.controller(c)
	return renderPage(c, ctrl.State())
}

func (h *handlers) searchForm(c *fiber.Ctx) error {
	var in cityInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctrl := h.controller(c)
	st, _ := ctrl.Submit(c.UserContext(), strings.Clone(in.City))
	return renderPage(c, st)
}

func (h *handlers) searchJSON(c *fiber.Ctx) error {
	var in cityInput
	if err := c.QueryParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctrl := h.controller(c)
	st, err := ctrl.Submit(c.UserContext(), strings.Clone(in.City))
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyCity):
			return fiber.NewError(fiber.StatusBadRequest, st.Error)
		case errors.Is(err, search.ErrSuperseded), errors.Is(err, search.ErrClosed):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, weather.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, st.Error)
		default:
			return fiber.NewError(fiber.StatusBadGateway, st.Error)
		}
	}

	return c.JSON(st)
}

func (h *handlers) state(c *fiber.Ctx) error {
	return c.JSON(h.controller(c).State())
}

func (h *handlers) endSession(c *fiber.Ctx) error {
	id := c.Cookies(SessionCookie)
	if err := h.sessions.Remove(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no active session")
		}
		return err
	}
	c.ClearCookie(SessionCookie)
	return c.SendStatus(fiber.StatusNoContent)
}

// controller resolves the caller's session, issuing a cookie for new ones.
func (h *handlers) controller(c *fiber.Ctx) *search.Controller {
	current := c.Cookies(SessionCookie)
	id, ctrl := h.sessions.Acquire(current)
	if id != current {
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().Add(24 * time.Hour),
		})
	}
	return ctrl
}

func renderPage(c *fiber.Ctx, st search.State) error {
	var buf bytes.Buffer
	err := render.Page(&buf, render.View{
		City:     st.City,
		Current:  st.Current,
		Forecast: st.Forecast,
		Error:    st.Error,
		Locale:   render.MatchLocale(c.Get(fiber.HeaderAcceptLanguage)),
	})
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
