package auth

import (
	"github.com/gofiber/fiber/v2"
)

// TokenResponse is returned by a successful login
type TokenResponse struct {
	Token string `json:"token"`
}

type HTTPControllerRoutes struct {
	Hello        string
	Authenticate string
	Signup       string
	CurrentUser  string
	User         string
}

// HTTPController exposes the authentication operations over HTTP
type HTTPController struct {
	Auther     Authenticator
	Logger     Logger
	Routes     *HTTPControllerRoutes
	AuthScheme string
}

type HTTPControllerOption func(*HTTPController) *HTTPController

// NewHTTPController builds a controller with the default /api routes
func NewHTTPController(auther Authenticator, opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Auther:     auther,
		Logger:     defLogger{},
		AuthScheme: "Bearer",
		Routes: &HTTPControllerRoutes{
			Hello:        "/api/hello",
			Authenticate: "/api/authenticate",
			Signup:       "/api/signup",
			CurrentUser:  "/api/user",
			User:         "/api/user/:username",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Logger = normalizeLogger(logger)
		return c
	}
}

// WithControllerAuthScheme sets the scheme used in the login response header
func WithControllerAuthScheme(scheme string) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if scheme != "" {
			c.AuthScheme = scheme
		}
		return c
	}
}

// PublicPaths lists the routes served without an identity
func (h *HTTPController) PublicPaths() []string {
	return []string{h.Routes.Hello, h.Routes.Authenticate, h.Routes.Signup}
}

// Register mounts the controller routes. loginGuards run before the login
// handler only.
func (h *HTTPController) Register(r fiber.Router, loginGuards ...fiber.Handler) {
	r.Get(h.Routes.Hello, h.Hello)
	r.Post(h.Routes.Authenticate, append(loginGuards, h.Authenticate)...)
	r.Post(h.Routes.Signup, h.Signup)
	r.Get(h.Routes.CurrentUser, h.CurrentUser)
	r.Get(h.Routes.User, h.UserByUsername)
}

func (h *HTTPController) Hello(c *fiber.Ctx) error {
	return c.SendString("hello")
}

// Authenticate verifies credentials and returns the token in the body and
// in the Authorization header.
func (h *HTTPController) Authenticate(c *fiber.Ctx) error {
	payload := new(LoginMessage)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Debug("authenticate parse payload", "error", err)
		return ErrUnableToParseData
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := h.Auther.Authenticate(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderAuthorization, h.AuthScheme+" "+token)
	return c.JSON(TokenResponse{Token: token})
}

// Signup registers a new account and returns its summary
func (h *HTTPController) Signup(c *fiber.Ctx) error {
	payload := new(RegisterUserMessage)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Debug("signup parse payload", "error", err)
		return ErrUnableToParseData
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := h.Auther.Register(c.UserContext(), *payload)
	if err != nil {
		return err
	}

	return c.JSON(SummaryFromUser(user))
}

// CurrentUser returns the record of the calling principal
func (h *HTTPController) CurrentUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if _, err := RequireAuthority(ctx, AuthorityUser, AuthorityAdmin); err != nil {
		return err
	}

	user, err := h.Auther.CurrentUser(ctx)
	if err != nil {
		return err
	}

	return c.JSON(SummaryFromUser(user))
}

// UserByUsername returns any record. Admin only.
func (h *HTTPController) UserByUsername(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if _, err := RequireAuthority(ctx, AuthorityAdmin); err != nil {
		return err
	}

	user, err := h.Auther.UserByUsername(ctx, c.Params("username"))
	if err != nil {
		return err
	}

	return c.JSON(SummaryFromUser(user))
}
