package server

import (
	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-auth-jwt/middleware/jwtware"
)

// Options wires the HTTP surface
type Options struct {
	Auther  auth.Authenticator
	Decoder auth.TokenDecoder
	// Validator defaults to a validator wrapping Decoder
	Validator auth.TokenValidator
	Clock     auth.Clock

	AuthScheme string
	ContextKey string

	// PublicPaths are added to the controller public routes
	PublicPaths    []string
	PublicPrefixes []string

	// LoginGuards run before the authenticate handler, e.g. a throttle
	LoginGuards []fiber.Handler

	Logger     auth.Logger
	HTTPLogger auth.Logger
	JWTLogger  auth.Logger
}

// New builds the fiber app: error mapping, the request interceptor and the
// account routes.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "authd",
		DisableStartupMessage: true,
		StrictRouting:         false,
		ErrorHandler:          auth.ErrorHandler(opts.HTTPLogger),
	})

	Mount(app, opts)

	return app
}

// Mount installs the interceptor and controller on r
func Mount(r fiber.Router, opts Options) *auth.HTTPController {
	controller := auth.NewHTTPController(opts.Auther,
		auth.WithControllerLogger(opts.HTTPLogger),
		auth.WithControllerAuthScheme(opts.AuthScheme),
	)

	publicPaths := append(controller.PublicPaths(), opts.PublicPaths...)

	r.Use(jwtware.New(jwtware.Config{
		Decoder:        opts.Decoder,
		TokenValidator: opts.Validator,
		Clock:          opts.Clock,
		AuthScheme:     opts.AuthScheme,
		ContextKey:     opts.ContextKey,
		PublicPaths:    publicPaths,
		PublicPrefixes: opts.PublicPrefixes,
		Logger:         opts.JWTLogger,
	}))

	controller.Register(r, opts.LoginGuards...)

	if opts.Logger != nil {
		opts.Logger.Debug("routes mounted", "public_paths", publicPaths, "public_prefixes", opts.PublicPrefixes)
	}

	return controller
}
