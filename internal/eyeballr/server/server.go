// Package server is a development stand-in for the eyeballr upload service.
// It stores uploaded images and flips the ready/complete flags without doing
// any image processing.
package server

import (
	"log/slog"
	"net"

	"github.com/0w0mewo/eyeballr-cli/internal/config"
	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/gofiber/fiber/v2"
)

// uidMaxAge is in seconds.
const uidMaxAge = 999999

type Server struct {
	cfg       config.Server
	webServer *fiber.App
	tickets   *TicketStore
}

func New(cfg config.Server) *Server {
	srv := &Server{
		cfg:       cfg,
		webServer: newWebServer(cfg.MaxImageSize),
		tickets:   NewTicketStore(cfg.TicketTTL),
	}
	srv.routes()

	return srv
}

const (
	bodySlack    = 1 << 20
	maxBodyLimit = 1 << 30 // fits an int on 32-bit targets
)

// bodyLimit sizes request bodies for images up to maxImageSize bytes.
// Base64 inflates by 4/3, the slack covers the JSON around it.
func bodyLimit(maxImageSize int64) int {
	if maxImageSize <= 0 {
		return bodySlack
	}
	if maxImageSize > (maxBodyLimit-bodySlack)/4*3 {
		return maxBodyLimit
	}

	return int((maxImageSize+2)/3*4 + bodySlack)
}

func newWebServer(maxImageSize int64) *fiber.App {
	return fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit(maxImageSize),
	})
}

func (srv *Server) routes() {
	app := srv.webServer
	app.Get(constants.HealthPath, srv.healthHandler)
	app.Get(constants.PingPath, srv.pingHandler)

	api := app.Group("/api/v0", srv.uidMiddleware)
	api.Get(trimAPI(constants.TicketPath), srv.ticketHandler)
	api.Get(trimAPI(constants.UploadPath)+"/:ticket", srv.uploadGetHandler)
	api.Post(trimAPI(constants.UploadPath)+"/:ticket", srv.uploadHandler)
	api.Get(trimAPI(constants.ReadyPath)+"/:ticket", srv.readyHandler)
	api.Post(trimAPI(constants.MergePath)+"/:ticket", srv.mergeHandler)
	api.Get(trimAPI(constants.CompletePath)+"/:ticket", srv.completeHandler)
}

func trimAPI(path string) string {
	return path[len("/api/v0"):]
}

// App exposes the fiber app, mainly for in-process tests.
func (srv *Server) App() *fiber.App {
	return srv.webServer
}

func (srv *Server) Start() error {
	srv.tickets.Start()
	slog.Info("Serving eyeballr API (Ctrl-C to terminate)", "listen", srv.cfg.Listen)

	return srv.webServer.Listen(srv.cfg.Listen)
}

// Serve is Start on an already bound listener.
func (srv *Server) Serve(ln net.Listener) error {
	srv.tickets.Start()
	slog.Info("Serving eyeballr API", "listen", ln.Addr().String())

	return srv.webServer.Listener(ln)
}

func (srv *Server) Stop() error {
	slog.Info("Stop serving")

	srv.tickets.Stop()
	return srv.webServer.Shutdown()
}
