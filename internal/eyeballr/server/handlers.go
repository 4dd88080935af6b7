package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/0w0mewo/eyeballr-cli/internal/models"
	"github.com/0w0mewo/eyeballr-cli/internal/utils"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const uidLocal = "uid"

func httpError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(models.NewErrorResp(msg))
}

func (srv *Server) healthHandler(c *fiber.Ctx) error {
	return c.SendString("eyeballr OK")
}

func (srv *Server) pingHandler(c *fiber.Ctx) error {
	return c.SendString("eyeballr PONG")
}

// uidMiddleware hands every API caller a UID cookie, keeping the one it sent.
func (srv *Server) uidMiddleware(c *fiber.Ctx) error {
	uid := fiberutils.CopyString(c.Cookies(constants.UIDCookie))
	if uid == "" {
		uid = uuid.NewString()
	}

	c.Cookie(&fiber.Cookie{
		Name:   constants.UIDCookie,
		Value:  uid,
		Path:   "/",
		MaxAge: uidMaxAge,
	})
	c.Locals(uidLocal, uid)

	return c.Next()
}

func (srv *Server) lookup(c *fiber.Ctx) (*Ticket, error) {
	id := fiberutils.CopyString(c.Params("ticket"))
	ticket, err := srv.tickets.Get(id)
	if err != nil {
		return nil, httpError(c, constants.Status(err), "unknown ticket")
	}

	return ticket, nil
}

func (srv *Server) ticketHandler(c *fiber.Ctx) error {
	uid, _ := c.Locals(uidLocal).(string)
	ticket := srv.tickets.NewTicket(uid)

	slog.Info("New ticket", "ticket", ticket.ID(), "uid", uid, "remote", c.IP())

	return c.JSON(models.NewTicketResp(ticket.ID()))
}

func (srv *Server) uploadGetHandler(c *fiber.Ctx) error {
	return httpError(c, fiber.StatusBadRequest, "use POST")
}

func (srv *Server) uploadHandler(c *fiber.Ctx) error {
	ticket, err := srv.lookup(c)
	if ticket == nil {
		return err
	}

	if !c.Is("json") {
		return httpError(c, fiber.StatusBadRequest, "invalid content-type")
	}

	var req models.UploadReq
	if err := c.BodyParser(&req); err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.Filename == "" {
		return httpError(c, fiber.StatusBadRequest, "missing filename")
	}
	if req.Data == "" {
		return httpError(c, fiber.StatusBadRequest, "missing image data")
	}

	mime, content, err := models.DecodeDataURI(req.Data)
	if err != nil {
		return httpError(c, constants.Status(err), "invalid image data")
	}
	if int64(len(content)) > srv.cfg.MaxImageSize {
		return httpError(c, fiber.StatusBadRequest, "image too large")
	}

	name := filepath.Base(req.Filename)
	if srv.cfg.SaveDir != "" {
		if err := srv.saveFile(ticket.ID(), name, content); err != nil {
			slog.Error("Upload error", "ticket", ticket.ID(), "file", name, "error", err)
			return httpError(c, fiber.StatusInternalServerError, "unable to save")
		}
	}
	ticket.AddFile(name, len(content))

	slog.Info("Recv image", "ticket", ticket.ID(), "file", name, "type", mime, "size", len(content))

	return c.JSON(models.StatusResp{Status: models.StatusOK})
}

// saveFile writes content to <save dir>/<ticket>/<name> and checks what landed on disk.
func (srv *Server) saveFile(ticket string, name string, content []byte) error {
	dir := filepath.Join(srv.cfg.SaveDir, ticket)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	saveAs := filepath.Join(dir, name)
	if err := os.WriteFile(saveAs, content, 0o640); err != nil {
		return err
	}

	checksum, err := utils.SHA256ofFile(saveAs)
	if err != nil {
		return err
	}
	if checksum != utils.SHA256ofBytes(content) {
		return fmt.Errorf("%s: sha256 mismatch", saveAs)
	}

	return nil
}

func (srv *Server) readyHandler(c *fiber.Ctx) error {
	ticket, err := srv.lookup(c)
	if ticket == nil {
		return err
	}

	return c.JSON(models.NewReadyResp(ticket.PollReady(srv.cfg.ReadyAfter)))
}

func (srv *Server) mergeHandler(c *fiber.Ctx) error {
	ticket, err := srv.lookup(c)
	if ticket == nil {
		return err
	}

	err = ticket.Merge(srv.cfg.MinMergeFiles)
	if errors.Is(err, ErrNotEnoughFiles) {
		return httpError(c, fiber.StatusBadRequest, err.Error())
	}

	slog.Info("Merging", "ticket", ticket.ID(), "files", ticket.FileCount())

	return c.JSON(models.StatusResp{Status: models.StatusOK})
}

func (srv *Server) completeHandler(c *fiber.Ctx) error {
	ticket, err := srv.lookup(c)
	if ticket == nil {
		return err
	}

	return c.JSON(models.NewCompleteResp(ticket.PollComplete(srv.cfg.CompleteAfter)))
}
