package eyeballr

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/0w0mewo/eyeballr-cli/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	DefaultUserAgent      = "eyeballr-cli"
	DefaultRequestTimeout = 30 * time.Second
)

// Client speaks the eyeballr HTTP API. It keeps no per-run state; cookies and
// the ticket live in the Session passed to each call.
type Client struct {
	userAgent string
	timeout   time.Duration
	insecure  bool
}

type ClientOption func(*Client)

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithInsecure skips TLS certificate verification.
func WithInsecure(insecure bool) ClientOption {
	return func(c *Client) {
		c.insecure = insecure
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		userAgent: DefaultUserAgent,
		timeout:   DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type response struct {
	status  int
	body    []byte
	cookies map[string]string
}

func (c *Client) do(sess *Session, method string, path string, payload any) (response, error) {
	agent := fiber.AcquireAgent()

	// setup request
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(sess.BaseURL + path)
	// send escaped ticket segments as they are
	req.URI().DisablePathNormalizing = true
	agent.UserAgent(c.userAgent)
	for name, value := range sess.Cookies {
		agent.Cookie(name, value)
	}
	if payload != nil {
		agent.JSON(payload)
	}

	err := agent.Parse()
	if err != nil {
		fiber.ReleaseAgent(agent)
		return response{}, err
	}
	agent.Timeout(c.timeout)
	if c.insecure {
		agent.InsecureSkipVerify()
	}

	// keep hold of the response so its cookies survive the agent release
	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)
	agent.SetResponse(resp)

	// make request, Bytes releases the agent
	status, b, errs := agent.Bytes()
	if len(errs) != 0 {
		return response{}, errs[0]
	}

	return response{
		status:  status,
		body:    b,
		cookies: responseCookies(resp),
	}, nil
}

func responseCookies(resp *fasthttp.Response) map[string]string {
	cookies := make(map[string]string)

	resp.Header.VisitAllCookie(func(_, value []byte) {
		cookie := fasthttp.AcquireCookie()
		defer fasthttp.ReleaseCookie(cookie)

		if err := cookie.ParseBytes(value); err != nil {
			return
		}
		cookies[string(cookie.Key())] = string(cookie.Value())
	})

	return cookies
}

// checkStatus turns a non-2xx response into a sentinel error, carrying the
// server's error message along when the body has one.
func checkStatus(resp response) error {
	err := constants.ParseError(resp.status)
	if err == nil {
		return nil
	}

	var envelope models.StatusResp
	if json.Unmarshal(resp.body, &envelope) == nil && envelope.Message != "" {
		return fmt.Errorf("%w (%d): %s", err, resp.status, envelope.Message)
	}

	return fmt.Errorf("%w (%d)", err, resp.status)
}

// Ticket acquires a new ticket and stores it in sess. The session cookie jar is
// replaced by whatever cookies the ticket response sets.
func (c *Client) Ticket(sess *Session) ([]byte, error) {
	resp, err := c.do(sess, fiber.MethodGet, constants.TicketPath, nil)
	if err != nil {
		return nil, err
	}
	if err = checkStatus(resp); err != nil {
		return resp.body, err
	}

	var ticketResp models.TicketResp
	err = json.Unmarshal(resp.body, &ticketResp)
	if err != nil {
		return resp.body, err
	}
	if ticketResp.Ticket == nil || *ticketResp.Ticket == "" {
		return resp.body, fmt.Errorf("ticket: %w", constants.ErrMissingField)
	}

	sess.ReplaceCookies(resp.cookies)
	sess.Ticket = *ticketResp.Ticket

	return resp.body, nil
}

// Upload posts one payload under the session ticket and returns the raw response body.
func (c *Client) Upload(sess *Session, payload *models.UploadReq) ([]byte, error) {
	resp, err := c.do(sess, fiber.MethodPost, constants.TicketScoped(constants.UploadPath, sess.Ticket), payload)
	if err != nil {
		return nil, err
	}
	sess.MergeCookies(resp.cookies)

	return resp.body, checkStatus(resp)
}

func (c *Client) Ready(sess *Session) (bool, []byte, error) {
	resp, err := c.do(sess, fiber.MethodGet, constants.TicketScoped(constants.ReadyPath, sess.Ticket), nil)
	if err != nil {
		return false, nil, err
	}
	sess.MergeCookies(resp.cookies)
	if err = checkStatus(resp); err != nil {
		return false, resp.body, err
	}

	var readyResp models.ReadyResp
	err = json.Unmarshal(resp.body, &readyResp)
	if err != nil {
		return false, resp.body, err
	}
	if readyResp.Ready == nil {
		return false, resp.body, fmt.Errorf("ready: %w", constants.ErrMissingField)
	}

	return *readyResp.Ready, resp.body, nil
}

// Merge triggers the merge/animate action for the session ticket.
func (c *Client) Merge(sess *Session) ([]byte, error) {
	resp, err := c.do(sess, fiber.MethodPost, constants.TicketScoped(constants.MergePath, sess.Ticket), nil)
	if err != nil {
		return nil, err
	}
	sess.MergeCookies(resp.cookies)

	return resp.body, checkStatus(resp)
}

func (c *Client) Complete(sess *Session) (bool, []byte, error) {
	resp, err := c.do(sess, fiber.MethodGet, constants.TicketScoped(constants.CompletePath, sess.Ticket), nil)
	if err != nil {
		return false, nil, err
	}
	sess.MergeCookies(resp.cookies)
	if err = checkStatus(resp); err != nil {
		return false, resp.body, err
	}

	var completeResp models.CompleteResp
	err = json.Unmarshal(resp.body, &completeResp)
	if err != nil {
		return false, resp.body, err
	}
	if completeResp.Complete == nil {
		return false, resp.body, fmt.Errorf("complete: %w", constants.ErrMissingField)
	}

	return *completeResp.Complete, resp.body, nil
}

// Ping fetches one of the plain-text health endpoints.
func (c *Client) Ping(sess *Session, path string) ([]byte, error) {
	resp, err := c.do(sess, fiber.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return resp.body, checkStatus(resp)
}
