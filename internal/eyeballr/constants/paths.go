package constants

import "net/url"

const (
	TicketPath   = "/api/v0/ticket"
	UploadPath   = "/api/v0/upload"
	ReadyPath    = "/api/v0/ready"
	MergePath    = "/api/v0/merge"
	CompletePath = "/api/v0/complete"
	HealthPath   = "/ok"
	PingPath     = "/api/ping"
)

// UIDCookie is the cookie the service uses to pin a client identity.
const UIDCookie = "UID"

// TicketScoped joins a ticket-scoped endpoint with its ticket.
// The ticket is escaped so it always stays a single path segment.
func TicketScoped(path string, ticket string) string {
	return path + "/" + url.PathEscape(ticket)
}
