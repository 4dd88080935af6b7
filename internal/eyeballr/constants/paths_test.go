package constants

import (
	"errors"
	"fmt"
	"testing"
)

func TestPaths(t *testing.T) {
	paths := []struct {
		path     string
		expected string
	}{
		{TicketPath, "/api/v0/ticket"},
		{TicketScoped(UploadPath, "abc"), "/api/v0/upload/abc"},
		{TicketScoped(ReadyPath, "abc"), "/api/v0/ready/abc"},
		{TicketScoped(MergePath, "abc"), "/api/v0/merge/abc"},
		{TicketScoped(CompletePath, "abc"), "/api/v0/complete/abc"},
	}

	for _, tt := range paths {
		if tt.path != tt.expected {
			t.Errorf("Path = %q; want %q", tt.path, tt.expected)
		}
	}
}

func TestTicketScopedEscapesTicket(t *testing.T) {
	tests := []struct {
		ticket   string
		expected string
	}{
		{"a/b", "/api/v0/ready/a%2Fb"},
		{"a?b", "/api/v0/ready/a%3Fb"},
		{"a#b", "/api/v0/ready/a%23b"},
		{"../x", "/api/v0/ready/..%2Fx"},
		{"6f1c-uuid", "/api/v0/ready/6f1c-uuid"},
	}

	for _, tt := range tests {
		if got := TicketScoped(ReadyPath, tt.ticket); got != tt.expected {
			t.Errorf("TicketScoped(%q) = %q; want %q", tt.ticket, got, tt.expected)
		}
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{200, nil},
		{201, nil},
		{204, nil},
		{400, ErrInvalidBody},
		{404, ErrNotFound},
		{429, ErrTooManyReq},
		{500, ErrServer},
		{503, ErrServer},
		{302, ErrUnknown},
		{403, ErrUnknown},
	}

	for _, tt := range tests {
		if got := ParseError(tt.status); got != tt.want {
			t.Errorf("ParseError(%d) = %v; want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusUnwraps(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 200},
		{fmt.Errorf("upload: %w", ErrInvalidBody), 400},
		{fmt.Errorf("decode: %w", ErrInvalidDataURI), 400},
		{ErrNotFound, 404},
		{ErrTooManyReq, 429},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d; want %d", tt.err, got, tt.want)
		}
	}
}
