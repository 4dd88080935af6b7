package models

const (
	StatusOK    = "OK"
	StatusError = "error"
)

// StatusResp is the envelope every API response carries.
// Message is only set when Status is "error".
type StatusResp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewErrorResp(msg string) StatusResp {
	return StatusResp{Status: StatusError, Message: msg}
}

// The flag fields are pointers so an absent field can be told apart from a zero one.

type TicketResp struct {
	StatusResp
	Ticket *string `json:"ticket,omitempty"`
}

type ReadyResp struct {
	StatusResp
	Ready *bool `json:"ready"`
}

type CompleteResp struct {
	StatusResp
	Complete *bool `json:"complete"`
}

func NewTicketResp(ticket string) TicketResp {
	return TicketResp{StatusResp: StatusResp{Status: StatusOK}, Ticket: &ticket}
}

func NewReadyResp(ready bool) ReadyResp {
	return ReadyResp{StatusResp: StatusResp{Status: StatusOK}, Ready: &ready}
}

func NewCompleteResp(complete bool) CompleteResp {
	return CompleteResp{StatusResp: StatusResp{Status: StatusOK}, Complete: &complete}
}
