package eyeballr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/0w0mewo/eyeballr-cli/internal/models"
)

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.NewErrorResp("image too large"))
	}))
	defer srv.Close()

	sess := NewSession(srv.URL)
	sess.Ticket = testTicket

	body, err := NewClient().Upload(sess, &models.UploadReq{Filename: "a.png", Data: "data:image/png;base64,AA=="})
	if !errors.Is(err, constants.ErrInvalidBody) {
		t.Fatalf("err = %v; want ErrInvalidBody", err)
	}
	if !strings.Contains(err.Error(), "image too large") {
		t.Errorf("err = %q; want the server message in it", err)
	}
	if !strings.Contains(string(body), "image too large") {
		t.Errorf("body = %q; want the raw response", body)
	}
}

func TestClientMissingFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	sess := NewSession(srv.URL + "/")
	sess.Ticket = testTicket
	client := NewClient()

	if _, _, err := client.Ready(sess); !errors.Is(err, constants.ErrMissingField) {
		t.Errorf("Ready err = %v; want ErrMissingField", err)
	}
	if _, _, err := client.Complete(sess); !errors.Is(err, constants.ErrMissingField) {
		t.Errorf("Complete err = %v; want ErrMissingField", err)
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sess := NewSession(url)
	if _, err := NewClient().Ticket(sess); err == nil {
		t.Fatal("Ticket against a closed server succeeded")
	}
	if sess.Ticket != "" {
		t.Errorf("Ticket = %q; want empty", sess.Ticket)
	}
}

func TestSessionCookies(t *testing.T) {
	sess := NewSession("http://x/")
	if sess.BaseURL != "http://x" {
		t.Errorf("BaseURL = %q; want http://x", sess.BaseURL)
	}

	sess.SetCookie("UID", "seed")
	sess.ReplaceCookies(map[string]string{"SID": "1"})
	if _, ok := sess.Cookies["UID"]; ok {
		t.Error("ReplaceCookies kept a stale cookie")
	}

	before := sess.Cookies
	sess.MergeCookies(map[string]string{"UID": "2"})
	if sess.Cookies["SID"] != "1" || sess.Cookies["UID"] != "2" {
		t.Errorf("Cookies = %v; want SID=1 UID=2", sess.Cookies)
	}
	if _, ok := before["UID"]; ok {
		t.Error("MergeCookies mutated the previous jar in place")
	}
}

func TestClientPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != constants.HealthPath {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("eyeballr OK"))
	}))
	defer srv.Close()

	sess := NewSession(srv.URL)
	client := NewClient(WithUserAgent("tester"), WithTimeout(time.Second))

	body, err := client.Ping(sess, constants.HealthPath)
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if string(body) != "eyeballr OK" {
		t.Errorf("body = %q; want eyeballr OK", body)
	}

	if _, err := client.Ping(sess, constants.PingPath); !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestClientKeepsTicketInOnePathSegment(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath()
		json.NewEncoder(w).Encode(models.NewReadyResp(true))
	}))
	defer srv.Close()

	sess := NewSession(srv.URL)
	sess.Ticket = "a/b?c#d"

	ready, _, err := NewClient().Ready(sess)
	if err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
	if !ready {
		t.Error("ready = false; want true")
	}
	if got, want := <-paths, "/api/v0/ready/a%2Fb%3Fc%23d"; got != want {
		t.Errorf("request path = %q; want %q", got, want)
	}
}
