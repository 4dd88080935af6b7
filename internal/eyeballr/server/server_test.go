package server

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/config"
	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr"
)

func TestUploaderAgainstServer(t *testing.T) {
	saveDir := t.TempDir()
	cfg := config.Default().Server
	cfg.ReadyAfter = 2
	cfg.CompleteAfter = 3
	cfg.MinMergeFiles = 2
	cfg.SaveDir = saveDir

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(cfg)
	go srv.Serve(ln)
	defer srv.Stop()

	src := t.TempDir()
	files := make([]string, 0, 2)
	for i, name := range []string{"a.png", "b.png"} {
		p := filepath.Join(src, name)
		if err := os.WriteFile(p, bytes.Repeat([]byte{byte(i + 10)}, 512), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		files = append(files, p)
	}

	opts := eyeballr.DefaultOptions()
	opts.PollInterval = 5 * time.Millisecond
	opts.UID = "e2e"
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = eyeballr.NewUploader(eyeballr.NewClient(), opts, &out).Run(ctx, "http://"+ln.Addr().String(), files)
	if err != nil {
		t.Fatalf("Run failed: %v\noutput:\n%s", err, out.String())
	}
	if !strings.HasSuffix(out.String(), "done\n") {
		t.Errorf("output does not end with done: %q", out.String())
	}

	entries, err := os.ReadDir(saveDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("save dir entries = %v, err %v; want one ticket dir", entries, err)
	}
	for _, f := range files {
		want, _ := os.ReadFile(f)
		got, err := os.ReadFile(filepath.Join(saveDir, entries[0].Name(), filepath.Base(f)))
		if err != nil {
			t.Fatalf("saved file: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s saved bytes differ", filepath.Base(f))
		}
	}
}
