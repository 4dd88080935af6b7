package upload

import (
	"testing"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/config"
)

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	err := Cmd.ParseFlags([]string{"--poll-interval=500ms", "--complete-attempts=3", "--lenient"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	cfg := config.Default().Client
	cfg.UID = "from-config"
	cfg.RequestTimeout = time.Minute
	applyFlags(Cmd, &cfg)

	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v; want 500ms", cfg.PollInterval)
	}
	if cfg.CompleteAttempts != 3 {
		t.Errorf("CompleteAttempts = %d; want 3", cfg.CompleteAttempts)
	}
	if !cfg.Lenient {
		t.Error("Lenient = false; want true")
	}
	if cfg.UID != "from-config" {
		t.Errorf("UID = %q; want the config value", cfg.UID)
	}
	if cfg.RequestTimeout != time.Minute {
		t.Errorf("RequestTimeout = %v; want the config value", cfg.RequestTimeout)
	}
}
