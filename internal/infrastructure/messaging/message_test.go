package messaging

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{
		Initial:    time.Second,
		Max:        time.Minute,
		Multiplier: 2,
	}

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{retryCount: 0, want: time.Second},
		{retryCount: 1, want: 2 * time.Second},
		{retryCount: 3, want: 8 * time.Second},
		{retryCount: 10, want: time.Minute},
	}

	for _, tt := range tests {
		if got := cfg.CalculateBackoff(tt.retryCount); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.retryCount, got, tt.want)
		}
	}
}

func TestMessagePayloadRoundTrip(t *testing.T) {
	job := &GenerationJobMessage{JobID: "j1", JobType: "story_gen"}
	msg, err := NewMessage("j1", MessageTypeStoryGen, "j1", job)
	if err != nil {
		t.Fatalf("NewMessage error = %v", err)
	}

	var decoded GenerationJobMessage
	if err := msg.UnmarshalPayload(&decoded); err != nil {
		t.Fatalf("UnmarshalPayload error = %v", err)
	}
	if decoded.JobID != "j1" || decoded.JobType != "story_gen" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDLQStream(t *testing.T) {
	if got := StreamStoryGen.DLQStream(); got != "dlq:stream:story:gen" {
		t.Errorf("DLQStream() = %q", got)
	}
}
