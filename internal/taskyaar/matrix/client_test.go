package matrix

import (
	"testing"
	"time"
)

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		name      string
		previous  time.Duration
		connected time.Duration
		want      time.Duration
	}{
		{"first failure starts at the floor", 0, time.Second, backoffMin},
		{"quick failure doubles", backoffMin, time.Second, 2 * backoffMin},
		{"doubling continues", 8 * time.Second, time.Second, 16 * time.Second},
		{"doubling caps at the ceiling", 4 * time.Minute, time.Second, backoffMax},
		{"stays at the ceiling", backoffMax, time.Second, backoffMax},
		{"healthy stretch resets to the floor", backoffMax, 2 * time.Hour, backoffMin},
		{"exactly the healthy threshold resets", time.Minute, syncHealthyAfter, backoffMin},
		{"just under the threshold still doubles", 4 * time.Second, syncHealthyAfter - time.Second, 8 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextBackoff(tt.previous, tt.connected); got != tt.want {
				t.Errorf("nextBackoff(%v, %v) = %v, want %v", tt.previous, tt.connected, got, tt.want)
			}
		})
	}
}

func TestNextBackoffRecoversAfterOutage(t *testing.T) {
	// A long outage ratchets the delay to the cap; once a connection holds,
	// the next failure starts over from the floor instead of the cap.
	backoff := time.Duration(0)
	for i := 0; i < 12; i++ {
		backoff = nextBackoff(backoff, time.Second)
	}
	if backoff != backoffMax {
		t.Fatalf("backoff after outage = %v, want %v", backoff, backoffMax)
	}

	backoff = nextBackoff(backoff, time.Hour)
	if backoff != backoffMin {
		t.Fatalf("backoff after healthy period = %v, want %v", backoff, backoffMin)
	}
}
