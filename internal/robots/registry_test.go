package robots

import (
	"sync"
	"testing"
	"time"

	"github.com/danmuck/gcproto/internal/protocol"
)

func TestStatusFor(t *testing.T) {
	cases := map[time.Duration]ConnectionStatus{
		0:                       StatusOnline,
		1999 * time.Millisecond: StatusOnline,
		2 * time.Second:         StatusHighLatency,
		5 * time.Second:         StatusOffline,
		10 * time.Second:        StatusInactive,
		time.Hour:               StatusInactive,
	}
	for silence, want := range cases {
		if got := StatusFor(silence); got != want {
			t.Fatalf("StatusFor(%v)=%v want %v", silence, got, want)
		}
	}
}

func TestRegistryObserveAndSnapshot(t *testing.T) {
	reg := NewRegistry()
	start := time.Unix(1000, 0)

	reg.Observe("10.0.0.2:4000", protocol.NewReturnData(7, 2, protocol.ReturnAlive), start)
	reg.Observe("10.0.0.1:4000", protocol.NewReturnData(7, 1, protocol.ReturnManualPenalise), start)
	reg.Observe("10.0.0.9:4000", protocol.NewReturnData(3, 4, protocol.ReturnAlive), start.Add(-3*time.Second))
	reg.Observe("10.0.0.1:4000", protocol.NewReturnData(7, 1, protocol.ReturnAlive), start)

	snap := reg.Snapshot(start)
	if len(snap) != 3 {
		t.Fatalf("snapshot size=%d want 3", len(snap))
	}
	if snap[0].Team != 3 || snap[1].Player != 1 || snap[2].Player != 2 {
		t.Fatalf("snapshot not sorted: %+v", snap)
	}
	if snap[0].Status != StatusHighLatency || snap[0].StatusStr != "high_latency" {
		t.Fatalf("robot 3/4 status=%v", snap[0].Status)
	}
	if snap[1].Messages != 2 || !snap[1].ManualPenalty || snap[1].LastMessageStr != "alive" {
		t.Fatalf("robot 7/1 unexpected: %+v", snap[1])
	}

	reg.Observe("10.0.0.1:4000", protocol.NewReturnData(7, 1, protocol.ReturnManualUnpenalise), start)
	if reg.Snapshot(start)[1].ManualPenalty {
		t.Fatalf("unpenalise must clear the manual penalty flag")
	}

	counts := reg.StatusCounts(start)
	if counts["online"] != 2 || counts["high_latency"] != 1 || counts["inactive"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestRegistryIllegalAndPrune(t *testing.T) {
	reg := NewRegistry()
	now := time.Unix(2000, 0)
	reg.ObserveIllegal("10.0.0.5:1", now)
	reg.ObserveIllegal("10.0.0.5:1", now)
	if got := reg.IllegalCount("10.0.0.5:1"); got != 2 {
		t.Fatalf("illegal count=%d", got)
	}

	reg.Observe("a", protocol.NewReturnData(1, 1, protocol.ReturnAlive), now.Add(-2*time.Minute))
	reg.Observe("b", protocol.NewReturnData(1, 2, protocol.ReturnAlive), now)
	reg.ObserveIllegal("stale", now.Add(-2*time.Minute))
	if removed := reg.Prune(now, time.Minute); removed != 1 {
		t.Fatalf("pruned=%d want 1", removed)
	}
	if reg.Len() != 1 {
		t.Fatalf("len=%d want 1", reg.Len())
	}
	if got := reg.IllegalCount("stale"); got != 0 {
		t.Fatalf("stale illegal source must be pruned, count=%d", got)
	}
	if got := reg.IllegalCount("10.0.0.5:1"); got != 2 {
		t.Fatalf("recent illegal source must survive prune, count=%d", got)
	}
}

func TestSnapshotReportsIllegalMessages(t *testing.T) {
	reg := NewRegistry()
	now := time.Unix(3000, 0)
	reg.Observe("10.0.0.9:4000", protocol.NewReturnData(5, 1, protocol.ReturnAlive), now)
	for i := 0; i < 3; i++ {
		reg.ObserveIllegal("10.0.0.9:4000", now)
	}
	reg.ObserveIllegal("10.0.0.77:4000", now)

	snap := reg.Snapshot(now)
	if len(snap) != 1 || snap[0].IllegalMessages != 3 {
		t.Fatalf("illegal messages not attached to robot: %+v", snap)
	}
	unknown := reg.UnknownSources()
	if len(unknown) != 1 || unknown[0].Address != "10.0.0.77:4000" || unknown[0].IllegalMessages != 1 {
		t.Fatalf("unexpected unknown sources: %+v", unknown)
	}
}

func TestSnapshotMessagesPerSecond(t *testing.T) {
	reg := NewRegistry()
	start := time.Unix(4000, 0)
	pkt := protocol.NewReturnData(2, 3, protocol.ReturnAlive)

	reg.Observe("r", pkt, start)
	if got := reg.Snapshot(start)[0].MessagesPerSecond; got != 0 {
		t.Fatalf("single message rate=%v want 0", got)
	}

	// 5 messages over 4s
	for i := 1; i <= 4; i++ {
		reg.Observe("r", pkt, start.Add(time.Duration(i)*time.Second))
	}
	if got := reg.Snapshot(start)[0].MessagesPerSecond; got != 1 {
		t.Fatalf("rate=%v want 1", got)
	}

	// two messages within one second are averaged over at least one second
	burst := NewRegistry()
	burst.Observe("r", pkt, start)
	burst.Observe("r", pkt, start.Add(100*time.Millisecond))
	if got := burst.Snapshot(start)[0].MessagesPerSecond; got != 1 {
		t.Fatalf("burst rate=%v want 1", got)
	}

	// old messages leave the window
	reg.Observe("r", pkt, start.Add(30*time.Second))
	if got := reg.Snapshot(start)[0].MessagesPerSecond; got != 0 {
		t.Fatalf("rate after long silence=%v want 0", got)
	}
}

func TestRegistryConcurrentObserve(t *testing.T) {
	reg := NewRegistry()
	now := time.Now()
	var wg sync.WaitGroup
	for team := 0; team < 8; team++ {
		wg.Add(1)
		go func(team uint8) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				reg.Observe("x", protocol.NewReturnData(team, uint8(i%6)+1, protocol.ReturnAlive), now)
				_ = reg.Snapshot(now)
			}
		}(uint8(team))
	}
	wg.Wait()
	if reg.Len() != 8*6 {
		t.Fatalf("len=%d want %d", reg.Len(), 8*6)
	}
}
