package observability

import (
	"testing"
	"time"

	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/danmuck/gcproto/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("gcmonitor", "GET", "/state", 200, 3*time.Millisecond)
	SetRobotCounts(map[string]int{"online": 2, "offline": 1})
	if got := testutil.ToFloat64(robotsByStatus.WithLabelValues("online")); got != 2 {
		t.Fatalf("online robots=%v", got)
	}
}

func TestRecordPacketAndDecodeErrors(t *testing.T) {
	before := testutil.ToFloat64(packetsTotal.WithLabelValues("return", DirectionIn))
	RecordPacket(protocol.KindReturn, DirectionIn)
	if got := testutil.ToFloat64(packetsTotal.WithLabelValues("return", DirectionIn)); got != before+1 {
		t.Fatalf("packets_total=%v want %v", got, before+1)
	}

	beforeErr := testutil.ToFloat64(decodeErrors.WithLabelValues("game_state", "header"))
	RecordDecodeError(protocol.KindGameState, protocol.ErrBadHeader)
	if got := testutil.ToFloat64(decodeErrors.WithLabelValues("game_state", "header")); got != beforeErr+1 {
		t.Fatalf("decode_errors_total=%v want %v", got, beforeErr+1)
	}

	beforeGaps := testutil.ToFloat64(packetGaps)
	RecordPacketGap(0)
	RecordPacketGap(3)
	if got := testutil.ToFloat64(packetGaps); got != beforeGaps+3 {
		t.Fatalf("packet_gaps_total=%v want %v", got, beforeGaps+3)
	}
}
