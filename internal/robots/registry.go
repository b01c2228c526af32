// Package robots tracks robots by the return packets they send.
package robots

import (
	"sort"
	"sync"
	"time"

	"github.com/danmuck/gcproto/internal/protocol"
)

type ConnectionStatus int

const (
	StatusOnline ConnectionStatus = iota
	StatusHighLatency
	StatusOffline
	StatusInactive
)

// Silence thresholds, checked from the longest down.
const (
	HighLatencyAfter = 2 * time.Second
	OfflineAfter     = 5 * time.Second
	InactiveAfter    = 10 * time.Second
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusHighLatency:
		return "high_latency"
	case StatusOffline:
		return "offline"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

func StatusFor(silence time.Duration) ConnectionStatus {
	switch {
	case silence >= InactiveAfter:
		return StatusInactive
	case silence >= OfflineAfter:
		return StatusOffline
	case silence >= HighLatencyAfter:
		return StatusHighLatency
	default:
		return StatusOnline
	}
}

type Key struct {
	Team   uint8
	Player uint8
}

// RateWindow bounds the message history used for MessagesPerSecond.
const RateWindow = 10 * time.Second

// Robot is a point-in-time view of one tracked robot. ManualPenalty holds the
// last penalise/unpenalise request the robot made. IllegalMessages counts
// undecodable datagrams from the robot's current address.
type Robot struct {
	Team              uint8                  `json:"team"`
	Player            uint8                  `json:"player"`
	Address           string                 `json:"address"`
	LastMessage       protocol.ReturnMessage `json:"-"`
	LastMessageStr    string                 `json:"last_message"`
	LastSeen          time.Time              `json:"last_seen"`
	Messages          int                    `json:"messages"`
	IllegalMessages   int                    `json:"illegal_messages"`
	MessagesPerSecond float64                `json:"messages_per_second"`
	ManualPenalty     bool                   `json:"manual_penalty"`
	Status            ConnectionStatus       `json:"-"`
	StatusStr         string                 `json:"status"`

	recent []time.Time
}

// Source is an address that sent only undecodable datagrams.
type Source struct {
	Address         string    `json:"address"`
	IllegalMessages int       `json:"illegal_messages"`
	LastSeen        time.Time `json:"last_seen"`
}

type illegalSource struct {
	count    int
	lastSeen time.Time
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	robots  map[Key]*Robot
	illegal map[string]*illegalSource
}

func NewRegistry() *Registry {
	return &Registry{
		robots:  make(map[Key]*Robot),
		illegal: make(map[string]*illegalSource),
	}
}

func (r *Registry) Observe(addr string, pkt protocol.ReturnData, at time.Time) {
	key := Key{Team: pkt.Team, Player: pkt.Player}
	r.mu.Lock()
	defer r.mu.Unlock()
	robot, ok := r.robots[key]
	if !ok {
		robot = &Robot{Team: pkt.Team, Player: pkt.Player}
		r.robots[key] = robot
	}
	robot.Address = addr
	robot.LastMessage = pkt.Message
	robot.LastSeen = at
	robot.Messages++
	robot.recent = append(trimBefore(robot.recent, at.Add(-RateWindow)), at)
	switch pkt.Message {
	case protocol.ReturnManualPenalise:
		robot.ManualPenalty = true
	case protocol.ReturnManualUnpenalise:
		robot.ManualPenalty = false
	}
}

// ObserveIllegal counts a datagram from addr that failed to decode.
func (r *Registry) ObserveIllegal(addr string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.illegal[addr]
	if !ok {
		src = &illegalSource{}
		r.illegal[addr] = src
	}
	src.count++
	src.lastSeen = at
}

func (r *Registry) IllegalCount(addr string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if src, ok := r.illegal[addr]; ok {
		return src.count
	}
	return 0
}

// Snapshot returns copies sorted by team then player, with status derived
// from now.
func (r *Registry) Snapshot(now time.Time) []Robot {
	r.mu.RLock()
	out := make([]Robot, 0, len(r.robots))
	for _, robot := range r.robots {
		view := *robot
		view.recent = nil
		view.MessagesPerSecond = messageRate(robot.recent, robot.LastSeen)
		if src, ok := r.illegal[robot.Address]; ok {
			view.IllegalMessages = src.count
		}
		out = append(out, view)
	}
	r.mu.RUnlock()

	for i := range out {
		out[i].Status = StatusFor(now.Sub(out[i].LastSeen))
		out[i].StatusStr = out[i].Status.String()
		out[i].LastMessageStr = out[i].LastMessage.String()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// UnknownSources lists addresses with illegal datagrams that no tracked robot
// currently uses, sorted by address.
func (r *Registry) UnknownSources() []Source {
	r.mu.RLock()
	known := make(map[string]bool, len(r.robots))
	for _, robot := range r.robots {
		known[robot.Address] = true
	}
	out := make([]Source, 0)
	for addr, src := range r.illegal {
		if !known[addr] {
			out = append(out, Source{Address: addr, IllegalMessages: src.count, LastSeen: src.lastSeen})
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// StatusCounts tallies robots per status name.
func (r *Registry) StatusCounts(now time.Time) map[string]int {
	counts := map[string]int{
		StatusOnline.String():      0,
		StatusHighLatency.String(): 0,
		StatusOffline.String():     0,
		StatusInactive.String():    0,
	}
	for _, robot := range r.Snapshot(now) {
		counts[robot.StatusStr]++
	}
	return counts
}

// Prune drops robots and illegal sources silent for longer than after and
// returns how many robots were removed.
func (r *Registry) Prune(now time.Time, after time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, robot := range r.robots {
		if now.Sub(robot.LastSeen) > after {
			delete(r.robots, key)
			removed++
		}
	}
	for addr, src := range r.illegal {
		if now.Sub(src.lastSeen) > after {
			delete(r.illegal, addr)
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.robots)
}

// messageRate averages the messages in recent over the span they cover,
// never less than one second. A single message has no rate.
func messageRate(recent []time.Time, last time.Time) float64 {
	recent = trimBefore(recent, last.Add(-RateWindow))
	if len(recent) == 0 {
		return 0
	}
	span := last.Sub(recent[0])
	if span < time.Second {
		span = time.Second
	}
	return float64(len(recent)-1) / span.Seconds()
}

// trimBefore drops leading timestamps older than cutoff. Timestamps are
// appended in arrival order.
func trimBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	return ts[i:]
}
