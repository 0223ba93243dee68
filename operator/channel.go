// Package operator is the Operator Channel: the bidirectional link
// between the Analyzer and whatever issues fleet commands (a human
// console, a scripted test harness, or a separate Operator process in
// a distributed deployment). It is modeled as a pair of buffered
// channels rather than a request/reply RPC, since every subsystem here
// runs in one process and channels already give the FIFO,
// blocking-aware handoff a network layer would otherwise need to
// provide.
package operator

import (
	"context"
	"errors"
	"fmt"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/atc-sim/atc-sim/geometry"
)

// ErrQueueFull is returned by PushCommand when the command queue is at
// capacity and the caller did not block on ctx.
var ErrQueueFull = errors.New("operator: command queue full")

// RequestKind enumerates the commands an operator can issue.
// RequestNone is the zero value: PollCommand returns it for an empty
// queue rather than blocking, so a caller can always dispatch on Kind
// without checking an error first.
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestSetVelocity
	RequestSetCongestionHorizon
	RequestShowPlane
)

// Request is one operator-issued command.
type Request struct {
	Kind                 RequestKind
	PlaneID              int32
	NewVelocity          geometry.Vec3
	NewCongestionSeconds float64
}

// Alert is a separation-violation notice the Analyzer pushes to every
// subscriber.
type Alert struct {
	Plane1ID              int32
	Plane2ID              int32
	TimeToClosestApproach float64
}

func (a Alert) String() string {
	return fmt.Sprintf("conflict: %d/%d, t*=%.1fs", a.Plane1ID, a.Plane2ID, a.TimeToClosestApproach)
}

// Channel is the Operator Channel: a bounded command queue the
// Analyzer drains, and an alert fan-out it publishes to.
type Channel struct {
	commands chan Request

	subscribers []chan Alert
}

func New(queueDepth int) *Channel {
	return &Channel{commands: make(chan Request, queueDepth)}
}

// PushCommand enqueues a request from the operator side. It never
// blocks past the queue's capacity — callers needing backpressure
// awareness should select on ctx.Done() around this call themselves,
// matching the Airspace Store's own ring: commands beyond the bound
// are rejected, not queued indefinitely.
func (c *Channel) PushCommand(ctx context.Context, r Request) error {
	select {
	case c.commands <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// GetUserCommand blocks until a command is available or ctx is done.
// Suited to a consumer with its own dedicated goroutine; a consumer
// that shares a loop with other periodic work should use PollCommand
// instead, since blocking here would stall everything else sharing
// that loop.
func (c *Channel) GetUserCommand(ctx context.Context) (Request, error) {
	select {
	case r := <-c.commands:
		return r, nil
	case <-ctx.Done():
		return Request{}, ctx.Err()
	}
}

// PollCommand returns the next queued Request without blocking. If the
// queue is empty it returns a zero-value Request with Kind RequestNone
// immediately. This is what the operator poll cadence calls each tick,
// since it shares a single consumer goroutine with four other cadences
// and an empty queue must never stall the others.
func (c *Channel) PollCommand() Request {
	select {
	case r := <-c.commands:
		return r
	default:
		return Request{Kind: RequestNone}
	}
}

// Subscribe registers a new alert listener. Intended for the Display
// and Logger subsystems, each of which gets its own channel so a slow
// reader on one side never blocks delivery to the other. An alert that
// finds a subscriber's buffer full is dropped for that subscriber (see
// SendAlert).
func (c *Channel) Subscribe(buffer int) <-chan Alert {
	ch := make(chan Alert, buffer)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// SendAlert fans an alert out to every subscriber registered via
// Subscribe. A full subscriber channel is skipped, and counted in the
// returned dropped total, rather than blocking the Analyzer's violation-check cadence — an alert
// feed is advisory, and discarding a stale display update is
// preferable to stalling the simulation loop.
func (c *Channel) SendAlert(ctx context.Context, a Alert) (dropped int) {
	for _, sub := range c.subscribers {
		select {
		case sub <- a:
		case <-ctx.Done():
			return dropped
		default:
			dropped++
		}
	}
	return dropped
}

// MergeAlerts combines every subscriber channel registered so far into
// a single stream, useful for a single consumer (e.g. atc-simctl) that
// wants to observe everything without picking a subsystem role.
func (c *Channel) MergeAlerts(done <-chan struct{}) <-chan Alert {
	chans := make([]<-chan Alert, len(c.subscribers))
	for i, sub := range c.subscribers {
		chans[i] = sub
	}
	return channerics.Merge(done, chans...)
}
