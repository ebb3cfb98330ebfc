package services

import (
	"context"
	"log"
	"time"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

const defaultWatchInterval = 5 * time.Second

type gateResolver interface {
	Resolve(ctx context.Context, userID int64, role string) (*GateState, error)
}

type statusPusher interface {
	Push(userID int64, decision, status string)
}

// StatusWatcher re-resolves a waiting applicant's gate state on a fixed
// interval and pushes observed changes to their websocket connections.
// One watch runs per connected applicant; it stops as soon as the profile
// status leaves pending or the connection's context is cancelled, so no
// timer outlives the wait it serves.
type StatusWatcher struct {
	resolver gateResolver
	pusher   statusPusher
	interval time.Duration
}

func NewStatusWatcher(resolver gateResolver, pusher statusPusher) *StatusWatcher {
	return &StatusWatcher{
		resolver: resolver,
		pusher:   pusher,
		interval: defaultWatchInterval,
	}
}

// Watch blocks until the applicant's profile status leaves pending or ctx
// is done. The first resolution happens immediately; a change in the gate
// decision or the underlying status is pushed before the loop re-arms.
func (w *StatusWatcher) Watch(ctx context.Context, userID int64, role string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	lastDecision := GateDecision("")
	lastStatus := ""

	for {
		state, err := w.resolver.Resolve(ctx, userID, role)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Transient store errors keep the previous pushed state; the
			// gate stays fail-closed either way.
			log.Printf("status watcher resolve user %d: %v", userID, err)
		} else {
			decision := Decide(state, nil)
			status := currentStatus(state)
			if decision != lastDecision || status != lastStatus {
				w.pusher.Push(userID, string(decision), status)
				lastDecision = decision
				lastStatus = status
			}
			if state.Profile != nil && state.Profile.Status != models.ProfileStatusPending {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func currentStatus(state *GateState) string {
	if state == nil {
		return ""
	}
	if state.RequestStatus != nil {
		return string(*state.RequestStatus)
	}
	if state.AssignmentStatus != nil {
		return string(*state.AssignmentStatus)
	}
	if state.Profile != nil {
		return string(state.Profile.Status)
	}
	return ""
}
