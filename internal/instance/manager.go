// Package instance relays administrative commands to managed game-server
// instances, holding exactly one remote-command session per instance.
package instance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/St4ndd/NodeStack/internal/observability"
	"github.com/St4ndd/NodeStack/internal/rcon"
)

var (
	ErrInvalidInstance  = errors.New("instance: invalid instance definition")
	ErrUnknownInstance  = errors.New("instance: unknown instance")
	ErrAlreadyConnected = errors.New("instance: session already live")
)

// Instance describes one managed game-server's command endpoint. The
// password comes from the managed instance's own configuration; reading it
// is the caller's concern.
type Instance struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	RconAddr     string `toml:"rcon_addr"`
	RconPassword string `toml:"rcon_password"`
}

func (i Instance) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidInstance)
	}
	if strings.TrimSpace(i.RconAddr) == "" {
		return fmt.Errorf("%w: instance %q missing rcon_addr", ErrInvalidInstance, i.ID)
	}
	if i.RconPassword == "" {
		return fmt.Errorf("%w: instance %q missing rcon_password", ErrInvalidInstance, i.ID)
	}
	return nil
}

type session struct {
	sessionID uuid.UUID
	client    *rcon.Client
}

// Manager owns at most one live session per instance id. Sessions for
// different instances are fully independent: commands to separate instances
// run in parallel, and commands within one instance overlap freely on its
// single session.
type Manager struct {
	cfg rcon.Config

	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager(cfg rcon.Config) *Manager {
	return &Manager{
		cfg:      cfg.WithDefaults(),
		sessions: make(map[string]*session),
	}
}

// Connect opens and authenticates the session for inst. A live session for
// the same instance is an error; a previously closed one is replaced.
func (m *Manager) Connect(ctx context.Context, inst Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if existing, ok := m.sessions[inst.ID]; ok {
		if existing.client.State() != rcon.StateClosed {
			m.mu.Unlock()
			return fmt.Errorf("%w: instance %q", ErrAlreadyConnected, inst.ID)
		}
		delete(m.sessions, inst.ID)
	}
	s := &session{
		sessionID: uuid.New(),
		client:    rcon.NewClient(inst.RconAddr, inst.RconPassword, m.cfg),
	}
	m.sessions[inst.ID] = s
	m.mu.Unlock()

	if err := s.client.Connect(ctx); err != nil {
		m.mu.Lock()
		if m.sessions[inst.ID] == s {
			delete(m.sessions, inst.ID)
		}
		m.mu.Unlock()
		return err
	}
	log.Info().
		Str("instance", inst.ID).
		Str("session_id", s.sessionID.String()).
		Str("addr", inst.RconAddr).
		Msg("instance session established")
	return nil
}

// Send relays one command over the instance's session and returns the
// response body.
func (m *Manager) Send(ctx context.Context, instanceID, command string) (string, error) {
	m.mu.Lock()
	s, ok := m.sessions[instanceID]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownInstance, instanceID)
	}

	start := time.Now()
	body, err := s.client.SendCommand(ctx, command)
	observability.RecordCommand(instanceID, commandOutcome(err), time.Since(start))
	if err != nil {
		return "", err
	}
	return body, nil
}

// Disconnect tears down the instance's session, rejecting its pending
// commands. Unknown or already-closed instances are a no-op.
func (m *Manager) Disconnect(instanceID string) {
	m.mu.Lock()
	s, ok := m.sessions[instanceID]
	delete(m.sessions, instanceID)
	m.mu.Unlock()
	if ok {
		_ = s.client.Disconnect()
		log.Info().Str("instance", instanceID).Msg("instance session closed")
	}
}

// DisconnectAll closes every session.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()
	for id, s := range sessions {
		_ = s.client.Disconnect()
		log.Info().Str("instance", id).Msg("instance session closed")
	}
}

// SessionState reports the lifecycle state of an instance's session.
func (m *Manager) SessionState(instanceID string) (rcon.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[instanceID]
	if !ok {
		return rcon.StateDisconnected, false
	}
	return s.client.State(), true
}

func commandOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, rcon.ErrTimeout):
		return "timeout"
	case errors.Is(err, rcon.ErrConnectionClosed):
		return "closed"
	case errors.Is(err, rcon.ErrNotAuthenticated):
		return "not_authenticated"
	default:
		return "error"
	}
}
