package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/world"
)

// Subjects the bridge listens on. Session subjects report what happened to an entity;
// command subjects are requests made on its behalf.
const (
	SubjectJoin     = "hub.session.join"
	SubjectQuit     = "hub.session.quit"
	SubjectWorld    = "hub.session.world"
	SubjectInteract = "hub.session.interact"
	SubjectMenu     = "hub.session.menu"
	SubjectFlight   = "hub.session.flight"
	SubjectMove     = "hub.session.move"

	SubjectCosmeticsMenu  = "hub.command.cosmetics"
	SubjectToggleCosmetic = "hub.command.toggle"
	SubjectSendToHub      = "hub.command.hub"
)

// Subjects lists every subject the bridge serves.
var Subjects = []string{
	SubjectJoin, SubjectQuit, SubjectWorld, SubjectInteract, SubjectMenu, SubjectFlight,
	SubjectMove, SubjectCosmeticsMenu, SubjectToggleCosmetic, SubjectSendToHub,
}

var (
	ErrUnknownSubject = errors.New("unknown subject")
	ErrMissingField   = errors.New("missing field")
	ErrNoMenu         = errors.New("no menu open")
)

// Event is the JSON body of every bridge subject. Only the fields the subject needs are
// read.
type Event struct {
	Entity      string             `json:"entity"`
	Name        string             `json:"name,omitempty"`
	Location    *platform.Location `json:"location,omitempty"`
	GameMode    string             `json:"game_mode,omitempty"`
	Permissions []string           `json:"permissions,omitempty"`
	Ping        int                `json:"ping,omitempty"`
	OnGround    *bool              `json:"on_ground,omitempty"`
	Slot        *int               `json:"slot,omitempty"`
	Effect      string             `json:"effect,omitempty"`
}

// Reply is sent back to requesters.
type Reply struct {
	Handled bool   `json:"handled"`
	Enabled bool   `json:"enabled,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Hub is the part of the synchronizer the bridge drives.
type Hub interface {
	OnJoin(ctx context.Context, id platform.EntityId)
	OnWorldChange(ctx context.Context, id platform.EntityId)
	OnDisconnect(ctx context.Context, id platform.EntityId)
	HandleInteract(ctx context.Context, id platform.EntityId, item *platform.Item) bool
	HandleMenuClick(ctx context.Context, id platform.EntityId, kind platform.MenuKind, item *platform.Item)
	HandleFlightToggle(ctx context.Context, id platform.EntityId) bool
	HandleMove(ctx context.Context, id platform.EntityId)
	OpenCosmeticsMenu(id platform.EntityId) error
	ToggleCosmetic(ctx context.Context, id platform.EntityId, effect string) (bool, error)
	SendToHub(ctx context.Context, id platform.EntityId) error
}

// Sessions is the session registry the bridge keeps in step with the events.
type Sessions interface {
	Connect(id platform.EntityId, p world.Profile) error
	Disconnect(id platform.EntityId) error
	Teleport(id platform.EntityId, loc platform.Location) error
	SetOnGround(id platform.EntityId, onGround bool) error
	Slot(id platform.EntityId, slot int) *platform.Item
	OpenedMenu(id platform.EntityId) *platform.Menu
}

// Server is the subscription side of NatsServer.
type Server interface {
	Ready() <-chan struct{}
	Serve(subject string, handler func(subject string, data []byte) []byte) (func(), error)
}

// EventBridge turns NATS messages into session registry updates and hub calls.
type EventBridge struct {
	server   Server
	sessions Sessions
	hub      Hub
}

func NewEventBridge(server Server, sessions Sessions, hub Hub) *EventBridge {
	return &EventBridge{
		server:   server,
		sessions: sessions,
		hub:      hub,
	}
}

// Start subscribes to every bridge subject once the server is ready and serves until
// ctx is cancelled.
func (b *EventBridge) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-b.server.Ready():
	}

	var unsubs []func()
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	for _, subject := range Subjects {
		unsub, err := b.server.Serve(subject, func(subj string, data []byte) []byte {
			return b.handle(ctx, subj, data)
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		unsubs = append(unsubs, unsub)
	}
	slog.InfoContext(ctx, "event bridge listening", "subjects", len(Subjects))

	<-ctx.Done()
	return nil
}

func (b *EventBridge) handle(ctx context.Context, subject string, data []byte) []byte {
	reply, err := b.Dispatch(ctx, subject, data)
	if err != nil {
		slog.WarnContext(ctx, "handling event", "subject", subject, "error", err)
		reply.Error = err.Error()
	}

	out, err := json.Marshal(reply)
	if err != nil {
		slog.ErrorContext(ctx, "encoding reply", "subject", subject, "error", err)
		return nil
	}
	return out
}

// Dispatch decodes one message and applies it.
func (b *EventBridge) Dispatch(ctx context.Context, subject string, data []byte) (Reply, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Reply{}, fmt.Errorf("decoding event: %w", err)
	}
	id, err := platform.ParseEntityId(ev.Entity)
	if err != nil {
		return Reply{}, fmt.Errorf("parsing entity %q: %w", ev.Entity, err)
	}

	switch subject {
	case SubjectJoin:
		return b.join(ctx, id, ev)
	case SubjectQuit:
		b.hub.OnDisconnect(ctx, id)
		if err := b.sessions.Disconnect(id); err != nil {
			return Reply{}, fmt.Errorf("disconnecting: %w", err)
		}
		return Reply{Handled: true}, nil
	case SubjectWorld:
		if ev.Location == nil {
			return Reply{}, fmt.Errorf("%w: location", ErrMissingField)
		}
		if err := b.sessions.Teleport(id, *ev.Location); err != nil {
			return Reply{}, fmt.Errorf("changing world: %w", err)
		}
		b.hub.OnWorldChange(ctx, id)
		return Reply{Handled: true}, nil
	case SubjectMove:
		return b.move(ctx, id, ev)
	case SubjectInteract:
		if ev.Slot == nil {
			return Reply{}, fmt.Errorf("%w: slot", ErrMissingField)
		}
		item := b.sessions.Slot(id, *ev.Slot)
		return Reply{Handled: b.hub.HandleInteract(ctx, id, item)}, nil
	case SubjectMenu:
		return b.menuClick(ctx, id, ev)
	case SubjectFlight:
		return Reply{Handled: b.hub.HandleFlightToggle(ctx, id)}, nil
	case SubjectCosmeticsMenu:
		if err := b.hub.OpenCosmeticsMenu(id); err != nil {
			return Reply{}, err
		}
		return Reply{Handled: true}, nil
	case SubjectToggleCosmetic:
		on, err := b.hub.ToggleCosmetic(ctx, id, ev.Effect)
		if err != nil {
			return Reply{Enabled: on}, err
		}
		return Reply{Handled: true, Enabled: on}, nil
	case SubjectSendToHub:
		if err := b.hub.SendToHub(ctx, id); err != nil {
			return Reply{}, err
		}
		return Reply{Handled: true}, nil
	}
	return Reply{}, fmt.Errorf("%w: %s", ErrUnknownSubject, subject)
}

func (b *EventBridge) join(ctx context.Context, id platform.EntityId, ev Event) (Reply, error) {
	p := world.Profile{
		Name:        ev.Name,
		GameMode:    platform.ParseGameMode(ev.GameMode),
		Permissions: ev.Permissions,
		Ping:        ev.Ping,
	}
	if ev.Location != nil {
		p.Location = *ev.Location
	}

	if err := b.sessions.Connect(id, p); err != nil {
		return Reply{}, fmt.Errorf("connecting: %w", err)
	}
	b.hub.OnJoin(ctx, id)
	return Reply{Handled: true}, nil
}

func (b *EventBridge) move(ctx context.Context, id platform.EntityId, ev Event) (Reply, error) {
	if ev.Location != nil {
		if err := b.sessions.Teleport(id, *ev.Location); err != nil {
			return Reply{}, fmt.Errorf("moving: %w", err)
		}
	}
	if ev.OnGround != nil {
		if err := b.sessions.SetOnGround(id, *ev.OnGround); err != nil {
			return Reply{}, fmt.Errorf("moving: %w", err)
		}
	}
	b.hub.HandleMove(ctx, id)
	return Reply{Handled: true}, nil
}

func (b *EventBridge) menuClick(ctx context.Context, id platform.EntityId, ev Event) (Reply, error) {
	if ev.Slot == nil {
		return Reply{}, fmt.Errorf("%w: slot", ErrMissingField)
	}
	menu := b.sessions.OpenedMenu(id)
	if menu == nil {
		return Reply{}, ErrNoMenu
	}

	item := menu.Items[*ev.Slot]
	if item == nil {
		return Reply{Handled: false}, nil
	}
	b.hub.HandleMenuClick(ctx, id, menu.Kind, item)
	return Reply{Handled: true}, nil
}
