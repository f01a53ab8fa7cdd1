package events

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack/internal/socket"
	"github.com/parceltrack/parceltrack/pkg/logging"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Dispatcher applies state actions. *state.Store implements it.
type Dispatcher interface {
	Dispatch(a state.Action) state.Change
}

// Subscriber registers event handlers. *socket.Manager implements it.
type Subscriber interface {
	On(event string, handler socket.Handler) socket.ListenerID
}

// Router turns inbound events into state actions for one session.
type Router struct {
	session types.Session
	sink    Dispatcher
	decoder *Decoder
	logger  *zerolog.Logger
}

// NewRouter creates a router bound to sess. A nil logger uses the
// "events" component logger.
func NewRouter(sess types.Session, sink Dispatcher, decoder *Decoder, logger *zerolog.Logger) *Router {
	if logger == nil {
		logger = logging.Component("events")
	}
	l := logger.With().Str("user_id", sess.UserID()).Str("role", sess.Role().String()).Logger()
	return &Router{session: sess, sink: sink, decoder: decoder, logger: &l}
}

// Register subscribes the router to every inbound event. It returns the
// number of handlers that were registered.
func (r *Router) Register(sub Subscriber) int {
	n := 0
	for _, name := range Inbound() {
		name := name
		if sub.On(name.String(), func(raw json.RawMessage) { r.Handle(name, raw) }) != 0 {
			n++
		}
	}
	return n
}

// Handle decodes and routes one event. Malformed payloads are logged and
// dropped without touching state.
func (r *Router) Handle(name Name, raw json.RawMessage) {
	payload, err := r.decoder.Decode(name, raw)
	if err != nil {
		r.logger.Warn().Err(err).Str("event", name.String()).Msg("Dropping malformed event")
		return
	}

	switch ev := payload.(type) {
	case *SentEvent:
		r.logger.Info().
			Str("event", name.String()).
			Str("type", ev.Type).
			Str("recipient", ev.Recipient).
			Msg("Notification sent")
		return
	case *PendingEvent:
		r.logger.Debug().Int("count", ev.Count).Msg("Pending notifications received")
	}

	out := Route(r.session, name, payload)
	r.apply(name, out)
}

func (r *Router) apply(name Name, out Outcome) {
	if p := out.Parcel; p != nil {
		var change state.Change
		if out.Relevant {
			change = r.sink.Dispatch(state.UpsertParcel{Parcel: *p})
		} else {
			change = r.sink.Dispatch(state.UpdateParcel{Parcel: *p})
		}
		if change.Applied {
			r.logger.Debug().
				Str("event", name.String()).
				Str("parcel_id", p.ID).
				Str("status", string(p.Status)).
				Msg("Parcel mirror updated")
		}
	}
	for _, in := range out.Notifications {
		r.sink.Dispatch(state.AddNotification{Input: in})
	}
	if len(out.Notifications) == 0 && out.Parcel == nil {
		r.logger.Debug().Str("event", name.String()).Msg("Event not addressed to this session")
	}
}
