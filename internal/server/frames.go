package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/xtding233/idle-backend/internal/session"
)

// RunFrames drives sess from the wall clock until ctx is done. Each frame
// passes the real elapsed time to Session.Frame and then, when hub is
// non-nil, publishes the fresh view.
func RunFrames(ctx context.Context, sess *session.Session, interval time.Duration, hub *Hub) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	won := sess.Won()
	for {
		select {
		case now := <-ticker.C:
			sess.Frame(now.Sub(last))
			last = now
			nowWon := sess.Won()
			if nowWon && !won {
				slog.InfoContext(ctx, "game won", "session", sess.ID())
				if hub != nil {
					hub.Publish(Message{Type: "won", Payload: sess.ID()})
				}
			}
			won = nowWon
			if hub != nil {
				hub.Publish(Message{Type: "view", Payload: sess.View()})
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// InvokeHandler answers "invoke" messages from socket clients with a
// "result" message.
func InvokeHandler(sess *session.Session) func(context.Context, Message) *Message {
	return func(ctx context.Context, m Message) *Message {
		if m.Type != "invoke" {
			return nil
		}
		name, _ := m.Payload.(string)
		changed, err := sess.Invoke(ctx, name)
		resp := invokeResp{Action: name, Changed: changed}
		if err != nil {
			resp.Err = err.Error()
		}
		return &Message{Type: "result", Payload: resp}
	}
}
