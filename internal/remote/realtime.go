package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ChangeEvent is one remote mutation notification. Subscribers treat any
// event as an invalidation signal and re-run the full read path; Record
// is carried for logging only.
type ChangeEvent struct {
	Type   string // INSERT, UPDATE or DELETE
	Record json.RawMessage
}

// envelope is the channel-protocol frame used by the realtime socket.
type envelope struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the body of a postgres_changes frame.
type changePayload struct {
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

// Subscription is a handle on an open realtime subscription.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Close tears down the subscription and waits for the read loop to exit.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

const (
	heartbeatInterval = 30 * time.Second
	redialDelay       = 5 * time.Second
)

// Subscribe opens the realtime websocket and invokes onChange for every
// insert, update, or delete on the resource. The connection is redialed
// with a flat delay until ctx is canceled; events are delivered from a
// single goroutine, never concurrently.
func (c *Client) Subscribe(ctx context.Context, resource string, logger *slog.Logger, onChange func(ChangeEvent)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		for {
			if err := c.listenOnce(ctx, resource, onChange); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("realtime connection lost, redialing", "resource", resource, "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(redialDelay):
			}
		}
	}()

	return sub
}

// listenOnce holds one websocket session: join the resource topic, keep
// the heartbeat alive, and dispatch change frames until the connection
// drops or ctx is canceled.
func (c *Client) listenOnce(ctx context.Context, resource string, onChange func(ChangeEvent)) error {
	wsURL, err := c.realtimeURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	topic := "realtime:public:" + resource
	join := envelope{Topic: topic, Event: "phx_join", Payload: json.RawMessage(`{}`), Ref: "1"}
	if err := conn.WriteJSON(join); err != nil {
		return err
	}

	// Close the socket when ctx ends so ReadMessage unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	go func() {
		for {
			select {
			case <-heartbeat.C:
				beat := envelope{Topic: "phoenix", Event: "heartbeat", Payload: json.RawMessage(`{}`), Ref: "0"}
				if err := conn.WriteJSON(beat); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame.Topic != topic {
			continue
		}

		switch frame.Event {
		case "INSERT", "UPDATE", "DELETE":
			onChange(ChangeEvent{Type: frame.Event, Record: frame.Payload})
		case "postgres_changes":
			var p changePayload
			if err := json.Unmarshal(frame.Payload, &p); err != nil {
				continue
			}
			onChange(ChangeEvent{Type: p.Type, Record: p.Record})
		}
	}
}

// realtimeURL derives the websocket endpoint from the REST base URL.
func (c *Client) realtimeURL() (string, error) {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/realtime/v1/websocket"
	q := u.Query()
	q.Set("apikey", c.config.APIKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
