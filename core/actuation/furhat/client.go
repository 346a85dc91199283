// Package furhat drives a Furhat robot over its realtime websocket API.
package furhat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-thinking/core/actuation"
	"github.com/koscakluka/ema-thinking/core/behavior"
	"github.com/koscakluka/ema-thinking/core/decision"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultPort      = "9000"
	defaultPath      = "/v1/events"
	defaultWriteWait = 5 * time.Second
)

var ErrClosed = errors.New("furhat connection closed")

// Client is an actuation.Actuator backed by one websocket connection.
// Requests are fire and forget unless WithWaitForSpeech is used.
type Client struct {
	conn *websocket.Conn

	writeMu   sync.Mutex
	writeWait time.Duration

	waitForSpeech bool
	speechEnded   chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
	readDone  chan struct{}
}

var (
	_ actuation.Actuator        = (*Client)(nil)
	_ actuation.BehaviorPlanner = (*Client)(nil)
)

type ClientOption func(*Client)

// WithWaitForSpeech makes Speak return only once the robot reports the end
// of the utterance.
func WithWaitForSpeech() ClientOption {
	return func(c *Client) {
		c.waitForSpeech = true
	}
}

// WithWriteTimeout bounds every write to the robot, the closing handshake
// included. Non-positive values keep the default.
func WithWriteTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.writeWait = timeout
		}
	}
}

// Dial connects to host, which may be a bare host, host:port or a full ws
// URL. Port 9000 and path /v1/events are used when missing.
func Dial(ctx context.Context, host string, opts ...ClientOption) (*Client, error) {
	endpoint, err := endpointURL(host)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to furhat: %w", err)
	}

	c := &Client{
		conn:        conn,
		writeWait:   defaultWriteWait,
		speechEnded: make(chan struct{}, 1),
		closed:      make(chan struct{}),
		readDone:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readMessages()
	return c, nil
}

func endpointURL(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("furhat host is empty")
	}
	if !strings.Contains(host, "://") {
		host = "ws://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid furhat host %q: %w", host, err)
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), defaultPort)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultPath
	}
	return u.String(), nil
}

func (c *Client) readMessages() {
	defer close(c.readDone)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("furhat websocket read failed", "error", err)
				}
			}
			return
		}

		var parsed incomingMessage
		if err := json.Unmarshal(msg, &parsed); err != nil {
			logger.Debug("skipping malformed furhat message", "error", err)
			continue
		}

		if parsed.Type == typeSpeakEnd {
			select {
			case c.speechEnded <- struct{}{}:
			default:
			}
		}
	}
}

func (c *Client) Speak(ctx context.Context, text string) error {
	ctx, span := tracer.Start(ctx, "speak")
	defer span.End()

	if c.waitForSpeech {
		// Drop an end notification left over from an earlier utterance.
		select {
		case <-c.speechEnded:
		default:
		}
	}

	if err := c.send(ctx, speakTextRequest{Type: typeSpeakText, Text: text}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !c.waitForSpeech {
		return nil
	}

	select {
	case <-c.speechEnded:
		return nil
	case <-c.readDone:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) StartGesture(ctx context.Context, name string, intensity, duration float64) error {
	return c.send(ctx, gestureStartRequest{
		Type:      typeGestureStart,
		Name:      name,
		Intensity: intensity,
		Duration:  duration,
	})
}

func (c *Client) SetLED(ctx context.Context, color string) error {
	return c.send(ctx, ledSetRequest{Type: typeLEDSet, Color: color})
}

func (c *Client) AttendUser(ctx context.Context) error {
	return c.send(ctx, attendUserRequest{Type: typeAttendUser, UserID: "closest"})
}

func (c *Client) LookAt(ctx context.Context, x, y, z float64) error {
	return c.send(ctx, attendLocationRequest{Type: typeAttendLocation, X: x, Y: y, Z: z})
}

// PlanBehavior performs the opening entry of the plan. Later entries are
// left to the per-cue thinking behaviour.
func (c *Client) PlanBehavior(ctx context.Context, plan []decision.BehaviorEntry) error {
	if len(plan) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "plan behavior")
	defer span.End()
	span.SetAttributes(attribute.Int("plan.entries", len(plan)))

	behavior.NewPerformer(c).PerformEntry(ctx, plan[0])
	return nil
}

func (c *Client) send(ctx context.Context, msg any) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeWait)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to furhat websocket: %w", err)
	}
	return nil
}

// Close says goodbye to the robot and waits for the reader to stop.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()
		closeErr := c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeWait),
		)
		c.writeMu.Unlock()

		err = errors.Join(closeErr, c.conn.Close())
		<-c.readDone
	})
	return err
}
