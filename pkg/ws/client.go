package ws

import (
	"errors"

	"github.com/gorilla/websocket"
)

// Client is a middleman between a websocket connection and the hub.
type Client struct {
	UserID string

	// R receives inbound messages and closes when the connection is gone.
	R chan []byte

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	// The joined channel, managed by the hub.
	channel string
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		R:    make(chan []byte, 128),
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer func() {
		close(c.done)
		close(c.R)
	}()

	for {
		t, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		switch t {
		case websocket.CloseMessage:
			return
		case websocket.TextMessage:
			select {
			case c.R <- msg:
			default:
			}
		}
	}
}

func (c *Client) runWriter() {
	defer c.conn.Close()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Write queues a message to this client only. The message is zlib compressed
// before sending if compress is set.
func (c *Client) Write(msg []byte, compress bool) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if s, ok := r.(string); ok {
			err = errors.New(s)
		} else {
			err = errors.New("connection is closed")
		}
	}()

	if compress {
		msg, err = Compress(msg)
		if err != nil {
			return err
		}
	}

	select {
	case c.send <- msg:
		return nil
	default:
		return errors.New("client buffer is full")
	}
}
