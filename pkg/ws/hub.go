package ws

// Hub maintains the set of joined clients and broadcasts messages to the
// clients of a channel.

type clients map[*Client]bool

type joinRequest struct {
	client  *Client
	channel string
}

type broadcastMessage struct {
	channel string
	msg     []byte
}

type Hub struct {
	// Joined clients.
	clients clients

	channels map[string]clients

	broadcast  chan broadcastMessage
	register   chan joinRequest
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(clients),
		channels:   make(map[string]clients),
		broadcast:  make(chan broadcastMessage),
		register:   make(chan joinRequest),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Join(c *Client, channel string) {
	h.register <- joinRequest{client: c, channel: channel}
}

func (h *Hub) Leave(c *Client) {
	h.unregister <- c
}

func (h *Hub) BroadCastByChannel(channel string, msg []byte) {
	h.broadcast <- broadcastMessage{channel: channel, msg: msg}
}

func (h *Hub) Run() {
	for {
		select {
		case req := <-h.register:
			req.client.channel = req.channel
			h.clients[req.client] = true
			if _, ok := h.channels[req.channel]; !ok {
				h.channels[req.channel] = make(clients)
			}
			h.channels[req.channel][req.client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.disconnect(client)
			}

		case m := <-h.broadcast:
			for client := range h.channels[m.channel] {
				select {
				case client.send <- m.msg:
				default:
					h.disconnect(client)
				}
			}
		}
	}
}

func (h *Hub) disconnect(client *Client) {
	delete(h.clients, client)
	delete(h.channels[client.channel], client)
	close(client.send)
}
