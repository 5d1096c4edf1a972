package orders

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vendora/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Event is one message on the admin order feed.
type Event struct {
	Type        string  `json:"type"`
	OrderID     string  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Status      string  `json:"status"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Client is one connected admin dashboard.
type Client struct {
	conn *websocket.Conn
	Send chan []byte
}

// Hub fans order events out to connected admin dashboards. All state is
// owned by the Run goroutine; handlers only touch the channels.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 16),
		done:       make(chan struct{}),
	}
}

// Updates is the feed the order handlers publish to.
var Updates = NewHub()

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if h.clients[client] {
				delete(h.clients, client)
				close(client.Send)
			}
		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("Failed to encode order event: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.Send <- payload:
				default:
					// slow consumer, drop it
					delete(h.clients, client)
					close(client.Send)
				}
			}
		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast never blocks the request path; if the hub is saturated the
// event is dropped, dashboards refetch on reconnect anyway.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("Order feed full, dropping %s for %s", event.Type, event.OrderID)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS attaches an admin dashboard to the order feed. Browsers cannot
// set headers on a websocket upgrade, so the token rides in the query.
func ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT("Bearer " + r.URL.Query().Get("token"))
	if err != nil || claims.Role != "admin" {
		http.Error(w, "Admin access required", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Order feed upgrade failed: %v", err)
		return
	}

	client := &Client{conn: conn, Send: make(chan []byte, 16)}
	Updates.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.Send {
		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump exists only to notice the peer going away.
func (c *Client) readPump() {
	defer func() { Updates.unregister <- c }()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
