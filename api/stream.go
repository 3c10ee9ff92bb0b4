package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jetmil/dreamcapture/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are not restricted: authentication happens upstream and the
	// stream only carries public moment identifiers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler handles GET /ws/stream: it upgrades the connection and
// registers the client for new-moment events.
func (h *APIHandler) StreamHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARN: [StreamHandler] Upgrade failed: %v", err)
		return
	}
	stream.NewClient(h.hub, conn).Start()
}
