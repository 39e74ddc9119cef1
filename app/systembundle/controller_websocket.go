package systembundle

import (
	"errors"
	"log"
	"net/http"
	"strings"

	web3socket "github.com/GFattehallah/CMHE-Manager/app/websocket"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// WSTickets maps one-shot websocket tickets to session tokens. Browsers can
// not send an Authorization header on the upgrade request, so the client
// fetches a ticket first and puts it in the connect url.
var WSTickets = make(map[string]string)

func (c *SystemController) GetWSTicketHandler(w http.ResponseWriter, r *http.Request) {
	sessionToken := ""

	auth := r.Header.Get("Authorization")
	tmp := strings.Split(auth, " ")
	if len(tmp) != 2 {
		c.HandleUnauthorizedError(errors.New("Not authorized"), w)
		return
	}
	if _, ok := (*c.Users)[tmp[1]]; !ok {
		c.HandleUnauthorizedError(errors.New("Session invalid"), w)
		return
	}
	sessionToken = tmp[1]

	ticket := c.RandomString(32)
	WSTickets[ticket] = sessionToken

	c.SendJSON(w, &ticket, http.StatusOK)
}

func (c *SystemController) HandleConnections(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ticket := vars["ticket"]
	auth := WSTickets[ticket]
	delete(WSTickets, ticket)

	user, ok := (*c.Users)[auth]
	if !ok {
		c.HandleError(errors.New("Ticket invalid"), w)
		return
	}

	// Upgrade initial GET request to a websocket
	ws, err := web3socket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	// Make sure we close the connection when the function returns
	defer ws.Close()

	// Register our new client
	if _, ok := web3socket.WebsocketUsers[user.ID]; !ok {
		web3socket.WebsocketUsers[user.ID] = make(map[*websocket.Conn]web3socket.RegisteredMessageTypes)
	}

	web3socket.WebsocketUsers[user.ID][ws] = web3socket.RegisteredMessageTypes{{MessageType: web3socket.Websocket_All, SpecifiedId: ""}}

	for {
		var msg web3socket.WebsocketMessage
		// Read in a new message as JSON and map it to a Message object
		err := ws.ReadJSON(&msg)
		if err != nil {
			log.Printf("error: %v", err)
			delete(web3socket.WebsocketUsers[user.ID], ws)
			break
		}
	}
}
