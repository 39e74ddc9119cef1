package web3socket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	tools "github.com/kirillDanshin/nulltime"
)

const (
	Websocket_Patients      = "PATIENTS"
	Websocket_Appointments  = "APPOINTMENTS"
	Websocket_Consultations = "CONSULTATIONS"
	Websocket_Invoices      = "INVOICES"
	Websocket_Expenses      = "EXPENSES"
	Websocket_Accounts      = "ACCOUNTS"
	Websocket_Imports       = "IMPORTS"
	Websocket_All           = "ALL"
)

const (
	Websocket_Update = "UPDATE"
	Websocket_Add    = "ADD"
	Websocket_Delete = "DELETE"
)

type RegisteredMessageType struct {
	MessageType string `json:"message_type"`
	SpecifiedId string `json:"specified_id"`
}

type RegisteredMessageTypes []RegisteredMessageType

var WebsocketUsers = make(map[string]map[*websocket.Conn]RegisteredMessageTypes)

var Broadcast = make(chan WSHeaderMessage)   // broadcast channel
var UserChannel = make(chan WSHeaderMessage) // user channel

// Configure the upgrader
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func HandleBroadcastMessages() {
	for {
		// Grab the next message from the broadcast channel
		msg := <-Broadcast
		// Send it out to every client that is currently connected

		for userId, usersWebsockets := range WebsocketUsers {
			if msg.UserId == "" || msg.UserId == userId {
				for client, areas := range usersWebsockets {
					needsToSend := false
					for _, area := range areas {
						if (area.MessageType == msg.Message.MessageType || area.MessageType == Websocket_All) && (area.SpecifiedId == "" || area.SpecifiedId == msg.Message.ForeignId) {
							needsToSend = true
							break
						}
					}
					if needsToSend {
						err := client.WriteJSON(&msg.Message)
						if err != nil {
							log.Printf("error: %v", err)
							client.Close()
							delete(usersWebsockets, client)
						}
					}
				}
			}
		}
	}
}

func HandleUserMessages() {
	for {
		msg := <-UserChannel

		for client := range WebsocketUsers[msg.UserId] {
			err := client.WriteJSON(msg.Message)
			if err != nil {
				log.Printf("error: %v", err)
				client.Close()
				delete(WebsocketUsers[msg.UserId], client)
			}
		}
	}
}

func SendBroadCastWebsocketDataInfoMessage(message string, action string, foreignType string, foreignId string, data interface{}) {
	var wsMsg WebsocketMessage = WebsocketMessage{
		MessageType: "DATA",
		Timestamp:   tools.NullTime{Time: time.Now(), Valid: true},
		Message:     message,
		ForeignType: foreignType,
		ForeignId:   foreignId,
		Action:      action,
		Data:        data,
	}
	headerMsg := WSHeaderMessage{UserId: "", Message: wsMsg}
	Broadcast <- headerMsg
}

// empty userId means every connected user
func SendWebsocketDataInfoMessage(message string, action string, foreignType string, foreignId string, userIds []string, data interface{}) {
	if len(userIds) == 0 {
		return
	}
	for _, userId := range userIds {
		if userId != "" {
			var wsMsg WebsocketMessage = WebsocketMessage{
				MessageType: "DATA",
				Timestamp:   tools.NullTime{Time: time.Now(), Valid: true},
				Message:     message,
				ForeignType: foreignType,
				ForeignId:   foreignId,
				Action:      action,
				Data:        data,
			}
			headerMsg := WSHeaderMessage{UserId: userId, Message: wsMsg}
			Broadcast <- headerMsg
		}
	}
}
