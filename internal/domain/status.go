package domain

import "time"

// StatusCheck records that a client checked in with the server.
type StatusCheck struct {
	ID         string    `json:"id" doc:"Unique identifier"`
	ClientName string    `json:"client_name" doc:"Name the client reported"`
	Timestamp  time.Time `json:"timestamp" doc:"When the check was recorded (UTC)"`
}
