package ipc

import "github.com/matjam/beambar/internal/bar"

type CommandType string

const CommandStop CommandType = "stop"

type Command struct {
	Type CommandType `json:"type"`
}

type ManagerInterface interface {
	Status() bar.Status
	Script() string
	EnqueueCommand(Command)
}

type StatusResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Version string     `json:"version"`
	PID     int        `json:"pid"`
	Socket  string     `json:"socket"`
	Config  string     `json:"config"`
	Script  string     `json:"script"`
	Bar     bar.Status `json:"bar"`
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
