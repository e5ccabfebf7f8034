package portainer

import (
	"encoding/json"
	"time"
)

// Stack type constants as stored by Portainer.
const (
	StackTypeSwarm      = 1
	StackTypeCompose    = 2
	StackTypeKubernetes = 3
)

// EnvPair is a single environment variable attached to a stack.
type EnvPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Stack is a Portainer stack definition as returned by the stacks API
// and as stored in the embedded database.
type Stack struct {
	Id           int       `json:"Id"`
	Name         string    `json:"Name"`
	Type         int       `json:"Type"`
	EndpointId   int       `json:"EndpointId"`
	ProjectPath  string    `json:"ProjectPath"`
	EntryPoint   string    `json:"EntryPoint"`
	Env          []EnvPair `json:"Env"`
	CreationDate int64     `json:"CreationDate"`
	UpdateDate   int64     `json:"UpdateDate"`
}

// TypeName returns a human-readable stack type.
func (s Stack) TypeName() string {
	switch s.Type {
	case StackTypeSwarm:
		return "swarm"
	case StackTypeCompose:
		return "compose"
	case StackTypeKubernetes:
		return "kubernetes"
	default:
		return "unknown"
	}
}

// Created returns the stack creation time, zero when unset.
func (s Stack) Created() time.Time {
	if s.CreationDate == 0 {
		return time.Time{}
	}
	return time.Unix(s.CreationDate, 0)
}

// Updated returns the last stack update time, falling back to the
// creation time when the stack was never updated.
func (s Stack) Updated() time.Time {
	if s.UpdateDate == 0 {
		return s.Created()
	}
	return time.Unix(s.UpdateDate, 0)
}

// Metadata renders the stack definition as indented JSON for the
// .stack.json sidecar file.
func (s Stack) Metadata() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// stackFileResponse is the body of GET /api/stacks/{id}/file.
type stackFileResponse struct {
	StackFileContent string `json:"StackFileContent"`
}

// systemStatusResponse is the body of GET /api/system/status.
type systemStatusResponse struct {
	Version string `json:"Version"`
}
