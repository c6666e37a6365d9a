package lobby

import "fmt"

// State is the lifecycle state of a lobby
type State int

// State constants
const (
	StateWaiting State = iota
	StateInGame
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateInGame:
		return "inGame"
	case StateEnded:
		return "ended"
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *State) UnmarshalText(text []byte) error {
	for _, state := range []State{StateWaiting, StateInGame, StateEnded} {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}

	return fmt.Errorf("unknown lobby state: %s", text)
}

// RoundPhase is the sub-state of a game in progress
type RoundPhase int

// RoundPhase constants
const (
	PhaseNone RoundPhase = iota
	// PhaseDistribution is while some active player has not requested a hand
	PhaseDistribution
	// PhaseGameplay is when moves are submitted, challenged and revealed
	PhaseGameplay
)

func (r RoundPhase) String() string {
	switch r {
	case PhaseNone:
		return "none"
	case PhaseDistribution:
		return "distribution"
	case PhaseGameplay:
		return "gameplay"
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (r RoundPhase) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *RoundPhase) UnmarshalText(text []byte) error {
	for _, phase := range []RoundPhase{PhaseNone, PhaseDistribution, PhaseGameplay} {
		if phase.String() == string(text) {
			*r = phase
			return nil
		}
	}

	return fmt.Errorf("unknown round phase: %s", text)
}
