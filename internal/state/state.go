// Package state carries the per-request application state (resolved
// place, active circle, verification and location status) explicitly
// instead of ambient globals. Handlers build it from the session and the
// place cache and pass it into orchestration calls.
package state

import (
	"kilroy/internal/circle"
	"kilroy/internal/place"
)

type State struct {
	place          *place.Place
	circle         circle.Circle
	verified       bool
	locationDenied bool
}

func New() *State {
	return &State{circle: circle.Community}
}

func (s *State) Place() *place.Place { return s.place }

func (s *State) SetPlace(p place.Place) { s.place = &p }

func (s *State) HasPlace() bool { return s.place != nil }

func (s *State) Circle() circle.Circle { return s.circle }

func (s *State) SetCircle(c circle.Circle) { s.circle = c }

func (s *State) Verified() bool { return s.verified }

func (s *State) SetVerified(v bool) { s.verified = v }

func (s *State) LocationDenied() bool { return s.locationDenied }

func (s *State) SetLocationDenied(d bool) { s.locationDenied = d }
