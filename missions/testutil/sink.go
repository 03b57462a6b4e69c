package testutil

import "sync"

// CompletedEvent records one MissionCompleted call.
type CompletedEvent struct {
	PlayerID string
	Title    string
}

// SpySink records every notification for later assertions.
type SpySink struct {
	mu        sync.Mutex
	refreshed []string
	completed []CompletedEvent
}

func NewSpySink() *SpySink {
	return &SpySink{}
}

func (s *SpySink) MissionsRefreshed(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, playerID)
}

func (s *SpySink) MissionCompleted(playerID string, missionTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, CompletedEvent{PlayerID: playerID, Title: missionTitle})
}

func (s *SpySink) Refreshed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.refreshed...)
}

func (s *SpySink) Completed() []CompletedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CompletedEvent(nil), s.completed...)
}
