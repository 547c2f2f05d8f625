package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ProviderStub is an in-memory calendar for tests.
type ProviderStub struct {
	mu        sync.Mutex
	events    []Event
	created   []EventRequest
	nextId    int
	busyErr   error
	createErr error
}

func NewProviderStub() *ProviderStub {
	return &ProviderStub{nextId: 1}
}

func (p *ProviderStub) AddEvent(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// FailBusyIntervals makes the next BusyIntervals calls return err.
func (p *ProviderStub) FailBusyIntervals(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busyErr = err
}

// FailCreateEvent makes the next CreateEvent calls return err.
func (p *ProviderStub) FailCreateEvent(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createErr = err
}

func (p *ProviderStub) CreatedEvents() []EventRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	created := make([]EventRequest, len(p.created))
	copy(created, p.created)
	return created
}

func (p *ProviderStub) BusyIntervals(_ context.Context, from time.Time, to time.Time) ([]Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busyErr != nil {
		return nil, p.busyErr
	}
	var found []Event
	for _, e := range p.events {
		if !e.Start.After(to) && !e.End.Before(from) {
			found = append(found, e)
		}
	}
	return found, nil
}

func (p *ProviderStub) CreateEvent(_ context.Context, request EventRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return "", p.createErr
	}
	p.created = append(p.created, request)
	p.events = append(p.events, Event{
		Start:         request.Start,
		End:           request.End,
		IsBlocking:    true,
		AttendeeCount: 2,
	})
	id := fmt.Sprintf("stub-event-%d", p.nextId)
	p.nextId++
	return id, nil
}
