package engine

import (
	"testing"
)

type captureSub struct {
	subject string
	handler func(data []byte)
}

func (s *captureSub) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	s.subject = subject
	s.handler = handler
	return func() {}, nil
}

type inlineRunner struct{}

func (inlineRunner) Do(fn func()) { fn() }

type recordingSink struct {
	events []Event
}

func (s *recordingSink) HandleEvent(ev Event) {
	s.events = append(s.events, ev)
}

func TestFeedDecode(t *testing.T) {
	tests := map[string]struct {
		payload string
		exp     []Event
	}{
		"death with killer": {
			payload: `{"type":"death","player":3,"killer":0}`,
			exp:     []Event{{Type: EventDeath, Player: 3, Killer: 0}},
		},
		"death without killer": {
			payload: `{"type":"death","player":3}`,
			exp:     []Event{{Type: EventDeath, Player: 3, Killer: NoPlayer}},
		},
		"malformed dropped": {
			payload: `{"type":`,
			exp:     nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sink := &recordingSink{}
			feed := NewFeed(&captureSub{}, sink, inlineRunner{})

			feed.handle([]byte(tt.payload))

			if len(sink.events) != len(tt.exp) {
				t.Fatalf("got %d events, want %d", len(sink.events), len(tt.exp))
			}
			for i, ev := range tt.exp {
				if sink.events[i] != ev {
					t.Errorf("event %d = %+v, want %+v", i, sink.events[i], ev)
				}
			}
		})
	}
}
