// Package testutil provides stub implementations of the model layer's
// provider interfaces for tests.
package testutil

import (
	"context"

	"temetro/model"
)

// ScriptedStreamer replays pre-scripted stream events, one script per
// StreamCompletion call, and records the requests it received. The zero
// value streams nothing and succeeds.
type ScriptedStreamer struct {
	// Scripts[i] is the event sequence for the i-th call. Calls beyond
	// the scripted range produce an empty stream.
	Scripts [][]model.StreamEvent

	// Errs[i], when set, is returned after the i-th script finishes.
	Errs []error

	// Model reported by GetModel.
	Model string

	// Requests records every CompletionRequest received, in order.
	Requests []model.CompletionRequest
}

func (s *ScriptedStreamer) StreamCompletion(ctx context.Context, req model.CompletionRequest, fn model.StreamEventFunc) error {
	call := len(s.Requests)
	s.Requests = append(s.Requests, req)

	if call < len(s.Scripts) {
		for _, ev := range s.Scripts[call] {
			if err := fn(ev); err != nil {
				return err
			}
		}
	}
	if call < len(s.Errs) && s.Errs[call] != nil {
		return s.Errs[call]
	}
	return nil
}

func (s *ScriptedStreamer) GetModel() string {
	if s.Model == "" {
		return "scripted-model"
	}
	return s.Model
}

func (s *ScriptedStreamer) Ping(ctx context.Context) error {
	return nil
}
