package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/replica-matcher/internal/replica"
	"github.com/spigell/replica-matcher/internal/trigger"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestResponderReplyAppendsMarker(t *testing.T) {
	stub := &stubGenerator{response: "1. **Anna Ivanova** – Angel investor"}
	responder := NewResponder(stub, 0, zap.NewNop())

	reply, err := responder.Reply(context.Background(), replica.Matchmaker, "Find investors for a fintech startup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Model != "stub-model" {
		t.Fatalf("unexpected model: %q", reply.Model)
	}

	if stub.lastSystem != replica.Matchmaker.Template().SystemMessage {
		t.Fatalf("expected persona system message to be sent")
	}

	if !strings.Contains(stub.lastPrompt, "Find investors for a fintech startup") {
		t.Fatalf("query missing from prompt: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "People category: investors") {
		t.Fatalf("category missing from prompt: %s", stub.lastPrompt)
	}

	marker, err := trigger.Parse(reply.Text)
	if err != nil {
		t.Fatalf("expected appended marker, got %v", err)
	}
	if marker.Payload.Category != trigger.Investors || marker.Payload.Query != "investors for a fintech startup" {
		t.Fatalf("unexpected marker payload: %+v", marker.Payload)
	}
}

func TestResponderKeepsExistingMarker(t *testing.T) {
	marker, err := trigger.Generate(trigger.Mentors, "growth")
	if err != nil {
		t.Fatalf("generate marker: %v", err)
	}
	existing := "**John Smith** – Mentor\n" + marker
	stub := &stubGenerator{response: existing}
	responder := NewResponder(stub, 0, nil)

	reply, err := responder.Reply(context.Background(), replica.Mentor, "need investors")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != existing {
		t.Fatalf("reply was modified: %q", reply.Text)
	}
}

func TestResponderWithoutCategory(t *testing.T) {
	stub := &stubGenerator{response: "Let's start with the coffee area."}
	responder := NewResponder(stub, 0, nil)

	reply, err := responder.Reply(context.Background(), replica.Buddy, "I feel lost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != stub.response {
		t.Fatalf("expected reply without marker, got %q", reply.Text)
	}
	if !strings.Contains(stub.lastPrompt, "People category: any") {
		t.Fatalf("expected unknown category placeholder: %s", stub.lastPrompt)
	}
}

func TestResponderErrors(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	responder := NewResponder(stub, 0, nil)

	if _, err := responder.Reply(context.Background(), replica.Mentor, "   "); err == nil {
		t.Fatal("expected error for empty query")
	}
	if _, err := responder.Reply(context.Background(), replica.Persona(99), "mentors"); !errors.Is(err, replica.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
	if _, err := responder.Reply(context.Background(), replica.Mentor, "mentors"); err == nil || err.Error() != "boom" {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestResponderLogsTruncatedPreview(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: strings.Repeat("a", 50)}
	responder := NewResponder(stub, 10, zap.New(core))

	if _, err := responder.Reply(context.Background(), replica.Mentor, "need a mentor"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("gemini generate content response").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 response log, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["response_preview"] != strings.Repeat("a", 10)+"..." {
		t.Fatalf("unexpected preview: %v", ctx["response_preview"])
	}
	if ctx["ai_provider"] != "gemini" || ctx["ai_model"] != "stub-model" {
		t.Fatalf("missing common fields: %v", ctx)
	}
	if ctx["replica"] != "mentor" || ctx["category"] != "mentors" {
		t.Fatalf("missing session fields: %v", ctx)
	}
}
