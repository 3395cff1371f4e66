package debate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sparringlab/sparring/internal/gateway"
)

// debateHandler answers reply requests with replyText and score requests
// with scoreJSON, keyed off the request temperature.
func debateHandler(replyText, scoreJSON string) func(gateway.ChatRequest) (*gateway.ChatResponse, error) {
	return func(req gateway.ChatRequest) (*gateway.ChatResponse, error) {
		if req.Temperature == scoreTemperature {
			return textResponse(scoreJSON), nil
		}
		return textResponse(replyText), nil
	}
}

const validScoreJSON = `{"clarity":4,"logicalReasoning":4,"relevance":3,"persuasiveness":4,"strengths":["solid"],"areasToImprove":["examples"]}`

func newTestSession(t *testing.T, settings Settings, llm ChatClient) *Session {
	t.Helper()
	sess, err := NewSession(settings, llm, NewScorer(llm, "test-model"), "test-model", nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return sess
}

func TestStartAIFirst(t *testing.T) {
	llm := &mockChat{handler: debateHandler("I open the debate arguing for.", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)

	msg, err := sess.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg == nil || msg.Role != RoleAI {
		t.Fatalf("expected an AI opening message, got %+v", msg)
	}
	if msg.Score != nil {
		t.Error("opening message must not carry a score")
	}
	if sess.Round() != 1 {
		t.Errorf("expected round 1 after opening, got %d", sess.Round())
	}
	if got := len(sess.Messages()); got != 1 {
		t.Errorf("expected exactly one message, got %d", got)
	}
	if sess.State() != StateAwaitingUser {
		t.Errorf("expected awaiting_user, got %s", sess.State())
	}

	// The opening call carries first-message framing and no scoring request.
	if len(llm.requests) != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", len(llm.requests))
	}
	sys := llm.requests[0].Messages[0].Content
	if !strings.Contains(sys, "opening of the debate") {
		t.Error("opening request should use first-message framing")
	}
	if llm.requests[0].Temperature != replyTemperature {
		t.Errorf("expected dialogue temperature, got %v", llm.requests[0].Temperature)
	}
}

func TestStartUserFirstMakesNoCall(t *testing.T) {
	llm := &mockChat{handler: debateHandler("unused", validScoreJSON)}
	s := baseSettings()
	s.SpeakerFirst = SpeakerUser
	sess := newTestSession(t, s, llm)

	msg, err := sess.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != nil {
		t.Errorf("user-first start should return no message, got %+v", msg)
	}
	if len(llm.requests) != 0 {
		t.Errorf("user-first start must not call the gateway, got %d calls", len(llm.requests))
	}
	if sess.Round() != 1 {
		t.Errorf("expected round 1, got %d", sess.Round())
	}
	if sess.State() != StateAwaitingUser {
		t.Errorf("expected awaiting_user, got %s", sess.State())
	}
}

func TestStartTwiceRejected(t *testing.T) {
	llm := &mockChat{handler: debateHandler("opening", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sess.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestSubmitScoresUserTurnAndIncrementsRound(t *testing.T) {
	llm := &mockChat{handler: debateHandler("my rebuttal", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	res, err := sess.Submit(context.Background(), "  remote work saves commutes  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UserMessage.Content != "remote work saves commutes" {
		t.Errorf("input should be trimmed, got %q", res.UserMessage.Content)
	}
	if res.UserMessage.Score == nil {
		t.Fatal("user message should carry the round score")
	}
	if res.UserMessage.Score.Total != 15 {
		t.Errorf("expected total 15, got %d", res.UserMessage.Score.Total)
	}
	if res.Reply.Role != RoleAI || res.Reply.Content != "my rebuttal" {
		t.Errorf("unexpected reply: %+v", res.Reply)
	}
	if sess.Round() != 2 {
		t.Errorf("round should increment to 2 when the paired reply arrives, got %d", sess.Round())
	}

	msgs := sess.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected opening + user + reply, got %d", len(msgs))
	}
	if msgs[1].Score == nil {
		t.Error("score must be attached to the stored user message")
	}

	// Two gateway calls: the reply and the scoring sub-request.
	if len(llm.requests) != 3 { // 1 opening + reply + score
		t.Fatalf("expected 3 gateway calls, got %d", len(llm.requests))
	}
	scoreReq := llm.requests[2]
	if scoreReq.Temperature != scoreTemperature {
		t.Errorf("scoring call should use the judge temperature, got %v", scoreReq.Temperature)
	}
	if !strings.Contains(scoreReq.Messages[0].Content, "remote work saves commutes") {
		t.Error("scoring call should embed the user's latest turn")
	}
	if strings.Contains(scoreReq.Messages[0].Content, "my rebuttal") {
		t.Error("scoring context must predate the AI's new reply")
	}
}

func TestSubmitEmptyInput(t *testing.T) {
	llm := &mockChat{handler: debateHandler("r", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)
	sess.Start(context.Background())

	if _, err := sess.Submit(context.Background(), "   \n\t "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestSubmitBeforeStartRejected(t *testing.T) {
	llm := &mockChat{handler: debateHandler("r", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)
	if _, err := sess.Submit(context.Background(), "hello"); !errors.Is(err, ErrNotAwaitingUser) {
		t.Errorf("expected ErrNotAwaitingUser, got %v", err)
	}
}

func TestSubmitUserFirstOpening(t *testing.T) {
	llm := &mockChat{handler: debateHandler("counter", validScoreJSON)}
	s := baseSettings()
	s.SpeakerFirst = SpeakerUser
	sess := newTestSession(t, s, llm)
	sess.Start(context.Background())

	// Submitting before any AI message exists is the normal first transition.
	res, err := sess.Submit(context.Background(), "my opening argument")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UserMessage.Score == nil {
		t.Error("first user turn should still be scored")
	}
	if sess.Round() != 2 {
		t.Errorf("expected round 2, got %d", sess.Round())
	}
}

func TestSubmitRejectedWhileRequestOutstanding(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	llm := &mockChat{handler: func(req gateway.ChatRequest) (*gateway.ChatResponse, error) {
		if req.Temperature == scoreTemperature {
			return textResponse(validScoreJSON), nil
		}
		once.Do(func() { close(started) })
		<-release
		return textResponse("slow reply"), nil
	}}
	s := baseSettings()
	s.SpeakerFirst = SpeakerUser
	sess := newTestSession(t, s, llm)
	sess.Start(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background(), "first")
		done <- err
	}()
	<-started

	if _, err := sess.Submit(context.Background(), "second"); !errors.Is(err, ErrNotAwaitingUser) {
		t.Errorf("expected concurrent submit to be rejected, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit should succeed: %v", err)
	}
}

func TestSubmitReplyFailureLeavesStateRetriable(t *testing.T) {
	failing := true
	llm := &mockChat{handler: func(req gateway.ChatRequest) (*gateway.ChatResponse, error) {
		if req.Temperature == scoreTemperature {
			return textResponse(validScoreJSON), nil
		}
		if failing {
			return nil, gateway.ErrUnavailable
		}
		return textResponse("recovered reply"), nil
	}}
	s := baseSettings()
	s.SpeakerFirst = SpeakerUser
	sess := newTestSession(t, s, llm)
	sess.Start(context.Background())

	_, err := sess.Submit(context.Background(), "my point")
	if !errors.Is(err, gateway.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := len(sess.Messages()); got != 0 {
		t.Errorf("failed round must not append anything, got %d messages", got)
	}
	if sess.Round() != 1 {
		t.Errorf("round must not advance on failure, got %d", sess.Round())
	}
	if sess.State() != StateAwaitingUser {
		t.Errorf("state should return to awaiting_user, got %s", sess.State())
	}

	// Same input can be retried from the same state.
	failing = false
	res, err := sess.Submit(context.Background(), "my point")
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if res.Reply.Content != "recovered reply" {
		t.Errorf("unexpected reply: %q", res.Reply.Content)
	}
}

func TestSubmitScoringFailureIsSoft(t *testing.T) {
	llm := &mockChat{handler: func(req gateway.ChatRequest) (*gateway.ChatResponse, error) {
		if req.Temperature == scoreTemperature {
			return nil, gateway.ErrUnavailable
		}
		return textResponse("the rebuttal"), nil
	}}
	sess := newTestSession(t, baseSettings(), llm)
	sess.Start(context.Background())

	res, err := sess.Submit(context.Background(), "user turn")
	if err != nil {
		t.Fatalf("scoring failure must not block the reply: %v", err)
	}
	if res.UserMessage.Score != nil {
		t.Error("user message should be unscored, not zero-scored")
	}
	if res.Reply.Content != "the rebuttal" {
		t.Errorf("reply should still be appended, got %q", res.Reply.Content)
	}
	if sess.Round() != 2 {
		t.Errorf("round should still advance, got %d", sess.Round())
	}
}

func TestResetDiscardsConversationKeepsSettings(t *testing.T) {
	llm := &mockChat{handler: debateHandler("reply", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)
	sess.Start(context.Background())
	sess.Submit(context.Background(), "turn one")

	sess.Reset()
	if sess.State() != StateNotStarted {
		t.Errorf("expected not_started after reset, got %s", sess.State())
	}
	if len(sess.Messages()) != 0 {
		t.Error("reset should discard all messages")
	}
	if sess.Round() != 0 {
		t.Errorf("expected round 0, got %d", sess.Round())
	}
	if sess.Settings().Topic != baseSettings().Topic {
		t.Error("reset must leave the static configuration untouched")
	}

	// Restart with the same settings works.
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatalf("restart after reset failed: %v", err)
	}
	if sess.Round() != 1 {
		t.Errorf("expected round 1 after restart, got %d", sess.Round())
	}
}

func TestResetMidFlightDropsLateResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	llm := &mockChat{handler: func(req gateway.ChatRequest) (*gateway.ChatResponse, error) {
		if req.Temperature == scoreTemperature {
			return textResponse(validScoreJSON), nil
		}
		once.Do(func() { close(started) })
		<-release
		return textResponse("stale reply"), nil
	}}
	s := baseSettings()
	s.SpeakerFirst = SpeakerUser
	sess := newTestSession(t, s, llm)
	sess.Start(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background(), "doomed turn")
		done <- err
	}()
	<-started

	sess.Reset()
	close(release)

	if err := <-done; !errors.Is(err, ErrSessionReset) {
		t.Fatalf("expected ErrSessionReset for the stale result, got %v", err)
	}
	if len(sess.Messages()) != 0 {
		t.Error("stale in-flight result must not mutate state after reset")
	}
	if sess.State() != StateNotStarted {
		t.Errorf("expected not_started, got %s", sess.State())
	}
}

func TestEntryAggregatesScores(t *testing.T) {
	totals := []int{12, 15, 9}
	call := 0
	llm := &mockChat{handler: func(req gateway.ChatRequest) (*gateway.ChatResponse, error) {
		if req.Temperature == scoreTemperature {
			// Emit rubric values whose raw sum is the next wanted total.
			n := totals[call]
			call++
			return textResponse(strings.ReplaceAll(
				`{"clarity":N,"logicalReasoning":0,"relevance":0,"persuasiveness":0}`,
				"N", strconv.Itoa(n))), nil
		}
		return textResponse("reply"), nil
	}}
	s := baseSettings()
	s.SpeakerFirst = SpeakerUser
	sess := newTestSession(t, s, llm)
	sess.Start(context.Background())
	for i := range totals {
		if _, err := sess.Submit(context.Background(), "turn"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	entry, err := sess.Entry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.TotalScore == nil || *entry.TotalScore != 36 {
		t.Fatalf("expected totalScore 36, got %v", entry.TotalScore)
	}
	if len(entry.ConversationHistory) != 6 {
		t.Errorf("expected 6 messages, got %d", len(entry.ConversationHistory))
	}
	if entry.Settings.Topic != s.Topic {
		t.Error("entry should carry the session settings")
	}
}

func TestEntryBeforeStart(t *testing.T) {
	llm := &mockChat{handler: debateHandler("r", validScoreJSON)}
	sess := newTestSession(t, baseSettings(), llm)
	if _, err := sess.Entry(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
}
