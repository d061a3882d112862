package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/soniachalia9-maker/bulkmail/internal/email"
	"github.com/soniachalia9-maker/bulkmail/internal/message"
	"github.com/soniachalia9-maker/bulkmail/internal/recipient"
)

// mockTransport records session activity and fails selected addresses.
type mockTransport struct {
	connectErr error
	failAddrs  map[string]bool
	sent       []string
	connects   int
	closed     bool
}

func (m *mockTransport) Connect(_ context.Context) error {
	m.connects++
	return m.connectErr
}

func (m *mockTransport) Send(_ context.Context, msg *email.Message) error {
	if m.failAddrs[msg.ToAddr] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg.ToAddr)
	return nil
}

func (m *mockTransport) Close() error {
	m.closed = true
	return nil
}

func (m *mockTransport) Name() string { return "mock" }

func testRenderer(t *testing.T) *message.Renderer {
	t.Helper()
	r, err := message.NewRenderer(message.Spec{Subject: "Hi", Body: "body"}, "Op", "op@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func rcpts(addrs ...string) []recipient.Recipient {
	out := make([]recipient.Recipient, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, recipient.Recipient{Email: a})
	}
	return out
}

func TestRun_AllSentInOrder(t *testing.T) {
	t.Parallel()

	mock := &mockTransport{}
	list := rcpts("a@example.com", "b@example.com", "c@example.com")

	res, err := Run(context.Background(), mock, testRenderer(t), list, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Sent != 3 || res.Failed != 0 || res.Total != 3 {
		t.Errorf("result: got %+v", res)
	}
	if res.Sent+res.Failed != res.Total {
		t.Error("sent+failed != total after successful session")
	}
	want := []string{"a@example.com", "b@example.com", "c@example.com"}
	for i, w := range want {
		if mock.sent[i] != w {
			t.Errorf("send order[%d]: got %q, want %q", i, mock.sent[i], w)
		}
	}
	if !mock.closed {
		t.Error("session not closed after batch")
	}
}

func TestRun_SessionFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	mock := &mockTransport{connectErr: errors.New("auth failed")}
	list := rcpts("a@example.com", "b@example.com")

	res, err := Run(context.Background(), mock, testRenderer(t), list, Options{})
	if err == nil {
		t.Fatal("expected session setup error")
	}
	if !strings.Contains(err.Error(), "auth failed") {
		t.Errorf("error should wrap the connect failure: %v", err)
	}
	if res.Sent != 0 || res.Failed != 0 {
		t.Errorf("aborted batch must attempt nothing: %+v", res)
	}
	if res.Total != 2 {
		t.Errorf("Total: got %d, want 2", res.Total)
	}
	if len(mock.sent) != 0 {
		t.Errorf("messages were transmitted: %v", mock.sent)
	}
}

func TestRun_PartialFailureContinues(t *testing.T) {
	t.Parallel()

	mock := &mockTransport{failAddrs: map[string]bool{"b@example.com": true}}
	list := rcpts("a@example.com", "b@example.com", "c@example.com")

	res, err := Run(context.Background(), mock, testRenderer(t), list, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Sent != 2 || res.Failed != 1 {
		t.Errorf("result: got %+v", res)
	}
	if res.Sent+res.Failed != res.Total {
		t.Error("sent+failed != total")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "b@example.com") {
		t.Errorf("Errors: got %v", res.Errors)
	}
	// The failure must not stop the recipient after it.
	if mock.sent[len(mock.sent)-1] != "c@example.com" {
		t.Errorf("batch did not continue past the failure: %v", mock.sent)
	}
	if !mock.closed {
		t.Error("session not closed")
	}
}

func TestRun_TestModeTouchesNothing(t *testing.T) {
	t.Parallel()

	mock := &mockTransport{}
	list := rcpts("a@example.com", "b@example.com")

	var progressed int
	res, err := Run(context.Background(), mock, testRenderer(t), list, Options{
		TestMode: true,
		Progress: func(i, n int, _ recipient.Recipient, err error) {
			progressed++
			if err != nil {
				t.Errorf("test mode progress reported error: %v", err)
			}
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Sent != 0 || res.Failed != 0 || res.Total != 2 {
		t.Errorf("test mode result: got %+v, want {0 0 2}", res)
	}
	if mock.connects != 0 || len(mock.sent) != 0 || mock.closed {
		t.Error("test mode must not touch the transport")
	}
	if progressed != 2 {
		t.Errorf("progress calls: got %d, want 2", progressed)
	}
}

func TestRun_EmptyRecipients(t *testing.T) {
	t.Parallel()

	mock := &mockTransport{}
	res, err := Run(context.Background(), mock, testRenderer(t), nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || mock.connects != 0 {
		t.Errorf("empty batch should be a no-op: %+v", res)
	}
}
