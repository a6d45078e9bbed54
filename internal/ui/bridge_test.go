package ui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/blackconnect/internal/reformat"
)

// notifyingModel reports from inside Update, the way a failed apply does.
type notifyingModel struct {
	bridge *Bridge
	got    chan reformat.Notification
}

func (m notifyingModel) Init() tea.Cmd { return nil }

func (m notifyingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applyMsg:
		msg.fn()
	case notifyMsg:
		m.got <- reformat.Notification(msg)
		return m, tea.Quit
	}
	return m, nil
}

func (m notifyingModel) View() string { return "" }

func TestBridge_NotifyFromUpdateDoesNotBlock(t *testing.T) {
	bridge := NewBridge()
	got := make(chan reformat.Notification, 1)
	p := tea.NewProgram(notifyingModel{bridge: bridge, got: got},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	bridge.Attach(p)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()

	go bridge.Dispatch(func() {
		bridge.Notify(reformat.Notification{Title: reformat.NotificationTitle, Message: "write failed"})
	})

	select {
	case n := <-got:
		if n.Message != "write failed" {
			t.Fatalf("Message = %q, want write failed", n.Message)
		}
	case <-time.After(2 * time.Second):
		p.Kill()
		t.Fatal("notification raised inside Update never arrived")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		p.Kill()
		t.Fatal("program did not exit")
	}
}

func TestBridge_DetachedIsNoop(t *testing.T) {
	bridge := NewBridge()
	ran := false
	bridge.Dispatch(func() { ran = true })
	bridge.Notify(reformat.Notification{Message: "ignored"})
	if ran {
		t.Fatalf("Dispatch ran fn without a program")
	}
}
