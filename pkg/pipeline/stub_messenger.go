package pipeline

import (
	"context"

	"github.com/agendou/agendou/pkg/telegram"
)

// StubMessenger records outgoing chat traffic for tests. The error fields
// force the corresponding call to fail.
type StubMessenger struct {
	SendErr   error
	EditErr   error
	AnswerErr error

	nextMessageID int
	Sent          []SentMessage
	Edits         []KeyboardEdit
	Answers       []CallbackAnswer
}

type SentMessage struct {
	MessageID int
	ChatID    int64
	Text      string
	Keyboard  *telegram.InlineKeyboardMarkup
}

type KeyboardEdit struct {
	ChatID    int64
	MessageID int
	Keyboard  *telegram.InlineKeyboardMarkup
}

type CallbackAnswer struct {
	CallbackID string
	Text       string
}

func NewStubMessenger() *StubMessenger {
	return &StubMessenger{nextMessageID: 100}
}

func (s *StubMessenger) SendMessage(_ context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) (int, error) {
	if s.SendErr != nil {
		return 0, s.SendErr
	}
	s.nextMessageID++
	s.Sent = append(s.Sent, SentMessage{
		MessageID: s.nextMessageID,
		ChatID:    chatID,
		Text:      text,
		Keyboard:  keyboard,
	})
	return s.nextMessageID, nil
}

func (s *StubMessenger) EditMessageKeyboard(_ context.Context, chatID int64, messageID int, keyboard *telegram.InlineKeyboardMarkup) error {
	if s.EditErr != nil {
		return s.EditErr
	}
	s.Edits = append(s.Edits, KeyboardEdit{ChatID: chatID, MessageID: messageID, Keyboard: keyboard})
	return nil
}

func (s *StubMessenger) AnswerCallback(_ context.Context, callbackID string, text string) error {
	if s.AnswerErr != nil {
		return s.AnswerErr
	}
	s.Answers = append(s.Answers, CallbackAnswer{CallbackID: callbackID, Text: text})
	return nil
}

// LastSent returns the most recent message or nil when nothing was sent.
func (s *StubMessenger) LastSent() *SentMessage {
	if len(s.Sent) == 0 {
		return nil
	}
	return &s.Sent[len(s.Sent)-1]
}
