package telegram

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Handler receives the two kinds of user input the bot reacts to.
type Handler interface {
	// HandleText processes one free-form message.
	HandleText(ctx context.Context, chatID int64, text string)
	// HandleAction processes one inline-button press.
	HandleAction(ctx context.Context, chatID int64, messageID int, callbackID string, data string)
}

// Poller drives the bot from getUpdates long polling. Only the configured
// chat may use the bot; updates from anyone else are dropped without a
// reply. Updates are dispatched one at a time, which keeps every attempt's
// state transitions strictly ordered.
type Poller struct {
	client         *Client
	handler        Handler
	allowedChatID  int64
	timeoutSeconds int
}

func NewPoller(client *Client, handler Handler, allowedChatID int64, timeoutSeconds int) *Poller {
	return &Poller{
		client:         client,
		handler:        handler,
		allowedChatID:  allowedChatID,
		timeoutSeconds: timeoutSeconds,
	}
}

// Run polls until the context is cancelled. Transient API failures back off
// briefly and keep going; only context cancellation ends the loop.
func (p *Poller) Run(ctx context.Context) error {
	log.Info("Telegram poller started")
	var offset int64
	for {
		updates, err := p.client.GetUpdates(ctx, offset, p.timeoutSeconds)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info("Telegram poller stopped")
				return nil
			}
			log.Errorf("Error fetching Telegram updates: %v", err)
			select {
			case <-time.After(3 * time.Second):
				continue
			case <-ctx.Done():
				log.Info("Telegram poller stopped")
				return nil
			}
		}
		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.dispatch(ctx, update)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if query.Message == nil || query.Message.Chat == nil {
			log.Warnf("Callback query %s has no message, dropping", query.ID)
			return
		}
		if !p.allowed(query.Message.Chat.ID) {
			return
		}
		p.handler.HandleAction(ctx, query.Message.Chat.ID, query.Message.MessageID, query.ID, query.Data)
	case update.Message != nil:
		message := update.Message
		if message.Chat == nil || !p.allowed(message.Chat.ID) {
			return
		}
		p.handler.HandleText(ctx, message.Chat.ID, message.Text)
	}
}

func (p *Poller) allowed(chatID int64) bool {
	if chatID != p.allowedChatID {
		log.Debugf("Ignoring update from unauthorized chat %d", chatID)
		return false
	}
	return true
}
