package notification

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers one text message to a Telegram chat.
type Sender interface {
	Send(chatID int64, text string) error
}

// TelegramSender sends through the live Bot API.
type TelegramSender struct {
	Bot *tgbotapi.BotAPI
}

func (s *TelegramSender) Send(chatID int64, text string) error {
	_, err := s.Bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Notice is one queued notification.
type Notice struct {
	ChatID int64
	Text   string
}

// WorkerPool manages a pool of workers delivering notices. Delivery
// failures are logged and dropped, never retried.
type WorkerPool struct {
	size   int
	jobs   chan Notice
	sender Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, sender Sender) *WorkerPool {
	return &WorkerPool{
		size:   size,
		jobs:   make(chan Notice, size),
		sender: sender,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case n := <-wp.jobs:
			if err := wp.sender.Send(n.ChatID, n.Text); err != nil {
				log.Printf("Worker %d failed to notify chat %d: %v", id, n.ChatID, err)
			}
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notice for delivery.
func (wp *WorkerPool) Dispatch(n Notice) {
	wp.jobs <- n
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Notice {
	return wp.jobs
}
