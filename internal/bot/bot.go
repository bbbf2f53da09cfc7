// Package bot implements the Telegram conversation: a codeword gate, a
// day/time picker over the configured slot table, free-interval entry
// for the mutual-availability feature, and admin notification of final
// selections.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alnabramov-cyber/telegram-bot/config"
	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
	"github.com/alnabramov-cyber/telegram-bot/internal/model"
	"github.com/alnabramov-cyber/telegram-bot/internal/notification"
	"github.com/alnabramov-cyber/telegram-bot/internal/overlap"
	"github.com/alnabramov-cyber/telegram-bot/internal/store"
)

const (
	codewordPrompt = "Введи кодовое слово, пожалуйста."
	codewordRetry  = "Неверно. Попробуй еще раз:"
	codewordLocked = "Неверно. Доступ закрыт."
	greetingText   = "Привет, Полина)\nИ когда же в этот раз?"
	pickTimeText   = "Выбери время:"
	freeUsageText  = "Формат: /free 2025-12-24 18:30-22:00 (можно \"после 16:00\")."
	freeRetryText  = "Не понял время. Пришли в формате 18:30-22:00 или \"после 16:00\":"
	savedText      = "Записал: %s — %s"
	saveFailedText = "Не получилось сохранить, попробуй позже."
	noOverlapsText = "Совпадений пока нет."
)

type step int

const (
	stepIdle step = iota
	stepAwaitCodeword
	stepPickDay
	stepPickTime
	stepAwaitFree
)

type chatState struct {
	step  step
	tries int
	date  string // pending date for free-interval entry
}

// Bot owns the long-polling loop and per-chat conversation state. All
// state lives on the instance so tests can build isolated bots.
type Bot struct {
	api    *tgbotapi.BotAPI
	cfg    *config.Config
	store  store.Store
	notify *notification.WorkerPool
	loc    *time.Location
	states map[int64]*chatState
}

// New creates a Bot. loc is the timezone used for "today" cutoffs and
// date labels.
func New(api *tgbotapi.BotAPI, cfg *config.Config, s store.Store, notify *notification.WorkerPool, loc *time.Location) *Bot {
	return &Bot{
		api:    api,
		cfg:    cfg,
		store:  s,
		notify: notify,
		loc:    loc,
		states: make(map[int64]*chatState),
	}
}

// Run consumes updates until ctx is cancelled. Updates are handled one
// at a time; the store's own locking covers the rest.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Printf("Bot %s polling for updates", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	st := b.state(msg.Chat.ID)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			*st = chatState{step: stepAwaitCodeword}
			b.send(msg.Chat.ID, codewordPrompt)
		case "free":
			b.handleFree(ctx, msg, st)
		case "overlaps":
			b.send(msg.Chat.ID, b.overlapsText(ctx))
		}
		return
	}

	switch st.step {
	case stepAwaitCodeword:
		b.handleCodeword(msg, st)
	case stepAwaitFree:
		b.handleFreeText(ctx, msg, st, msg.Text)
	}
}

func (b *Bot) handleCodeword(msg *tgbotapi.Message, st *chatState) {
	st.tries++
	if matchCodeword(msg.Text, b.cfg.Telegram.Codewords) {
		st.step = stepPickDay
		reply := tgbotapi.NewMessage(msg.Chat.ID, greetingText)
		reply.ReplyMarkup = dayKeyboard(b.cfg.Slots, b.today())
		b.sendMessage(reply)
		return
	}
	if st.tries >= b.cfg.Telegram.MaxTries {
		st.step = stepIdle
		b.send(msg.Chat.ID, codewordLocked)
		return
	}
	b.send(msg.Chat.ID, codewordRetry)
}

// handleFree parses "/free YYYY-MM-DD <interval>" and stores the
// caller's availability for that date, replacing whatever was there.
func (b *Bot) handleFree(ctx context.Context, msg *tgbotapi.Message, st *chatState) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.send(msg.Chat.ID, freeUsageText)
		return
	}

	date := args[0]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		b.send(msg.Chat.ID, freeUsageText)
		return
	}

	st.date = date
	b.handleFreeText(ctx, msg, st, strings.Join(args[1:], " "))
}

// handleFreeText validates one interval and persists it. Parse failures
// put the chat into retry mode with no attempt cap.
func (b *Bot) handleFreeText(ctx context.Context, msg *tgbotapi.Message, st *chatState, text string) {
	iv, err := interval.Parse(text)
	if err != nil {
		st.step = stepAwaitFree
		b.send(msg.Chat.ID, freeRetryText)
		return
	}

	party := store.ResolveParty(msg.From.ID, b.cfg.Telegram.AdminID)
	if err := b.store.SetDay(ctx, party, st.date, []interval.Interval{iv}); err != nil {
		log.Printf("set day %s/%s: %v", party, st.date, err)
		b.send(msg.Chat.ID, saveFailedText)
		return
	}

	st.step = stepIdle
	b.send(msg.Chat.ID, fmt.Sprintf(savedText, st.date, iv))
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("answer callback: %v", err)
	}
	if q.Message == nil {
		return
	}

	chatID := q.Message.Chat.ID
	st := b.state(chatID)

	switch {
	case strings.HasPrefix(q.Data, "day:"):
		date := strings.TrimPrefix(q.Data, "day:")
		st.step = stepPickTime
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, q.Message.MessageID,
			pickTimeText, timeKeyboard(date, b.cfg.Slots[date]))
		b.sendEdit(edit)

	case q.Data == "back:days":
		st.step = stepPickDay
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, q.Message.MessageID,
			greetingText, dayKeyboard(b.cfg.Slots, b.today()))
		b.sendEdit(edit)

	case strings.HasPrefix(q.Data, "time:"):
		parts := strings.SplitN(q.Data, ":", 3)
		if len(parts) != 3 {
			return
		}
		b.finishBooking(ctx, q, st, parts[1], parts[2])
	}
}

func (b *Bot) finishBooking(ctx context.Context, q *tgbotapi.CallbackQuery, st *chatState, date, slot string) {
	st.step = stepIdle

	edit := tgbotapi.NewEditMessageText(q.Message.Chat.ID, q.Message.MessageID, b.cfg.Telegram.FinalText)
	edit.DisableWebPagePreview = true
	b.sendEdit(edit)

	name := displayName(q.From)
	if err := b.store.CreateBooking(ctx, &model.Booking{
		ChatID:   q.Message.Chat.ID,
		Username: name,
		Date:     date,
		Slot:     slot,
	}); err != nil {
		log.Printf("create booking: %v", err)
	}

	if b.cfg.Telegram.AdminID != 0 {
		b.notify.Dispatch(notification.Notice{
			ChatID: b.cfg.Telegram.AdminID,
			Text: fmt.Sprintf("Новая заявка:\nПользователь: %s\nДень: %s\nВремя: %s",
				name, dayLabel(date), slot),
		})
	}
}

func (b *Bot) overlapsText(ctx context.Context) string {
	now := time.Now().In(b.loc)
	return renderOverlaps(b.store.Overlaps(ctx), now, b.cfg.OverlapWindowDays)
}

// renderOverlaps formats the intersection result for chat, windowed to
// [today, today+days).
func renderOverlaps(ov overlap.DaySlots, now time.Time, days int) string {
	from := now.Format("2006-01-02")
	until := now.AddDate(0, 0, days).Format("2006-01-02")

	var lines []string
	for _, date := range overlap.Dates(ov) {
		if date < from || date >= until {
			continue
		}
		lines = append(lines, dayLabel(date)+": "+strings.Join(interval.Render(ov[date]), ", "))
	}
	if len(lines) == 0 {
		return noOverlapsText
	}
	return "Совпадает:\n" + strings.Join(lines, "\n")
}

func matchCodeword(text string, accepted []string) bool {
	answer := strings.ToLower(strings.TrimSpace(text))
	for _, a := range accepted {
		if answer == a {
			return true
		}
	}
	return false
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return "?"
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (b *Bot) today() string {
	return time.Now().In(b.loc).Format("2006-01-02")
}

func (b *Bot) state(chatID int64) *chatState {
	st, ok := b.states[chatID]
	if !ok {
		st = &chatState{}
		b.states[chatID] = st
	}
	return st
}

func (b *Bot) send(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send to chat %d: %v", msg.ChatID, err)
	}
}

func (b *Bot) sendEdit(edit tgbotapi.EditMessageTextConfig) {
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit in chat %d: %v", edit.ChatID, err)
	}
}
