package bot

import (
	"fmt"
	"sort"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Monday-first, matching the labels users expect.
var weekdaysRU = [7]string{"пн", "вт", "ср", "чт", "пт", "сб", "вс"}

// dayLabel renders an ISO date as "DD.MM <weekday>", e.g. "24.12 ср".
// Unparseable input is returned as-is.
func dayLabel(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	wd := weekdaysRU[(int(d.Weekday())+6)%7]
	return fmt.Sprintf("%02d.%02d %s", d.Day(), int(d.Month()), wd)
}

// dayKeyboard lists the configured slot dates that are not yet past,
// three buttons per row, callback "day:<iso>".
func dayKeyboard(slots map[string][]string, today string) tgbotapi.InlineKeyboardMarkup {
	dates := make([]string, 0, len(slots))
	for date := range slots {
		if date >= today {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, date := range dates {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(dayLabel(date), "day:"+date))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// timeKeyboard lists the slot labels for one date, one per row, with a
// back button underneath.
func timeKeyboard(date string, labels []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, label := range labels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "time:"+date+":"+label),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "back:days"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
