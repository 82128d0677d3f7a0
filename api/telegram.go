package api

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ayyubpromptcoder/sellerbot/internal/bot"
)

// TelegramMessenger implements bot.Messenger on top of the Bot API client.
type TelegramMessenger struct {
	api *tgbotapi.BotAPI
}

// NewTelegramMessenger wraps an authorized Bot API client.
func NewTelegramMessenger(api *tgbotapi.BotAPI) *TelegramMessenger {
	return &TelegramMessenger{api: api}
}

func (t *TelegramMessenger) SendText(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *TelegramMessenger) SendMenu(chatID int64, text string, menu bot.Menu) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, row := range menu {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := t.api.Send(msg)
	return err
}

func (t *TelegramMessenger) SendKeyboard(chatID int64, text string, rows [][]string) error {
	kbRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		kbRows = append(kbRows, buttons)
	}
	keyboard := tgbotapi.NewReplyKeyboard(kbRows...)
	keyboard.ResizeKeyboard = true
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.api.Send(msg)
	return err
}

func (t *TelegramMessenger) RemoveKeyboard(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	_, err := t.api.Send(msg)
	return err
}

func (t *TelegramMessenger) AnswerCallback(callbackID string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

// EventFromUpdate flattens a Telegram update into the dispatcher's event
// shape. Updates that are neither messages nor callback presses are dropped.
func EventFromUpdate(u tgbotapi.Update) (bot.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		ev := bot.Event{UserID: cq.From.ID, Callback: cq.Data, CallbackID: cq.ID}
		if cq.Message != nil {
			ev.ChatID = cq.Message.Chat.ID
		}
		return ev, true
	case u.Message != nil:
		m := u.Message
		ev := bot.Event{ChatID: m.Chat.ID, Text: m.Text}
		if m.From != nil {
			ev.UserID = m.From.ID
		}
		if m.IsCommand() {
			ev.Command = m.Command()
			ev.Text = ""
		}
		return ev, true
	}
	return bot.Event{}, false
}

// RegisterCommands publishes the bot command menu shown by Telegram clients.
func RegisterCommands(api *tgbotapi.BotAPI) error {
	_, err := api.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Botni ishga tushirish"},
		tgbotapi.BotCommand{Command: "mahsulot", Description: "Admin: Mahsulotlar bo'limi"},
		tgbotapi.BotCommand{Command: "sotuvchi", Description: "Admin: Sotuvchilar bo'limi"},
		tgbotapi.BotCommand{Command: "stok", Description: "Sotuvchi: Stokni ko'rish"},
		tgbotapi.BotCommand{Command: "savdo", Description: "Sotuvchi: Savdo kiritish"},
	))
	return err
}
