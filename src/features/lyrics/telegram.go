package lyrics

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/contre95/neteaselyrics/src/music"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	pickCallbackPrefix = "lyrics_pick:"
	telegramTimeout    = 30 * time.Second
)

// TelegramHandler handles Telegram commands for the lyrics feature
type TelegramHandler struct {
	service music.LyricsService

	mu      sync.Mutex
	results map[int64][]music.SearchCandidate // last /search per chat
}

// NewTelegramHandler creates a new Telegram handler for the lyrics feature
func NewTelegramHandler(service music.LyricsService) *TelegramHandler {
	return &TelegramHandler{
		service: service,
		results: make(map[int64][]music.SearchCandidate),
	}
}

// HandleCommand processes lyrics-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	term := strings.TrimSpace(args)
	if term == "" {
		return h.send(bot, tgbotapi.NewMessage(chatID, fmt.Sprintf("Usage: /%s <song or artist>", command)))
	}

	switch command {
	case "search":
		return h.handleSearch(bot, chatID, term)
	case "lyrics":
		return h.handleLyrics(bot, chatID, term)
	default:
		return fmt.Errorf("unknown lyrics command %q", command)
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"search": "Search songs and pick one to get its lyrics",
		"lyrics": "Send the lyrics of the best match as an .lrc file",
	}
}

// HandleCallback handles candidate selection buttons
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	if !strings.HasPrefix(callback.Data, pickCallbackPrefix) || callback.Message == nil {
		return false
	}
	chatID := callback.Message.Chat.ID

	index, err := strconv.Atoi(strings.TrimPrefix(callback.Data, pickCallbackPrefix))
	if err != nil {
		return true
	}

	h.mu.Lock()
	candidates := h.results[chatID]
	h.mu.Unlock()
	if index < 0 || index >= len(candidates) {
		h.send(bot, tgbotapi.NewMessage(chatID, "❌ Search expired, please /search again"))
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), telegramTimeout)
	defer cancel()
	lyrics, err := h.service.FetchLyrics(ctx, h.service.DefaultProvider(), candidates[index])
	if err != nil {
		slog.Error("Failed to fetch lyrics from Telegram", "error", err, "chat_id", chatID)
		h.send(bot, tgbotapi.NewMessage(chatID, "❌ Failed to fetch lyrics"))
		return true
	}
	h.sendLyrics(bot, chatID, lyrics)
	return true
}

func (h *TelegramHandler) handleSearch(bot *tgbotapi.BotAPI, chatID int64, term string) error {
	ctx, cancel := context.WithTimeout(context.Background(), telegramTimeout)
	defer cancel()

	candidates, err := h.service.SearchCandidates(ctx, h.service.DefaultProvider(), term)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return h.send(bot, tgbotapi.NewMessage(chatID, "🔍 No songs found"))
	}

	h.mu.Lock()
	h.results[chatID] = candidates
	h.mu.Unlock()

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range candidates {
		label := c.Name
		if artist := c.FirstArtist(); artist != "" {
			label = artist + " - " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, pickCallbackPrefix+strconv.Itoa(i)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔍 %d songs found, pick one:", len(candidates)))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return h.send(bot, msg)
}

func (h *TelegramHandler) handleLyrics(bot *tgbotapi.BotAPI, chatID int64, term string) error {
	ctx, cancel := context.WithTimeout(context.Background(), telegramTimeout)
	defer cancel()

	providerName := h.service.DefaultProvider()
	candidates, err := h.service.SearchCandidates(ctx, providerName, term)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		lyrics, err := h.service.FetchLyrics(ctx, providerName, c)
		if err != nil {
			return err
		}
		if lyrics != nil {
			h.sendLyrics(bot, chatID, lyrics)
			return nil
		}
	}
	return h.send(bot, tgbotapi.NewMessage(chatID, "🎵 No lyrics found"))
}

func (h *TelegramHandler) sendLyrics(bot *tgbotapi.BotAPI, chatID int64, lyrics *music.Lyrics) {
	if lyrics == nil {
		h.send(bot, tgbotapi.NewMessage(chatID, "🎵 No lyrics found for this song"))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  Filename(lyrics),
		Bytes: []byte(lyrics.LRC()),
	})
	doc.Caption = fmt.Sprintf("%s (%d lines)", lyrics.Title(), len(lyrics.Lines))
	h.send(bot, doc)
}

func (h *TelegramHandler) send(bot *tgbotapi.BotAPI, c tgbotapi.Chattable) error {
	if _, err := bot.Send(c); err != nil {
		slog.Error("Failed to send Telegram message", "error", err)
		return err
	}
	return nil
}
