package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"menu-planner/internal/app"
	"menu-planner/internal/config"
	"menu-planner/internal/grocery"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the grocery pipeline.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{api: bot, app: application, cfg: cfg}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch strings.TrimSpace(msg.Text) {
	case "/lista":
		b.handleShowList(msg.Chat.ID)
	case "/genera":
		b.handleRebuild(msg.Chat.ID)
	case "/svuota":
		b.handleClear(msg.Chat.ID)
	default:
		b.send(msg.Chat.ID, "Comandi: /lista (mostra la spesa), /genera (ricalcola), /svuota (svuota la lista)")
	}
}

func (b *Bot) handleShowList(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := b.app.GroceryList(ctx)
	if err != nil {
		log.Printf("Error loading grocery list: %v", err)
		b.send(chatID, "❌ Errore nel caricare la lista della spesa.")
		return
	}
	b.send(chatID, formatListMarkdown(items))
}

func (b *Bot) handleRebuild(chatID int64) {
	statusMsg := tgbotapi.NewMessage(chatID, "🧑‍🍳 *Sto ricalcolando la lista...*")
	statusMsg.ParseMode = "Markdown"
	sent, err := b.api.Send(statusMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	items, err := b.app.RebuildGroceryList(ctx)
	var finalText string
	if err != nil {
		log.Printf("Error rebuilding grocery list: %v", err)
		finalText = "❌ *Ricalcolo fallito.* La lista precedente è rimasta invariata, riprova."
	} else {
		finalText = formatListMarkdown(items)
	}
	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handleClear(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.app.ClearGroceryList(ctx); err != nil {
		log.Printf("Error clearing grocery list: %v", err)
		b.send(chatID, "❌ Errore nello svuotare la lista.")
		return
	}
	b.send(chatID, "🗑 Lista della spesa svuotata.")
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func formatListMarkdown(items []grocery.Item) string {
	if len(items) == 0 {
		return "🛒 *Lista della spesa*\n\n_Vuota. Usa /genera per crearla dal piano settimanale._"
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Lista della spesa*\n\n")
	for _, item := range items {
		mark := "▫️"
		if item.Checked {
			mark = "✅"
		}
		if item.TotalQuantity != "" {
			sb.WriteString(fmt.Sprintf("%s %s — %s\n", mark, item.Name, item.TotalQuantity))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s\n", mark, item.Name))
		}
	}
	return sb.String()
}
