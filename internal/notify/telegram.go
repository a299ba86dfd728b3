package notify

import (
	"fmt"

	"kovaidetail/internal/config"
	"kovaidetail/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender abstracts the Telegram API for tests.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes booking events to the staff chat list. It is
// optional wiring; with no bot token the service runs without it.
type TelegramNotifier struct {
	sender  Sender
	chatIDs []int64
	logger  *zerolog.Logger
}

// NewTelegramNotifier connects to the Bot API using the configured token.
func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = cfg.Debug

	logger.Info().Str("bot_username", bot.Self.UserName).Msg("telegram notifier connected")

	return &TelegramNotifier{sender: bot, chatIDs: cfg.AdminChatIDs, logger: logger}, nil
}

// NewTelegramNotifierWithSender is the test constructor.
func NewTelegramNotifierWithSender(sender Sender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatIDs: chatIDs, logger: logger}
}

func (n *TelegramNotifier) NotifyBookingCreated(booking *models.Booking) {
	text := fmt.Sprintf(
		"🆕 New booking #%d\n\n👤 %s (%s)\n🚗 %s %s\n🧼 %s\n📍 %s\n📅 %s %s",
		booking.ID,
		booking.FullName,
		booking.PhoneNumber,
		booking.VehicleType,
		booking.VehicleModel,
		booking.ServiceType,
		booking.Address,
		booking.PreferredDate,
		booking.PreferredTime,
	)
	n.broadcast(text, booking.ID)
}

func (n *TelegramNotifier) NotifyStatusChanged(booking *models.Booking) {
	icon := "⏳"
	if booking.Status == models.StatusCompleted {
		icon = "✅"
	}
	text := fmt.Sprintf(
		"%s Booking #%d is now %s\n\n👤 %s\n🧼 %s",
		icon,
		booking.ID,
		booking.Status,
		booking.FullName,
		booking.ServiceType,
	)
	n.broadcast(text, booking.ID)
}

// NotifyUserRegistered announces a new customer account.
func (n *TelegramNotifier) NotifyUserRegistered(name, email string) {
	n.broadcast(fmt.Sprintf("👋 New customer: %s (%s)", name, email), 0)
}

func (n *TelegramNotifier) broadcast(text string, bookingID int64) {
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Int64("booking_id", bookingID).Msg("telegram notify error")
		}
	}
}
