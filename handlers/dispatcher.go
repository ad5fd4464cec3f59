package handlers

import (
	"context"
	"log/slog"

	"whatsapp-clinic-bot/config"
	"whatsapp-clinic-bot/services"
)

// InboundMessage is one user-sent message, already extracted from the
// webhook envelope. The sender ID doubles as the reply destination.
type InboundMessage struct {
	From    string
	Type    string
	Text    string
	MediaID string
}

// Dispatcher routes one inbound message through fetch, generate, and send.
type Dispatcher struct {
	cfg *config.Config
	wa  services.WhatsAppService
	gen services.ReplyGenerator
}

func NewDispatcher(cfg *config.Config, wa services.WhatsAppService, gen services.ReplyGenerator) *Dispatcher {
	return &Dispatcher{
		cfg: cfg,
		wa:  wa,
		gen: gen,
	}
}

// HandleInbound processes a single message. It never returns an error:
// each failure mode ends in either a fixed reply to the sender or a log
// line, so sibling messages in the same delivery are unaffected.
func (d *Dispatcher) HandleInbound(ctx context.Context, msg InboundMessage) {
	var input services.GenerateInput

	switch msg.Type {
	case "text":
		slog.Info("Handling text message", "senderID", msg.From)
		input.UserText = msg.Text

	case "audio":
		slog.Info("Handling audio message", "senderID", msg.From, "mediaID", msg.MediaID)
		data, mimeType, err := d.wa.FetchMedia(ctx, msg.MediaID)
		if err != nil {
			slog.Error("Failed to fetch audio media", "error", err, "senderID", msg.From, "mediaID", msg.MediaID)
			if err := d.wa.SendText(ctx, msg.From, config.AudioApologyMessage); err != nil {
				slog.Error("Failed to send audio apology", "error", err, "senderID", msg.From)
			}
			return
		}
		input.Audio = data
		input.MimeType = mimeType

	default:
		slog.Debug("Ignoring unsupported message type", "type", msg.Type, "senderID", msg.From)
		return
	}

	reply, err := d.gen.Generate(ctx, input)
	if err != nil {
		slog.Error("Failed to generate reply", "error", err, "senderID", msg.From)
		reply = config.GenerationFallbackMessage
	}

	if err := d.wa.SendText(ctx, msg.From, reply); err != nil {
		slog.Error("Failed to send reply", "error", err, "senderID", msg.From)
	}
}
