package webhooks

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"whatsapp-clinic-bot/config"
	"whatsapp-clinic-bot/handlers"
)

const expectedObject = "whatsapp_business_account"

// deliveryTimeout bounds all outbound work for one webhook delivery. The
// platform retries deliveries it perceives as unanswered, so an unbounded
// wait risks duplicate processing.
const deliveryTimeout = 55 * time.Second

func RegisterRoutes(app *fiber.App, cfg *config.Config, dispatcher *handlers.Dispatcher) {
	webhook := app.Group("/webhook")

	// Webhook verification endpoint
	webhook.Get("/", verifyWebhook(cfg))

	// Webhook delivery handler
	webhook.Post("/", handleWebhookEvent(cfg, dispatcher))
}

// verifyWebhook handles the Cloud API subscription handshake: echo the
// numeric challenge when the verify token matches, 403 otherwise.
func verifyWebhook(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode != "subscribe" || token != cfg.VerifyToken {
			slog.Warn("Webhook verification failed", "mode", mode)
			return c.Status(fiber.StatusForbidden).SendString("Verification token is invalid")
		}

		value, err := strconv.Atoi(challenge)
		if err != nil {
			slog.Warn("Webhook verification with non-numeric challenge", "challenge", challenge)
			return c.Status(fiber.StatusBadRequest).SendString("Challenge must be numeric")
		}

		slog.Info("Webhook verified successfully")
		return c.SendString(strconv.Itoa(value))
	}
}

// handleWebhookEvent processes an inbound delivery. It always acknowledges
// with {"status":"ok"}: a non-200 here would trigger an upstream redelivery
// storm, so internal failures are logged and swallowed.
func handleWebhookEvent(cfg *config.Config, dispatcher *handlers.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event WebhookEvent
		if err := c.BodyParser(&event); err != nil {
			slog.Error("Failed to parse webhook body", "error", err)
			return c.JSON(fiber.Map{"status": "ok"})
		}

		processDelivery(cfg, dispatcher, event)

		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// processDelivery walks the envelope and dispatches each user message in
// order. A panic anywhere inside is contained here so the acknowledgment
// still goes out.
func processDelivery(cfg *config.Config, dispatcher *handlers.Dispatcher, event WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while processing webhook delivery", "panic", r)
		}
	}()

	if event.Object != expectedObject {
		slog.Debug("Ignoring webhook for unexpected object", "object", event.Object)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}

			if cfg.EnforcePhoneNumberID && change.Value.Metadata.PhoneNumberID != cfg.PhoneNumberID {
				slog.Info("Ignoring messages for different phone number ID",
					"phoneNumberID", change.Value.Metadata.PhoneNumberID)
				continue
			}

			for _, message := range change.Value.Messages {
				dispatcher.HandleInbound(ctx, toInbound(message))
			}
		}
	}
}

func toInbound(message Message) handlers.InboundMessage {
	inbound := handlers.InboundMessage{
		From: message.From,
		Type: message.Type,
	}
	if message.Text != nil {
		inbound.Text = message.Text.Body
	}
	if message.Audio != nil {
		inbound.MediaID = message.Audio.ID
	}
	return inbound
}
