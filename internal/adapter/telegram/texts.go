package telegram

const commandsText = "/start     — Main menu\n" +
	"/help      — Commands\n" +
	"/qrtest    — Check QR status\n" +
	"/setstock  — Update stock (/setstock <SKU> <qty>)\n" +
	"/return    — Process return (/return <SKU> <qty>)\n" +
	"/privacy   — Privacy policy\n" +
	"Or send a QR/barcode with “SKU,quantity” or just “SKU”."

const privacyPolicy = `Privacy Policy
Last updated: July 23, 2025

1. We only log your SKU queries—no profiling or sharing.
2. Logs are purged within 24 hours.
3. All calls are HTTPS. Keep your tokens secret.
4. To stop: /quit or block the bot.
`

const (
	welcomeText        = "👋 Welcome! /help for commands."
	goodbyeText        = "👋 Goodbye!"
	unknownCommandText = "❌ Unknown command. Use /help."
	genericFailureText = "❌ Something went wrong."

	scanEnabledText  = "📷 QR/barcode scanning ENABLED!"
	scanDisabledText = "📷 QR/barcode scanning DISABLED."
	noCodeText       = "❌ No QR/barcode detected."

	setStockUsageText = "Usage: /setstock <SKU> <qty>"
	returnUsageText   = "Usage: /return <SKU> <qty>"
	qtyNotNumberText  = "Qty must be a number."
	notFoundText      = "❌ Variant/location not found."
)
