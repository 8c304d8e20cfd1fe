// Package notify delivers tracker alerts through the system mail binary and
// optional Telegram bots.
//
// It exposes MailDelivery for mail(1)-based email, TelegramNotifier for bot
// messages, and AlertDispatcher for fanning a single alert across every
// configured channel.
package notify
