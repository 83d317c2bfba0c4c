package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/config"
	"github.com/oksasatya/user-auth-service/pkg/helpers"
	"github.com/oksasatya/user-auth-service/pkg/mailer"
)

// Consumes welcome email jobs published on registration and delivers them
// through Mailgun.
func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if !cfg.MailgunConfigured() {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, mg, msg, cfg.SendTimeout)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	select {
	case <-stop:
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func handle(ctx context.Context, logger logrus.FieldLogger, s mailer.Sender, msg amqp.Delivery, timeout time.Duration) {
	out, err := mailer.Process(ctx, s, msg.Body, timeout)
	fields := logrus.Fields{"delivery_tag": msg.DeliveryTag, "outcome": out.String()}
	entry := logger.WithFields(fields)
	switch out {
	case mailer.Ack:
		helpers.LogInfo(logger, "email sent", fields)
		_ = msg.Ack(false)
	case mailer.Reject:
		helpers.LogError(logger, "dropping email job", err, fields)
		_ = msg.Nack(false, false)
	default:
		entry.WithError(err).Warn("email send failed; requeueing")
		_ = msg.Nack(false, true)
	}
}
