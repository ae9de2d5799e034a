package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"finanzas/internal/amqp"
	"finanzas/internal/cli"
	"finanzas/internal/notify"
	"finanzas/internal/services"
	"finanzas/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()

	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store, closeStore := cli.InitStore(logger, cfg)
	if closeStore != nil {
		defer closeStore()
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, reminders will only be logged", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled")
	}

	mailer := notify.NewSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		To:       cfg.SMTPTo,
	})

	ledger := services.NewObligationLedger(store, store)

	var publisher worker.ReminderPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	sweeper := worker.NewReminderWorker(ledger, publisher, mailer)

	c := cron.New()
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		select {
		case <-c.Stop().Done():
			logger.Info("Reminder-worker shutdown complete")
		case <-time.After(30 * time.Second):
			logger.Warn("Shutdown timeout reached")
		}
	})

	// With a broker the sweep only publishes; this consumer turns the queued
	// reminders into mail.
	if amqpClient != nil {
		consumer := worker.NewReminderConsumer(store, store, mailer)
		go func() {
			err := amqpClient.ConsumeReminders(ctx, func(m *amqp.ReminderMessage) error {
				return consumer.Handle(ctx, m)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Reminder consumer stopped", "error", err)
			}
		}()
	}

	// Run one sweep on startup, then on the cron schedule.
	logger.Info("Running initial overdue sweep...")
	if err := sweeper.RunSweep(ctx, time.Now()); err != nil {
		logger.Error("Initial sweep failed", "error", err)
	}

	_, err := c.AddFunc(cfg.ReminderSchedule, func() {
		if err := sweeper.RunSweep(ctx, time.Now()); err != nil {
			logger.Error("Scheduled sweep failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("Invalid reminder schedule", "schedule", cfg.ReminderSchedule, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("Reminder sweep scheduled", "schedule", cfg.ReminderSchedule)

	cli.WaitForShutdown(ctx, done)
}
