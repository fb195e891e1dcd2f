package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"counselbook/config"
	bookingRepo "counselbook/database/repository/booking"
	"counselbook/models"
	"counselbook/services/notification"
	"counselbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReminderSend = "reminder:send"

// reminderPayload is the task body enqueued for an upcoming appointment.
type reminderPayload struct {
	ReservationID string `json:"reservationId"`
	Date          string `json:"date"`
	Start         string `json:"start"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// ReminderScheduler enqueues appointment reminders to fire shortly before the
// slot starts. It satisfies the engine's scheduler dependency.
type ReminderScheduler struct {
	Client   *asynq.Client
	LeadMins int
	Logger   *zap.Logger
}

func NewReminderScheduler(logger *zap.Logger) *ReminderScheduler {
	lead := config.AppConfig.ReminderLeadMins
	if lead <= 0 {
		lead = 60
	}
	return &ReminderScheduler{
		Client:   asynq.NewClient(redisOpts()),
		LeadMins: lead,
		Logger:   logger,
	}
}

// ScheduleReminder enqueues one reminder task at start minus the lead time.
// Slots already inside the lead window fire immediately.
func (s *ReminderScheduler) ScheduleReminder(r *models.Reservation) error {
	startAt, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Start, time.Local)
	if err != nil {
		return fmt.Errorf("reminder: bad slot time for %s: %w", r.ID, err)
	}
	fireAt := startAt.Add(-time.Duration(s.LeadMins) * time.Minute)

	b, err := json.Marshal(reminderPayload{ReservationID: r.ID, Date: r.Date, Start: r.Start})
	if err != nil {
		return fmt.Errorf("reminder: marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeReminderSend, b)
	if _, err := s.Client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("reminder: enqueue for %s: %w", r.ID, err)
	}
	s.Logger.Info("reminder scheduled",
		zap.String("reservation", r.ID), zap.Time("fireAt", fireAt))
	return nil
}

func (s *ReminderScheduler) Close() error {
	return s.Client.Close()
}

// InitReminderWorker runs the async worker in the background. Each task
// reloads its reservation and only dispatches if the slot is still confirmed;
// cancellations and reschedules between enqueue and fire make the task a
// no-op.
func InitReminderWorker(repo bookingRepo.ReservationRepository, notifier notification.Dispatcher) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(repo, notifier))

	go func() {
		logger.Info("reminder worker starting")
		if err := srv.Run(mux); err != nil {
			logger.Error("reminder worker stopped", zap.Error(err))
		}
	}()
	return srv
}

func handleReminderTask(repo bookingRepo.ReservationRepository, notifier notification.Dispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p reminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder task has invalid payload", zap.Error(err))
			return err
		}

		r, err := repo.GetByID(ctx, p.ReservationID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrNotFound) {
				// Deleted since enqueue; nothing to remind.
				return nil
			}
			return err
		}
		if r.Status != models.StatusConfirmed || r.Date != p.Date || r.Start != p.Start {
			// Cancelled or moved; confirming the new slot enqueues a fresh
			// reminder.
			return nil
		}

		if err := notifier.Dispatch(ctx, notification.NoticeBookingReminder, notification.RecipientClient, r.ClientID, r, nil); err != nil {
			logger.Warn("reminder dispatch failed", zap.String("reservation", r.ID), zap.Error(err))
			return err
		}
		logger.Info("reminder delivered", zap.String("reservation", r.ID))
		return nil
	}
}
