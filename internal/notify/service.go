package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"messmate/internal/logger"
	"messmate/internal/metrics"
	"messmate/internal/user"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

// UserDirectory resolves recipient addresses.
type UserDirectory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Job struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues notifications onto redis and delivers them over SMTP
// in the background. Publishing never blocks callers on delivery and
// delivery failure is never surfaced as a transactional failure.
type Service struct {
	redis    *redis.Client
	users    UserDirectory
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(users UserDirectory, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		users:    users,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) enqueue(ctx context.Context, job Job) {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification: %v", err)
		return
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue %s notification to %s: %v", job.Kind, job.To, err)
		return
	}

	logger.Info("Notification queued", "kind", job.Kind, "to", job.To)
}

func (s *Service) notifyUser(ctx context.Context, userID int, kind, subject, body string) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Error("Notification recipient lookup failed", "user_id", userID, "error", err)
		return
	}

	s.enqueue(ctx, Job{
		Kind:    kind,
		To:      u.Email,
		Name:    u.Name,
		Subject: subject,
		Body:    fmt.Sprintf("Hi %s,\n\n%s\n\n- MessMate", u.Name, body),
	})
}

func (s *Service) BookingConfirmed(ctx context.Context, userID int, mealType string, when time.Time, totalCents int64) {
	s.notifyUser(ctx, userID, "booking_confirmed",
		"Meal Booked - "+mealType,
		fmt.Sprintf("Your %s on %s is booked. %d cents were charged to your mess wallet.",
			mealType, when.Format("Jan 2, 2006 at 3:04 PM"), totalCents))
}

func (s *Service) BookingCancelled(ctx context.Context, userID int, mealType string, when time.Time, refundCents int64) {
	s.notifyUser(ctx, userID, "booking_cancelled",
		"Booking Cancelled - "+mealType,
		fmt.Sprintf("Your %s on %s was cancelled. %d cents were refunded to your mess wallet.",
			mealType, when.Format("Jan 2, 2006 at 3:04 PM"), refundCents))
}

func (s *Service) RedemptionConfirmed(ctx context.Context, userID int, mealType string, quantity int) {
	s.notifyUser(ctx, userID, "redemption_confirmed",
		"Meal Served - "+mealType,
		fmt.Sprintf("Your %s (quantity %d) was served. Enjoy!", mealType, quantity))
}

func (s *Service) LowBalance(ctx context.Context, userID int, balanceCents int64) {
	s.notifyUser(ctx, userID, "low_balance",
		"Low Wallet Balance",
		fmt.Sprintf("Your mess wallet is down to %d cents. Top up to keep booking meals.", balanceCents))
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification payload: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to deliver %s notification to %s: %v", job.Kind, job.To, err)
		metrics.RecordNotification(job.Kind, "failed")

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.Kind, "sent")
	logger.Info("Notification delivered", "kind", job.Kind, "to", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Notification to %s moved to failed queue", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
