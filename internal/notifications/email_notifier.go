package notifications

import (
	"context"
	"errors"
	"os"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/models"
	applog "alumninet/backend/pkg/log"
	"alumninet/backend/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailNotifier sends a single email. Implementations are synchronous: a nil
// return means the transport accepted the message, nothing more.
type EmailNotifier interface {
	SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error
}

// DefaultEmailNotifier is the notifier used by the application. Nil when the
// email service is not configured; tests replace it with a fake.
var DefaultEmailNotifier EmailNotifier

// SESEmailNotifier implements EmailNotifier on AWS SES v2.
type SESEmailNotifier struct {
	client *sesv2.Client
	sender string
}

// InitEmailService initializes the default email notifier. Settings are read
// from the database first, with environment variables as fallback, so the
// sender address can be changed from the admin UI.
func InitEmailService() {
	log := applog.L.Named("InitEmailService")
	db := database.GetDB()

	awsRegion, errRegion := models.GetSystemSetting(db, "AWS_REGION")
	senderEmail, errSender := models.GetSystemSetting(db, "AWS_SES_EMAIL_SENDER")

	if errRegion != nil || errSender != nil {
		awsRegion = os.Getenv("AWS_REGION")
		senderEmail = os.Getenv("AWS_SES_EMAIL_SENDER")
	}

	if awsRegion == "" || senderEmail == "" {
		log.Warn("AWS SES email service is not configured (missing AWS_REGION or AWS_SES_EMAIL_SENDER). Outbound email is disabled.")
		DefaultEmailNotifier = nil
		return
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(awsRegion))
	if err != nil {
		log.Error("Failed to load AWS SDK config for SES", zap.Error(err))
		DefaultEmailNotifier = nil
		return
	}

	DefaultEmailNotifier = &SESEmailNotifier{
		client: sesv2.NewFromConfig(cfg),
		sender: senderEmail,
	}
	log.Info("AWS SES email service initialized.", zap.String("sender", senderEmail), zap.String("region", awsRegion))
}

// SendEmailNotification sends an email through the configured notifier. When
// no notifier is configured the send is simulated and logged; that counts as
// success so local development does not need SES credentials.
func SendEmailNotification(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	if DefaultEmailNotifier == nil {
		applog.L.Info("--- SIMULATING EMAIL SEND ---",
			zap.String("to", to),
			zap.String("subject", subject))
		if bodyText != "" {
			applog.L.Debug("Email body (text)", zap.String("body", bodyText))
		}
		return nil
	}
	err := DefaultEmailNotifier.SendEmail(ctx, to, subject, bodyHTML, bodyText)
	if err != nil {
		metrics.EmailSendCounter.WithLabelValues("failure").Inc()
		return err
	}
	metrics.EmailSendCounter.WithLabelValues("success").Inc()
	return nil
}

// SendEmail sends a message via SES.
func (s *SESEmailNotifier) SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	if s.client == nil {
		return errors.New("SES client not initialized")
	}
	if bodyHTML == "" && bodyText == "" {
		return errors.New("email body (text or HTML) must not be empty")
	}

	body := &types.Body{}
	if bodyHTML != "" {
		body.Html = &types.Content{
			Data:    aws.String(bodyHTML),
			Charset: aws.String("UTF-8"),
		}
	}
	if bodyText != "" {
		body.Text = &types.Content{
			Data:    aws.String(bodyText),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: &s.sender,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	if err != nil {
		applog.L.Error("Failed to send email via SES", zap.Error(err), zap.String("recipient", to))
		return err
	}

	applog.L.Info("Email sent", zap.String("recipient", to), zap.String("subject", subject))
	return nil
}
