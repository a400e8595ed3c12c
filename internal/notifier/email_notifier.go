package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	config "github.com/oskar87/swe2/configs"
	"github.com/oskar87/swe2/internal/models"
)

// SESClient is the part of *ses.Client the notifier needs.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailNotifier struct {
	client SESClient
	sender string
	logger *zap.Logger
}

func NewEmailNotifier(ctx context.Context, cfg config.EmailConfig, logger *zap.Logger) (*EmailNotifier, error) {
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("sender email address is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return NewEmailNotifierWithClient(ses.NewFromConfig(awsCfg), cfg.SenderEmail, logger), nil
}

func NewEmailNotifierWithClient(client SESClient, sender string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{client: client, sender: sender, logger: logger}
}

func (n *EmailNotifier) BestellungAngelegt(ctx context.Context, kunde *models.Kunde, b *models.Bestellung) error {
	if kunde == nil || kunde.Email == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	name := kunde.Nachname
	if kunde.Vorname != "" {
		name = kunde.Vorname + " " + kunde.Nachname
	}
	gesamtbetrag := b.Gesamtbetrag().StringFixed(2)

	subject := fmt.Sprintf("Bestellung #%d - Vielen Dank fuer Ihren Einkauf!", b.ID)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Hallo %s,</p>
            <p>vielen Dank! Ihre Bestellung #%d ist bei uns eingegangen.</p>
            <ul>
                <li>Bestellnummer: %d</li>
                <li>Positionen: %d</li>
                <li>Gesamtbetrag: EUR %s</li>
            </ul>
            <p>Wir melden uns, sobald Ihre Bestellung verschickt wurde.</p>
        </body>
        </html>`, name, b.ID, b.ID, len(b.Bestellpositionen), gesamtbetrag)

	bodyText := fmt.Sprintf(
		"Hallo %s,\n\nvielen Dank! Ihre Bestellung #%d ist bei uns eingegangen.\n\n"+
			"Bestellnummer: %d\nPositionen: %d\nGesamtbetrag: EUR %s\n\n"+
			"Wir melden uns, sobald Ihre Bestellung verschickt wurde.",
		name, b.ID, b.ID, len(b.Bestellpositionen), gesamtbetrag)

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{kunde.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		n.logger.Error("Failed to send email",
			zap.Uint("bestellung_id", b.ID),
			zap.String("to", kunde.Email),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("Order confirmation email sent",
		zap.Uint("bestellung_id", b.ID),
		zap.String("to", kunde.Email))
	return nil
}
