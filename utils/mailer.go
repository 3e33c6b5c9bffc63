package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	appcfg "backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

var sesClient *ses.Client

// InitSES wires the SES client. Called once from main; when SES_EMAIL is
// unset the mailer stays disabled and send calls are no-ops.
func InitSES() {
	if os.Getenv("SES_EMAIL") == "" {
		appcfg.Logger.Info("SES_EMAIL not set, email notifications disabled")
		return
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("AWS config load failed: %v", err)
	}
	sesClient = ses.NewFromConfig(cfg)
}

// generic SES sender
func sendEmail(to string, subject string, body string) error {
	if sesClient == nil {
		return nil
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		appcfg.Logger.Error("SES send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendEditRequestResolvedEmail notifies the institution contact that an edit
// request against one of their orders was resolved.
func SendEditRequestResolvedEmail(to, institutionName, orderID, resolution, comment string) error {
	if to == "" {
		return nil
	}
	subject := fmt.Sprintf("Edit request %s for %s", resolution, institutionName)
	body := fmt.Sprintf("The edit request for order %s has been %s.", orderID, resolution)
	if comment != "" {
		body += "\n\nNote from the kitchen team: " + comment
	}
	return sendEmail(to, subject, body)
}
