// internal/common/aws/ses.go

// Package aws holds thin wrappers around the AWS SDK clients used for
// diagnosis report delivery.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESClient sends diagnosis report emails through Amazon SES.
type SESClient struct {
	client *ses.Client
}

// NewSESClient resolves credentials from the default chain and scopes the
// client to the given region.
func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}
