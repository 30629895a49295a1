// Package cloud loads AWS configuration and checks who the credentials belong to.
package cloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/hemantobora/ec2-estimator/internal/models"
)

// DefaultRegion is used when neither the profile nor the environment sets one.
const DefaultRegion = models.Region

// LoadConfig loads AWS configuration with an optional shared-config profile.
func LoadConfig(ctx context.Context, profile string) (aws.Config, error) {
	optFns := []func(*config.LoadOptions) error{}
	if profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, &models.ProviderError{
			Provider:  "aws",
			Operation: "load-config",
			Resource:  fmt.Sprintf("profile:%s", profile),
			Cause:     fmt.Errorf("failed to load AWS config: %w", err),
		}
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	return cfg, nil
}

// Identity is the principal behind a set of credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// IdentityAPI is the part of the STS client CallerIdentity needs.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CallerIdentity asks STS who cfg's credentials belong to.
func CallerIdentity(ctx context.Context, cfg aws.Config) (Identity, error) {
	return callerIdentity(ctx, sts.NewFromConfig(cfg))
}

func callerIdentity(ctx context.Context, client IdentityAPI) (Identity, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, &models.ProviderError{
			Provider:  "aws",
			Operation: "get-caller-identity",
			Resource:  "sts",
			Cause:     describeAPIError(err),
		}
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// describeAPIError turns common STS error codes into actionable messages.
func describeAPIError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.ErrorCode() {
	case "ExpiredToken", "ExpiredTokenException":
		return fmt.Errorf("credentials have expired, refresh your session: %w", err)
	case "InvalidClientTokenId", "SignatureDoesNotMatch":
		return fmt.Errorf("credentials are invalid: %w", err)
	case "AccessDenied", "AccessDeniedException":
		return fmt.Errorf("credentials lack permission: %w", err)
	}
	return err
}
