package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterStore is the part of the SSM client LoadFromSSM needs.
type ParameterStore interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS config chain.
func NewParameterStore(ctx context.Context) (ParameterStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadFromSSM reads a YAML config document stored in a parameter and
// decodes it over cfg.
func LoadFromSSM(ctx context.Context, store ParameterStore, name string, cfg *Config) error {
	result, err := store.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to retrieve parameter '%s': %w", name, err)
	}
	if result.Parameter == nil || result.Parameter.Value == nil {
		return fmt.Errorf("parameter '%s' has no value", name)
	}
	return Decode("ssm.yaml", []byte(*result.Parameter.Value), cfg)
}
