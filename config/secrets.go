package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets replaces every key listed in keys with the decrypted value of the
// SSM parameter named by <key>_SSM_PARAM, when that variable is set. Keys that
// already carry a value in the environment are left alone.
func ResolveSecrets(ctx context.Context, c map[string]string, client ParameterGetter, keys ...string) error {
	for _, key := range keys {
		if GetString(c, key, "") != "" {
			continue
		}

		paramName := GetString(c, key+"_SSM_PARAM", "")
		if paramName == "" {
			continue
		}
		if client == nil {
			return fmt.Errorf("%s_SSM_PARAM is set but no SSM client is available", key)
		}

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("resolve %s from ssm parameter %q: %w", key, paramName, err)
		}
		if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
			return fmt.Errorf("ssm parameter %q for %s is empty", paramName, key)
		}

		c[key] = aws.ToString(out.Parameter.Value)
		log.Info().Str("key", key).Str("parameter", paramName).Msg("Resolved secret from SSM")
	}
	return nil
}

// NeedsSSM reports whether any of keys is configured to come from SSM.
func NeedsSSM(c map[string]string, keys ...string) bool {
	for _, key := range keys {
		if GetString(c, key, "") == "" && GetString(c, key+"_SSM_PARAM", "") != "" {
			return true
		}
	}
	return false
}
