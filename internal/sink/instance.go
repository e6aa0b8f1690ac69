package sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/shirou/gopsutil/v3/host"
)

type metadataAPI interface {
	GetMetadata(ctx context.Context, params *imds.GetMetadataInput, optFns ...func(*imds.Options)) (*imds.GetMetadataOutput, error)
}

// InstanceIDLookup читает идентификатор EC2-инстанса из сервиса метаданных.
type InstanceIDLookup struct {
	api metadataAPI
}

func NewInstanceIDLookup(cfg aws.Config) *InstanceIDLookup {
	return &InstanceIDLookup{api: imds.NewFromConfig(cfg)}
}

// InstanceID возвращает идентификатор инстанса, например i-0123456789abcdef0.
func (l *InstanceIDLookup) InstanceID(ctx context.Context) (string, error) {
	out, err := l.api.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return "", fmt.Errorf("failed to query instance metadata: %w", err)
	}
	defer func() { _ = out.Content.Close() }()

	data, err := io.ReadAll(out.Content)
	if err != nil {
		return "", fmt.Errorf("failed to read instance metadata: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("instance metadata returned an empty instance id")
	}
	return id, nil
}

// Hostname возвращает имя хоста, на котором запущен экспортёр.
func Hostname(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read host info: %w", err)
	}
	return info.Hostname, nil
}
