// Package sink содержит получателей пакетов метрик: CloudWatch, HTTP и лог.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
)

// MaxRecords — ограничение PutMetricData на число записей в одном вызове.
const MaxRecords = 20

// ErrBatchTooLarge возвращается, если получателю передано больше MaxRecords записей.
var ErrBatchTooLarge = errors.New("batch exceeds the per-request record limit")

type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatch отправляет пакеты в Amazon CloudWatch через PutMetricData.
type CloudWatch struct {
	api putMetricDataAPI
}

// LoadAWSConfig загружает конфигурацию AWS SDK.
//
// region — явный регион; если пуст, используется стандартная цепочка SDK
// (AWS_REGION, AWS_DEFAULT_REGION, профиль).
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cfg, nil
}

func NewCloudWatch(cfg aws.Config) *CloudWatch {
	return &CloudWatch{api: cloudwatch.NewFromConfig(cfg)}
}

// Submit отправляет записи одним вызовом PutMetricData.
func (c *CloudWatch) Submit(ctx context.Context, namespace string, records []models.Record) error {
	if len(records) > MaxRecords {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(records), MaxRecords)
	}
	if len(records) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(records))
	for _, r := range records {
		datum := types.MetricDatum{
			MetricName: aws.String(r.Name),
			Value:      aws.Float64(r.Value),
		}
		if r.Unit != "" {
			datum.Unit = types.StandardUnit(r.Unit)
		}
		for _, d := range r.Dimensions {
			datum.Dimensions = append(datum.Dimensions, types.Dimension{
				Name:  aws.String(d.Name),
				Value: aws.String(d.Value),
			})
		}
		data = append(data, datum)
	}

	_, err := c.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
