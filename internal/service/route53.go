package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"zone53/internal/config"
	"zone53/internal/model"
)

// DNSService submits change batches to Route53.
type DNSService struct {
	client  *route53.Client
	comment string
}

func NewDNSService(ctx context.Context, cfg *config.Config) (*DNSService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	// Explicit keys in the config file take precedence; otherwise the SDK
	// default chain (env, shared config, instance role) applies.
	if cfg.AWS.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &DNSService{
		client:  route53.NewFromConfig(awsCfg),
		comment: cfg.Import.Comment,
	}, nil
}

// SubmitBatch applies one batch of upserts with a single
// ChangeResourceRecordSets call. The call either applies the whole batch
// or fails it; partial application is not a Route53 outcome.
func (s *DNSService) SubmitBatch(ctx context.Context, zoneID string, batch model.Batch) error {
	changes := make([]types.Change, 0, len(batch))
	for _, c := range batch {
		records := make([]types.ResourceRecord, 0, len(c.RecordSet.Values))
		for _, v := range c.RecordSet.Values {
			records = append(records, types.ResourceRecord{Value: aws.String(v)})
		}
		changes = append(changes, types.Change{
			Action: types.ChangeAction(c.Action),
			ResourceRecordSet: &types.ResourceRecordSet{
				Name:            aws.String(c.RecordSet.FQDN),
				Type:            types.RRType(c.RecordSet.Type),
				TTL:             aws.Int64(c.RecordSet.TTL),
				ResourceRecords: records,
			},
		})
	}

	_, err := s.client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &types.ChangeBatch{
			Comment: aws.String(s.comment),
			Changes: changes,
		},
	})
	return err
}
