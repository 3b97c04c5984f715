package command

import (
	"context"

	"github.com/poruru/sbl-payload/cli/internal/infra/config"
	"github.com/poruru/sbl-payload/cli/internal/infra/publish"
	"github.com/poruru/sbl-payload/cli/internal/usecase/integrate"
)

func newAWSPublisher(ctx context.Context, cfg config.PublishConfig) (integrate.Publisher, error) {
	return publish.NewAWSPublisher(ctx,
		publish.ClientOptions{Region: cfg.Region, Endpoint: cfg.Endpoint},
		cfg.Bucket, cfg.Prefix, cfg.Table,
	)
}
