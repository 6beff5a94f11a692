package platform

import (
	"context"

	"github.com/aretw0/quizsync/pkg/workflow"
)

// New creates a workflow.Service wired to the remote selected by opts.
//
//	svc, err := platform.New(ctx, platform.WithRepo("octo", "quiz"), platform.WithCredential(token))
func New(ctx context.Context, opts ...Option) (*workflow.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	remote, err := initRemote(ctx, o)
	if err != nil {
		return nil, err
	}

	return workflow.NewService(remote,
		workflow.WithLogger(o.logger),
		workflow.WithCredential(o.credential),
		workflow.WithConcurrency(o.concurrency),
		workflow.WithWriteMessage(o.writeMessage),
		workflow.WithUploadMessage(o.uploadMessage),
	), nil
}
