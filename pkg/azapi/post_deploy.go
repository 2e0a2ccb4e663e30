// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azapi

import (
	"context"
	"log"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/raymens/farmer/pkg/infra"
)

// TaskResult reports the outcome of one post-deploy task. Warning is set
// when the task kept failing after retries; the deployment itself is already
// committed by then, so a warning never fails the run.
type TaskResult struct {
	Message string
	Warning error
}

// PostDeployRunner runs a deployment's post-deploy tasks sequentially after
// the template deployment succeeded.
type PostDeployRunner struct {
	MaxRetries uint64
	Backoff    time.Duration
}

func NewPostDeployRunner() *PostDeployRunner {
	return &PostDeployRunner{MaxRetries: 3, Backoff: 2 * time.Second}
}

// RunAll executes each task in order. Tasks with nothing to do produce no
// result; failing tasks are retried and then reported as warnings.
func (r *PostDeployRunner) RunAll(
	ctx context.Context,
	resourceGroupName string,
	deployment *infra.Deployment,
) []TaskResult {
	var results []TaskResult

	for _, task := range deployment.PostDeployTasks {
		var message string

		err := retry.Do(ctx, retry.WithMaxRetries(r.MaxRetries, retry.NewConstant(r.Backoff)),
			func(ctx context.Context) error {
				var runErr error
				message, runErr = task.Run(ctx, resourceGroupName)
				if runErr != nil {
					return retry.RetryableError(runErr)
				}
				return nil
			})
		if err != nil {
			log.Printf("post-deploy task failed: %v", err)
			results = append(results, TaskResult{Warning: err})
			continue
		}

		if message != "" {
			results = append(results, TaskResult{Message: message})
		}
	}

	return results
}
