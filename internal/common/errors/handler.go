// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler handles job errors with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// JobFailure is the decision taken for a failed job: either fail it with
// Retries left, or throw BPMN as a business error.
type JobFailure struct {
	StdErr  *StandardError
	BPMN    *BPMNError
	Retry   bool
	Retries int
}

// PlanJobFailure decides how a job that failed with err should be reported,
// given the retries the broker still allows.
func PlanJobFailure(err error, jobRetries int32) JobFailure {
	stdErr := normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	plan := JobFailure{StdErr: stdErr, BPMN: bpmnErr}
	if bpmnErr.Retries > 0 && jobRetries > 0 {
		plan.Retry = true
		plan.Retries = bpmnErr.Retries
		if int(jobRetries) < plan.Retries {
			plan.Retries = int(jobRetries)
		}
		// The broker counts the failing attempt itself.
		plan.Retries--
	}
	return plan
}

// HandleJobError handles any error in a worker job
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	plan := PlanJobFailure(err, job.Retries)
	h.logError(job, plan)

	if plan.Retry {
		h.failJob(ctx, client, job, plan.BPMN, plan.Retries)
		return
	}
	h.throwBPMNError(ctx, client, job, plan.BPMN)
}

// normalizeError ensures we always have a StandardError
func normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			_, _ = cmdWithVars.Send(ctx)
			return
		}
	}

	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			_, _ = cmdWithVars.Send(ctx)
			return
		}
	}

	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) logError(job entities.Job, plan JobFailure) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(plan.StdErr.Code),
		"bpmnErrorCode":    plan.BPMN.Code,
		"message":          plan.BPMN.Message,
		"details":          plan.StdErr.Details,
		"retryable":        plan.StdErr.Retryable,
		"retry":            plan.Retry,
		"retries":          plan.Retries,
		"errorCategory":    GetErrorCategory(plan.StdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
