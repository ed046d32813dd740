package conversationsummary

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/errors"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/common/metrics"
	"kisan-intent/internal/intent"
	"kisan-intent/internal/session"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "conversation-summary"

var ErrSessionNotFound = stderrors.New("SESSION_NOT_FOUND")

type Handler struct {
	config       *Config
	sessions     *session.Manager
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Sessions     *session.Manager
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("conversation-summary: session manager is required")
	}

	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = createConfigFromAppConfig(opts.AppConfig)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		sessions:     opts.Sessions,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := ParseInput(job.GetVariables())
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			return
		}
	}

	plan := errors.PlanJobFailure(err, job.GetRetries())
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(plan.StdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// ParseInput validates and decodes raw job variables.
func ParseInput(variables string) (*Input, error) {
	result := inputSchema.ValidateBytes([]byte(variables))
	if !result.Valid {
		return nil, errors.NewInvalidJobPayloadError(result.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidJobPayloadError(err.Error())
	}
	return &input, nil
}

// Execute returns the conversation summary of a session, ending the session
// when input.End is set.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.NewInvalidJobPayloadError("sessionId is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	var (
		summary intent.Summary
		err     error
	)
	if input.End {
		summary, err = h.sessions.End(input.SessionID)
	} else {
		summary, err = h.sessions.Summary(input.SessionID)
	}
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeSessionNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
		}
		return nil, err
	}

	h.logger.Info("conversation summarized", map[string]interface{}{
		"sessionId": input.SessionID,
		"total":     summary.Total,
		"topIntent": summary.TopIntent,
		"ended":     input.End,
	})

	return &Output{
		SessionID: input.SessionID,
		Summary:   summary,
		Ended:     input.End,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
