package detectintent

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
	"kisan-intent/internal/common/observability"
	"kisan-intent/internal/intent"
	"kisan-intent/internal/session"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "detect-intent"
)

var (
	ErrDetectionFailed = stderrors.New("INTENT_DETECTION_FAILED")
	ErrSessionNotFound = stderrors.New("SESSION_NOT_FOUND")
)

type Handler struct {
	config       *Config
	sessions     *session.Manager
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Sessions      *session.Manager
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("detect-intent: session manager is required")
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
		obs:          opts.Observability,
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
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	if h.obs != nil {
		h.obs.RecordJobProcessed(ctx, "completed")
		h.obs.RecordJobDuration(ctx, time.Since(startTime), "completed")
	}
}

// ParseInput validates raw job variables against the input schema and decodes
// them.
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

// Execute runs detection for one question. Without a sessionId a new session
// is opened; an unknown sessionId is an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidJobPayloadError("input cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewIntentDetectionFailedError(fmt.Errorf("%w: %v", ErrDetectionFailed, err))
	}

	if h.obs != nil {
		var span trace.Span
		ctx, span = h.obs.StartSpan(ctx, TaskType,
			attribute.Bool("session.new", input.SessionID == ""),
			attribute.Int("question.length", len(input.Question)),
		)
		defer span.End()
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = h.sessions.Start(map[string]interface{}{"openedBy": TaskType}).ID
	}

	result, meta, err := h.sessions.Detect(sessionID, input.Question)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeSessionNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
		}
		return nil, errors.NewIntentDetectionFailedError(fmt.Errorf("%w: %w", ErrDetectionFailed, err))
	}

	metrics.ObserveDetection(result.Intent, string(result.Method), result.Confidence)
	if h.obs != nil {
		h.obs.RecordDetection(ctx, string(result.Category), string(result.Method))
	}

	output := &Output{
		IntentAnalysis: IntentAnalysis{
			PrimaryIntent: result.Intent,
			Confidence:    result.Confidence,
			Method:        string(result.Method),
			Category:      string(result.Category),
		},
		Entities:    result.Entities,
		PromptHints: promptHints(result),
		SessionID:   sessionID,
		Turn:        meta.Turns,
	}
	if h.config.IncludeScores {
		output.IntentAnalysis.Scores = result.Scores
	}

	h.logger.Info("intent detected", map[string]interface{}{
		"sessionId":  sessionID,
		"turn":       meta.Turns,
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"method":     result.Method,
		"entities":   result.Entities.Kinds(),
	})

	return output, nil
}

func promptHints(r intent.DetectionResult) PromptHints {
	return PromptHints{
		Intent:   r.Intent,
		Category: string(r.Category),
		Entities: r.Entities.Map(),
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	plan := errors.PlanJobFailure(err, job.GetRetries())
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(plan.StdErr.Code)).Inc()
	if h.obs != nil {
		h.obs.RecordJobProcessed(ctx, "failed")
	}
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
