package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"cubebridge/internal/logstore"
	"cubebridge/internal/model"
	"cubebridge/internal/repository"
	"cubebridge/internal/runner"
	"cubebridge/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("invocation not found")
	ErrFilenameRequired = errors.New("filename is required")
	ErrArchiveDisabled  = errors.New("memory-thread archive is not configured")
)

const (
	archivePrefix    = "memory-threads"
	presignExpiry    = 15 * time.Minute
	defaultPageLimit = 10
)

var tracer = otel.Tracer("cubebridge/internal/service")

// InvocationListResult is the service-level DTO for paginated invocation history.
type InvocationListResult struct {
	Items []model.Invocation `json:"data"`
	Total int                `json:"total"`
}

// BridgeService defines the use cases exposed to the cube front-end.
type BridgeService interface {
	// Execute runs the external binary with command as its single argument
	// and returns the recorded invocation. A non-zero exit surfaces as a
	// *runner.ExitError whose message is the captured stderr; a spawn failure
	// surfaces as an error wrapping the OS error. History recording is
	// best-effort and never masks the command result.
	Execute(ctx context.Context, command string) (*model.Invocation, error)

	// LogMemoryThread writes a timestamped memory-thread log file and, when
	// an archive is configured, uploads a copy to object storage.
	LogMemoryThread(ctx context.Context, message string) (*model.MemoryThreadEntry, error)

	// History returns past invocations using limit/offset and a total count.
	History(ctx context.Context, limit, offset int) (*InvocationListResult, error)

	// Invocation returns a single invocation by its ID.
	Invocation(ctx context.Context, id string) (*model.Invocation, error)

	// ArchiveURL returns a pre-signed download URL for an archived
	// memory-thread log file.
	ArchiveURL(ctx context.Context, filename string) (string, error)
}

// bridgeService is a concrete implementation of BridgeService.
type bridgeService struct {
	run     runner.Runner
	repo    repository.InvocationRepository
	logs    logstore.Store
	archive storage.Storage // nil when no object storage is configured

	executions *prometheus.CounterVec
}

// NewBridgeService constructs a new BridgeService. archive may be nil; reg may
// be nil when metrics are not collected (tests).
func NewBridgeService(
	run runner.Runner,
	repo repository.InvocationRepository,
	logs logstore.Store,
	archive storage.Storage,
	reg prometheus.Registerer,
) BridgeService {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	executions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_command_executions_total",
			Help: "Total number of external command executions by result class.",
		},
		[]string{"result"},
	)
	reg.MustRegister(executions)

	return &bridgeService{
		run:        run,
		repo:       repo,
		logs:       logs,
		archive:    archive,
		executions: executions,
	}
}

func (s *bridgeService) Execute(ctx context.Context, command string) (*model.Invocation, error) {
	ctx, span := tracer.Start(ctx, "BridgeService.Execute")
	defer span.End()

	out, runErr := s.run.Run(ctx, command)

	result := "success"
	if runErr != nil {
		var exitErr *runner.ExitError
		if errors.As(runErr, &exitErr) {
			result = "command_failed"
		} else {
			result = "spawn_error"
		}
	}
	s.executions.WithLabelValues(result).Inc()
	span.SetAttributes(attribute.String("bridge.result", result))

	inv := &model.Invocation{
		ID:        uuid.NewString(),
		Command:   command,
		CreatedAt: time.Now().UTC(),
	}
	if out != nil {
		inv.Stdout = out.Stdout
		inv.Stderr = out.Stderr
		inv.ExitCode = out.ExitCode
		inv.DurationMs = out.Duration.Milliseconds()
		span.SetAttributes(attribute.Int("bridge.exit_code", out.ExitCode))
	}

	// Best-effort history: a DB outage must not mask the command result.
	if _, err := s.repo.Create(ctx, inv); err != nil {
		logWarn("invocation_history_write_failed", err)
	}

	if runErr != nil {
		return nil, runErr
	}
	return inv, nil
}

func (s *bridgeService) LogMemoryThread(ctx context.Context, message string) (*model.MemoryThreadEntry, error) {
	ctx, span := tracer.Start(ctx, "BridgeService.LogMemoryThread")
	defer span.End()

	entry, err := s.logs.Write(ctx, message)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := path.Join(archivePrefix, entry.Filename)
		_, err := s.archive.Put(ctx, key, strings.NewReader(message+"\n"), storage.PutObjectOptions{
			Size:        entry.Size,
			ContentType: "text/plain",
		})
		if err != nil {
			// Local write already succeeded; the archive copy is best-effort.
			logWarn("memory_thread_archive_failed", err)
		} else {
			entry.ArchiveKey = key
		}
	}

	return entry, nil
}

// History returns paginated invocations without exposing repository types.
func (s *bridgeService) History(ctx context.Context, limit, offset int) (*InvocationListResult, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &InvocationListResult{Items: res.Items, Total: res.Total}, nil
}

// Invocation returns an invocation by ID.
func (s *bridgeService) Invocation(ctx context.Context, id string) (*model.Invocation, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// ArchiveURL returns a pre-signed URL for an archived memory-thread log.
func (s *bridgeService) ArchiveURL(ctx context.Context, filename string) (string, error) {
	if filename == "" {
		return "", ErrFilenameRequired
	}
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}
	return s.archive.PresignGet(ctx, path.Join(archivePrefix, filename), presignExpiry)
}

func logWarn(msg string, err error) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   msg,
		"error": err.Error(),
	}
	if b, mErr := json.Marshal(entry); mErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
