// Package main is the enclave entrypoint. In run mode it executes one
// invocation: decode the container parameters, fetch and validate the
// tweet, score it, and emit the settle instruction for the host to sign
// and publish. In confirm mode it waits for a published transaction
// signature to reach commitment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vortex-oracle/internal/config"
	"vortex-oracle/internal/confirm"
	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/eligibility"
	"vortex-oracle/internal/idhash"
	"vortex-oracle/internal/observability"
	"vortex-oracle/internal/params"
	"vortex-oracle/internal/pipeline"
	"vortex-oracle/internal/runner"
	"vortex-oracle/internal/scoring"
	"vortex-oracle/internal/solana"
	"vortex-oracle/internal/storage"
	chstore "vortex-oracle/internal/storage/clickhouse"
	"vortex-oracle/internal/storage/memory"
	"vortex-oracle/internal/storage/migrations"
	pgstore "vortex-oracle/internal/storage/postgres"
	"vortex-oracle/internal/twitter"
)

func main() {
	// Parse flags
	mode := flag.String("mode", "run", "Mode: run (one invocation) or confirm (wait for a signature)")
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory journal stores instead of PostgreSQL/ClickHouse")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable, overrides config)")
	signature := flag.String("signature", "", "Transaction signature to wait for (confirm mode)")
	confirmTimeout := flag.Duration("confirm-timeout", 90*time.Second, "How long to wait for confirmation")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[function] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	addr := cfg.MetricsAddr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	if addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation on shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling...", sig)
		cancel()
	}()

	switch *mode {
	case "run":
		err = runInvocation(ctx, logger, cfg, *useMemory)
	case "confirm":
		err = runConfirm(ctx, logger, cfg, *signature, *confirmTimeout)
	default:
		logger.Fatalf("Unknown mode: %s", *mode)
	}

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}
}

// journal bundles the host-side persistence stores. Journaling failures
// are logged and never block emission. The DB names label the query
// metrics with the active backend.
type journal struct {
	settlements   storage.SettlementStore
	snapshots     storage.EngagementSnapshotStore
	settlementsDB string
	snapshotsDB   string
	cleanup       func()
}

// openJournal connects the configured stores, falling back to in-memory
// ones. Migrations are applied on connect; they are idempotent.
func openJournal(ctx context.Context, logger *log.Logger, cfg *config.Config, useMemory bool) (*journal, error) {
	j := &journal{
		settlements:   memory.NewSettlementStore(),
		snapshots:     memory.NewEngagementSnapshotStore(),
		settlementsDB: "memory",
		snapshotsDB:   "memory",
		cleanup:       func() {},
	}
	if useMemory {
		return j, nil
	}

	var closers []func()

	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply postgres migrations: %w", err)
		}
		j.settlements = pgstore.NewSettlementStore(pool)
		j.settlementsDB = "postgres"
		closers = append(closers, pool.Close)
		logger.Println("Settlement journal: postgres")
	}

	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		j.snapshots = chstore.NewEngagementSnapshotStore(conn)
		j.snapshotsDB = "clickhouse"
		closers = append(closers, func() { conn.Close() })
		logger.Println("Engagement snapshots: clickhouse")
	}

	j.cleanup = func() {
		for _, c := range closers {
			c()
		}
	}
	return j, nil
}

// runInvocation executes one decode/fetch/validate/score/encode pass
// and emits the result.
func runInvocation(ctx context.Context, logger *log.Logger, cfg *config.Config, useMemory bool) error {
	fn, err := runner.NewFromEnv()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	logger.Printf("Enclave signer: %s", fn.Signer())

	j, err := openJournal(ctx, logger, cfg, useMemory)
	if err != nil {
		return err
	}
	defer j.cleanup()

	client := twitter.NewClient(cfg.Twitter.BearerToken,
		twitter.WithBaseURL(cfg.Twitter.BaseURL))

	p := pipeline.New(pipeline.Options{
		Fetcher:    client,
		Identity:   fn.Identity(),
		Validator:  eligibility.NewValidatorWithPolicy(cfg.MinAge(), cfg.Policy.RequiredTag, cfg.Policy.RequiredMention),
		Calculator: scoring.NewCalculator(cfg.ScoringWeights()),
	})

	observedAt := time.Now().UnixMilli()
	requestKey := fn.Identity().FunctionRequestKey.String()

	result, err := p.Run(ctx, fn.ContainerParams())
	if err != nil {
		stage, reason := pipeline.Classify(err)
		status := domain.StatusFailed
		if pipeline.IsRejection(err) {
			status = domain.StatusRejected
		}
		observability.RecordInvocation(string(status))
		observability.RecordStageError(stage, reason)
		logger.Printf("Invocation %s at stage %s: %v", status, stage, err)

		// The failed pipeline returns no decoded params; decode again so
		// identifiable rejections still land in the journal.
		if decoded, decodeErr := params.Decode(fn.ContainerParams()); decodeErr == nil {
			journalSettlement(ctx, logger, j, &domain.SettlementRecord{
				InvocationID:    idhash.ComputeInvocationID(decoded.TweetID, decoded.User.String(), requestKey, observedAt),
				TweetID:         decoded.TweetID,
				TwitterUsername: decoded.TwitterUsername,
				User:            decoded.User.String(),
				ProgramID:       decoded.ProgramID.String(),
				Status:          status,
				Reason:          reason,
				CreatedAt:       observedAt,
			})
		}
		return err
	}

	observability.RecordInvocation(string(domain.StatusSettled))
	observability.RecordPoints(result.Points)
	observability.RecordInstructionSize(result.Instruction.SerializedSize())

	journalSettlement(ctx, logger, j, &domain.SettlementRecord{
		InvocationID:    idhash.ComputeInvocationID(result.Params.TweetID, result.Params.User.String(), requestKey, observedAt),
		TweetID:         result.Params.TweetID,
		TwitterUsername: result.Params.TwitterUsername,
		User:            result.Params.User.String(),
		ProgramID:       result.Params.ProgramID.String(),
		Status:          domain.StatusSettled,
		Points:          result.Points,
		CreatedAt:       observedAt,
	})
	journalSnapshot(ctx, logger, j, result, observedAt)

	logger.Printf("Tweet %d scored %d points, emitting settle instruction (%d bytes)",
		result.Params.TweetID, result.Points, result.Instruction.SerializedSize())

	if err := fn.Emit([]*solana.Instruction{result.Instruction}); err != nil {
		return fmt.Errorf("emit result: %w", err)
	}
	return nil
}

// journalSettlement writes a journal row, logging failures instead of
// propagating them. A duplicate row means the invocation was already
// journaled.
func journalSettlement(ctx context.Context, logger *log.Logger, j *journal, rec *domain.SettlementRecord) {
	start := time.Now()
	err := j.settlements.Insert(ctx, rec)
	observability.RecordDBQuery(j.settlementsDB, "insert_settlement", time.Since(start).Seconds(), err)
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		logger.Printf("Journal settlement %s: %v", rec.InvocationID, err)
	}
}

// journalSnapshot records the observed engagement counters for a
// settled invocation.
func journalSnapshot(ctx context.Context, logger *log.Logger, j *journal, result *pipeline.Result, observedAt int64) {
	metrics := result.Tweet.PublicMetrics
	if metrics == nil {
		return
	}
	snap := &domain.EngagementSnapshot{
		TweetID:      result.Params.TweetID,
		AuthorID:     result.Tweet.AuthorID,
		ObservedAt:   observedAt,
		LikeCount:    metrics.LikeCount,
		ReplyCount:   metrics.ReplyCount,
		RetweetCount: metrics.RetweetCount,
		Points:       result.Points,
	}
	if metrics.QuoteCount != nil {
		snap.QuoteCount = *metrics.QuoteCount
	}

	start := time.Now()
	err := j.snapshots.InsertBulk(ctx, []*domain.EngagementSnapshot{snap})
	observability.RecordDBQuery(j.snapshotsDB, "insert_snapshot", time.Since(start).Seconds(), err)
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		logger.Printf("Journal snapshot for tweet %d: %v", snap.TweetID, err)
	}
}

// runConfirm waits for a published settle transaction to reach the
// configured commitment.
func runConfirm(ctx context.Context, logger *log.Logger, cfg *config.Config, signature string, timeout time.Duration) error {
	if signature == "" {
		return fmt.Errorf("--signature is required for confirm mode")
	}
	if cfg.Solana.WSEndpoint == "" {
		return fmt.Errorf("solana.ws_endpoint is required for confirm mode")
	}

	watcher := confirm.NewWatcher(cfg.Solana.WSEndpoint,
		confirm.WithCommitment(cfg.Solana.Commitment))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Printf("Waiting for signature %s (%s)...", signature, cfg.Solana.Commitment)
	result, err := watcher.WaitForSignature(ctx, signature)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", signature, err)
	}

	logger.Printf("Confirmed in slot %d", result.Slot)
	return nil
}
