// Package store implements the per-app single-writer store: one
// Coordinator per app identifier owning that app's log entries, daily
// stats and health history, plus the Hub registry addressing
// coordinators by name.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Egor213/LogVault/internal/broker"
	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/metrics"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/repo"
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	defaultRangeDays   = 7
	maxRangeDays       = 365
	defaultMailboxSize = 64
)

type Deps struct {
	Entries  repo.Entry
	Stats    repo.Stats
	Health   repo.Health
	Producer broker.Producer
	Counters *metrics.Counters
}

type task struct {
	ctx   context.Context
	req   protocol.Request
	reply chan protocol.Response
}

// Coordinator owns all durable state for one app. A dedicated
// goroutine drains the mailbox one task at a time, so read-modify-write
// sequences against the same app never interleave while different apps
// proceed in parallel.
type Coordinator struct {
	appID   string
	deps    Deps
	mailbox chan task
	done    chan struct{}
	stopped chan struct{}
}

func newCoordinator(appID string, deps Deps) *Coordinator {
	c := &Coordinator{
		appID:   appID,
		deps:    deps,
		mailbox: make(chan task, defaultMailboxSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Dispatch submits one operation and blocks until it has been executed
// in admission order. Always returns a structured envelope, never
// panics across the boundary.
func (c *Coordinator) Dispatch(ctx context.Context, req protocol.Request) protocol.Response {
	t := task{ctx: ctx, req: req, reply: make(chan protocol.Response, 1)}

	select {
	case c.mailbox <- t:
	case <-c.done:
		return protocol.Fail(protocol.CodeServiceUnavailable, "store is shutting down")
	case <-ctx.Done():
		return protocol.Fail(protocol.CodeServiceUnavailable, "request canceled before admission")
	}

	select {
	case resp := <-t.reply:
		return resp
	case <-c.done:
		return protocol.Fail(protocol.CodeServiceUnavailable, "store is shutting down")
	}
}

func (c *Coordinator) loop() {
	defer close(c.stopped)
	for {
		select {
		case t := <-c.mailbox:
			resp := c.execute(t.ctx, t.req)
			c.observe(t.req, resp)
			t.reply <- resp
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) stop() {
	close(c.done)
	<-c.stopped
}

func (c *Coordinator) observe(req protocol.Request, resp protocol.Response) {
	status := "ok"
	if !resp.OK {
		status = string(resp.Error.Code)
	}
	c.deps.Counters.Dispatches.Inc(req.Method+" "+req.Path, status)
}

func (c *Coordinator) execute(ctx context.Context, req protocol.Request) (resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"app": c.appID, "panic": r}).Error("Dispatch panic recovered")
			resp = protocol.Failf(protocol.CodeInternalError, "internal error")
		}
	}()

	switch {
	case req.Method == protocol.MethodPost && req.Path == protocol.PathLog:
		return c.appendOne(ctx, req.Body)
	case req.Method == protocol.MethodPost && req.Path == protocol.PathLogs:
		return c.appendBatch(ctx, req.Body)
	case req.Method == protocol.MethodGet && req.Path == protocol.PathLogs:
		return c.query(ctx, req.Body)
	case req.Method == protocol.MethodPost && req.Path == protocol.PathStats:
		return c.increment(ctx, req.Body)
	case req.Method == protocol.MethodGet && req.Path == protocol.PathStats:
		return c.statsRange(ctx, req.Body)
	case req.Method == protocol.MethodPost && req.Path == protocol.PathPrune:
		return c.prune(ctx, req.Body)
	case req.Method == protocol.MethodPost && req.Path == protocol.PathHealthURLs:
		return c.setURLs(ctx, req.Body)
	case req.Method == protocol.MethodGet && req.Path == protocol.PathHealthURLs:
		return c.getURLs(ctx)
	case req.Method == protocol.MethodPost && req.Path == protocol.PathHealth:
		return c.recordResult(ctx, req.Body)
	case req.Method == protocol.MethodGet && req.Path == protocol.PathHealth:
		return c.history(ctx, req.Body)
	default:
		return protocol.Failf(protocol.CodeNotFound, "no operation %s %s", req.Method, req.Path)
	}
}

func buildEntry(in protocol.AppendInput, now time.Time) (domain.LogEntry, *protocol.Error) {
	if err := domain.ValidateLevel(in.Level); err != nil {
		return domain.LogEntry{}, &protocol.Error{Code: protocol.CodeValidationError, Message: "level must be one of DEBUG, INFO, WARN, ERROR"}
	}
	if in.Message == "" {
		return domain.LogEntry{}, &protocol.Error{Code: protocol.CodeValidationError, Message: "message is required"}
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = now
	}

	return domain.LogEntry{
		ID:        uuid.NewString(),
		Level:     in.Level,
		Message:   in.Message,
		Context:   in.Context,
		RequestID: in.RequestID,
		Timestamp: ts.UTC(),
	}, nil
}

func (c *Coordinator) appendOne(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.AppendInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed append payload")
	}

	entry, perr := buildEntry(in, time.Now().UTC())
	if perr != nil {
		return protocol.Response{OK: false, Error: perr}
	}

	if err := c.deps.Entries.Append(ctx, c.appID, &entry); err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to append log")
		return protocol.Fail(protocol.CodeInternalError, "failed to store log entry")
	}

	c.deps.Counters.LogsReceived.Inc(c.appID, entry.Level)
	c.publish(ctx, entry)

	return protocol.Success(entry)
}

func (c *Coordinator) appendBatch(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.AppendBatchInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed batch payload")
	}
	if len(in.Logs) == 0 {
		return protocol.Fail(protocol.CodeValidationError, "logs must not be empty")
	}

	// Validate everything before any mutation: the batch is
	// all-or-nothing.
	now := time.Now().UTC()
	entries := make([]domain.LogEntry, 0, len(in.Logs))
	for i, item := range in.Logs {
		entry, perr := buildEntry(item, now)
		if perr != nil {
			return protocol.Failf(protocol.CodeValidationError, "logs[%d]: %s", i, perr.Message)
		}
		entries = append(entries, entry)
	}

	if err := c.deps.Entries.AppendBatch(ctx, c.appID, entries); err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to append log batch")
		return protocol.Fail(protocol.CodeInternalError, "failed to store log batch")
	}

	for _, entry := range entries {
		c.deps.Counters.LogsReceived.Inc(c.appID, entry.Level)
		c.publish(ctx, entry)
	}

	return protocol.Success(entries)
}

func (c *Coordinator) query(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.QueryInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed query payload")
	}
	if in.Level != "" {
		if err := domain.ValidateLevel(in.Level); err != nil {
			return protocol.Fail(protocol.CodeValidationError, "level must be one of DEBUG, INFO, WARN, ERROR")
		}
	}

	filter := repotypes.EntryFilter{
		Level:     in.Level,
		Since:     in.Since,
		Until:     in.Until,
		RequestID: in.RequestID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}

	entries, err := c.deps.Entries.Query(ctx, c.appID, filter)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to query logs")
		return protocol.Fail(protocol.CodeInternalError, "failed to query logs")
	}

	return protocol.Success(entries)
}

func (c *Coordinator) increment(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.IncrementInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed stats payload")
	}

	counts := in.Counts
	if len(counts) == 0 {
		if in.Level == "" {
			return protocol.Fail(protocol.CodeValidationError, "level or counts is required")
		}
		counts = []domain.LevelCount{{Level: in.Level, Count: 1}}
	}

	for i, lc := range counts {
		if err := domain.ValidateLevel(lc.Level); err != nil {
			return protocol.Failf(protocol.CodeValidationError, "counts[%d]: invalid level", i)
		}
		if lc.Count <= 0 {
			return protocol.Failf(protocol.CodeValidationError, "counts[%d]: count must be positive", i)
		}
	}

	date := time.Now().UTC().Format(domain.DateLayout)
	stat, err := c.deps.Stats.Increment(ctx, c.appID, date, counts)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to increment stats")
		return protocol.Fail(protocol.CodeInternalError, "failed to increment stats")
	}

	return protocol.Success(stat)
}

func (c *Coordinator) statsRange(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.RangeInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed range payload")
	}

	days := in.Days
	if days <= 0 {
		days = defaultRangeDays
	}
	if days > maxRangeDays {
		return protocol.Failf(protocol.CodeValidationError, "days must not exceed %d", maxRangeDays)
	}

	today := time.Now().UTC()
	from := today.AddDate(0, 0, -(days - 1)).Format(domain.DateLayout)
	to := today.Format(domain.DateLayout)

	stats, err := c.deps.Stats.GetRange(ctx, c.appID, from, to)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to read stats range")
		return protocol.Fail(protocol.CodeInternalError, "failed to read stats")
	}

	return protocol.Success(domain.DenseRange(stats, days, today))
}

func (c *Coordinator) prune(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.PruneInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed prune payload")
	}
	if in.Before.IsZero() {
		return protocol.Fail(protocol.CodeValidationError, "before is required")
	}

	deleted, err := c.deps.Entries.Prune(ctx, c.appID, in.Before)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to prune logs")
		return protocol.Fail(protocol.CodeInternalError, "failed to prune logs")
	}

	return protocol.Success(protocol.PruneResult{Deleted: deleted})
}

func (c *Coordinator) setURLs(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.SetURLsInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed health-urls payload")
	}
	for i, u := range in.URLs {
		if u == "" {
			return protocol.Failf(protocol.CodeValidationError, "urls[%d] must not be empty", i)
		}
	}

	if err := c.deps.Health.SetURLs(ctx, c.appID, in.URLs); err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to set health urls")
		return protocol.Fail(protocol.CodeInternalError, "failed to store health urls")
	}

	urls := in.URLs
	if urls == nil {
		urls = []string{}
	}
	return protocol.Success(protocol.URLList{URLs: urls})
}

func (c *Coordinator) getURLs(ctx context.Context) protocol.Response {
	urls, err := c.deps.Health.GetURLs(ctx, c.appID)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to read health urls")
		return protocol.Fail(protocol.CodeInternalError, "failed to read health urls")
	}
	return protocol.Success(protocol.URLList{URLs: urls})
}

func (c *Coordinator) recordResult(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.RecordResultInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed health result payload")
	}

	result := in.Result
	if result.URL == "" {
		return protocol.Fail(protocol.CodeValidationError, "url is required")
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CheckedAt.IsZero() {
		result.CheckedAt = time.Now().UTC()
	}

	if err := c.deps.Health.RecordResult(ctx, c.appID, &result); err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to record health result")
		return protocol.Fail(protocol.CodeInternalError, "failed to record health result")
	}

	return protocol.Success(result)
}

func (c *Coordinator) history(ctx context.Context, body any) protocol.Response {
	in, ok := body.(protocol.HistoryInput)
	if !ok {
		return protocol.Fail(protocol.CodeBadRequest, "malformed history payload")
	}

	filter := repotypes.HistoryFilter{Since: in.Since, Until: in.Until, Limit: in.Limit}
	results, err := c.deps.Health.GetHistory(ctx, c.appID, filter)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to read health history")
		return protocol.Fail(protocol.CodeInternalError, "failed to read health history")
	}

	return protocol.Success(results)
}

// publish fans the entry out to the broker. Failures are logged and
// never fail the append.
func (c *Coordinator) publish(ctx context.Context, entry domain.LogEntry) {
	if c.deps.Producer == nil {
		return
	}

	value, err := json.Marshal(entry)
	if err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to encode entry for broker")
		return
	}

	if err := c.deps.Producer.SendMessage(ctx, []byte(c.appID), value); err != nil {
		log.WithFields(log.Fields{"app": c.appID, "error": err}).Error("Failed to publish entry")
	}
}
