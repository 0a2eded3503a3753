package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/SscSPs/statement_review_app/internal/client"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
	"github.com/SscSPs/statement_review_app/internal/review"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// app is what every subcommand works with.
type app struct {
	client  *client.Client
	tracker *review.Tracker
	session *review.Session
	closers []io.Closer
}

func newApp() (*app, error) {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return nil, err
	}
	a := &app{
		client: client.New(cfg.APIBaseURL, cfg.APIToken, client.WithTimeout(cfg.RequestTimeout)),
	}

	var store review.BatchStore
	switch cfg.TrackerStore {
	case "redis":
		if cfg.TrackerRedisAddr == "" || cfg.TrackerUser == "" {
			return nil, fmt.Errorf("TRACKER_STORE=redis needs TRACKER_REDIS_ADDR and TRACKER_USER")
		}
		rdb := redis.NewClient(&redis.Options{Addr: cfg.TrackerRedisAddr})
		a.closers = append(a.closers, rdb)
		store = review.NewRedisBatchStore(rdb, cfg.TrackerUser)
	case "file", "":
		store = review.NewFileBatchStore(cfg.TrackerFile)
	default:
		return nil, fmt.Errorf("unknown TRACKER_STORE %q", cfg.TrackerStore)
	}

	a.tracker = review.NewTracker(store, review.WithSyncMaxElapsed(cfg.TrackerSyncMaxElapsed))
	a.session = review.NewSession(a.client, a.tracker)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// withApp runs fn with a fully configured app.
func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printItems(w io.Writer, items []review.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "nothing pending")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBATCH\tDATE\tTYPE\tSECURITY\tQTY\tPRICE\tAMOUNT\tCCY\tREADY")
	for _, it := range items {
		r := it.Record
		ready := "yes"
		if err := r.ReadyForLedger(); err != nil {
			ready = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.PendingID, r.UploadBatchID, dateOrDash(r), typeOrDash(r),
			strOrDash(r.SecurityIdentifier), decOrDash(r.Quantity), decOrDash(r.Price), decOrDash(r.Amount),
			orDash(r.CurrencyCode), ready)
	}
	_ = tw.Flush()
}

func printResult(w io.Writer, res *domain.BatchResult) {
	fmt.Fprintf(w, "%s %s: %d succeeded, %d failed, %d skipped, %d remaining\n",
		res.Action, res.BatchID, len(res.Succeeded), len(res.Failed), len(res.Skipped), res.Remaining)
	for _, f := range res.Failed {
		fmt.Fprintf(w, "  failed  %s [%s] %s\n", f.PendingID, f.Code, f.Error)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  skipped %s [%s]\n", s.PendingID, s.Code)
	}
}

func dateOrDash(r domain.PendingTransaction) string {
	if r.TransactionDate == nil {
		return "-"
	}
	return r.TransactionDate.Format("2006-01-02")
}

func typeOrDash(r domain.PendingTransaction) string {
	if r.TransactionType == nil {
		return "-"
	}
	return string(*r.TransactionType)
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return orDash(*s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func decOrDash(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
