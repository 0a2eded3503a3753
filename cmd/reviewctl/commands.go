package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/review"
	"github.com/google/subcommands"
)

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
		}
	}
	return subcommands.ExitFailure
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	return subcommands.ExitUsageError
}

// warnSync reports a tracker that could not be persisted without failing the command.
func warnSync(err error) error {
	if errors.Is(err, review.ErrTrackerSync) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return err
}

// uploadCmd stages an extraction output file.
type uploadCmd struct{}

func (*uploadCmd) Name() string     { return "upload" }
func (*uploadCmd) Synopsis() string { return "stage an extraction output file for review" }
func (*uploadCmd) Usage() string {
	return `reviewctl upload <extraction.json>

  Stages the transactions in the file and tracks the batches that received records.
`
}
func (*uploadCmd) SetFlags(*flag.FlagSet) {}

func (c *uploadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("upload takes exactly one file")
	}
	raw, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	var req dto.UploadRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fail(fmt.Errorf("decode %s: %w", f.Arg(0), err))
	}
	err = withApp(ctx, func(ctx context.Context, a *app) error {
		res, err := a.session.Upload(ctx, req)
		if res != nil {
			fmt.Printf("staged %d transactions in batches %v\n", res.PendingCount, res.BatchIDs)
		}
		return warnSync(err)
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// resumeCmd picks up where the last session stopped.
type resumeCmd struct{}

func (*resumeCmd) Name() string     { return "resume" }
func (*resumeCmd) Synopsis() string { return "show what is left to review" }
func (*resumeCmd) Usage() string {
	return `reviewctl resume

  Loads the tracked batches, or every pending transaction when nothing is tracked
  but the server still has pending work.
`
}
func (*resumeCmd) SetFlags(*flag.FlagSet) {}

func (c *resumeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withApp(ctx, func(ctx context.Context, a *app) error {
		plan, err := a.session.Start(ctx)
		if err = warnSync(err); err != nil {
			return err
		}
		switch {
		case plan.Nothing:
			fmt.Println("nothing to review")
			return nil
		case plan.Unfiltered:
			fmt.Printf("no tracked batches, %d pending transactions on the server\n", plan.PendingCount)
		default:
			fmt.Printf("tracked batches: %v\n", plan.BatchIDs)
		}
		printItems(os.Stdout, a.session.Items())
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// listCmd lists staged transactions.
type listCmd struct {
	batchID string
	status  string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list staged transactions" }
func (*listCmd) Usage() string {
	return `reviewctl list [-batch <id>] [-status pending|approved|rejected]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.batchID, "batch", "", "only this upload batch")
	f.StringVar(&c.status, "status", "", "status filter, pending by default")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var filter domain.PendingFilter
	if c.batchID != "" {
		filter.BatchID = &c.batchID
	}
	if c.status != "" {
		s := domain.PendingStatus(c.status)
		filter.Status = &s
	}
	err := withApp(ctx, func(ctx context.Context, a *app) error {
		if err := a.session.Load(ctx, filter); err != nil {
			return err
		}
		printItems(os.Stdout, a.session.Items())
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// editCmd saves field corrections on a pending transaction.
type editCmd struct{}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "correct fields of a pending transaction" }
func (*editCmd) Usage() string {
	return `reviewctl edit <id> field=value... [clear=field,field]

  Fields: date time security name type qty price amount commission tax fx currency notes
`
}
func (*editCmd) SetFlags(*flag.FlagSet) {}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		return usage("edit takes an id and at least one field=value")
	}
	id := f.Arg(0)
	req, err := parseEdit(f.Args()[1:])
	if err != nil {
		return usage(err.Error())
	}
	err = withApp(ctx, func(ctx context.Context, a *app) error {
		if err := a.session.Load(ctx, domain.PendingFilter{}); err != nil {
			return err
		}
		if err := a.session.Edit(id, req); err != nil {
			return err
		}
		saved, err := a.session.Save(ctx, id)
		if err != nil {
			return err
		}
		printItems(os.Stdout, []review.Item{{Record: *saved}})
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// disposeCmd approves or rejects one pending transaction.
type disposeCmd struct {
	action string
}

func (c *disposeCmd) Name() string     { return c.action }
func (c *disposeCmd) Synopsis() string { return c.action + " one pending transaction" }
func (c *disposeCmd) Usage() string {
	return fmt.Sprintf("reviewctl %s <id>\n", c.action)
}
func (*disposeCmd) SetFlags(*flag.FlagSet) {}

func (c *disposeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage(c.action + " takes exactly one id")
	}
	id := f.Arg(0)
	err := withApp(ctx, func(ctx context.Context, a *app) error {
		if err := a.session.Load(ctx, domain.PendingFilter{}); err != nil {
			return err
		}
		if c.action == "approve" {
			return a.session.Approve(ctx, id)
		}
		return a.session.Reject(ctx, id)
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s: done\n", id)
	return subcommands.ExitSuccess
}

// batchCmd approves or rejects a whole batch.
type batchCmd struct {
	action string
}

func (c *batchCmd) Name() string     { return c.action }
func (c *batchCmd) Synopsis() string { return c.action + " pending transactions of a batch" }
func (c *batchCmd) Usage() string {
	return fmt.Sprintf(`reviewctl %s <batch-id>

  Processes every pending transaction of the batch. Failures do not stop the run.
`, c.action)
}
func (*batchCmd) SetFlags(*flag.FlagSet) {}

func (c *batchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage(c.action + " takes exactly one batch id")
	}
	batchID := f.Arg(0)
	var result *domain.BatchResult
	err := withApp(ctx, func(ctx context.Context, a *app) error {
		if err := a.session.LoadBatches(ctx, []string{batchID}); warnSync(err) != nil {
			return err
		}
		var err error
		if c.action == string(domain.ActionApproveAll) {
			result, err = a.session.ApproveAll(ctx, batchID)
		} else {
			result, err = a.session.RejectAll(ctx, batchID)
		}
		if result != nil {
			printResult(os.Stdout, result)
		}
		return warnSync(err)
	})
	if err != nil {
		return fail(err)
	}
	if len(result.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// trackCmd edits the outstanding batch list by hand.
type trackCmd struct {
	remove bool
}

func (*trackCmd) Name() string     { return "track" }
func (*trackCmd) Synopsis() string { return "add or remove batches from the outstanding list" }
func (*trackCmd) Usage() string {
	return `reviewctl track [-rm] [batch-id...]

  Without arguments prints the outstanding list.
`
}

func (c *trackCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.remove, "rm", false, "remove the batches instead of adding them")
}

func (c *trackCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := withApp(ctx, func(ctx context.Context, a *app) error {
		var err error
		switch {
		case f.NArg() == 0:
		case c.remove:
			err = a.tracker.Remove(ctx, f.Args()...)
		default:
			err = a.tracker.Add(ctx, f.Args()...)
		}
		if err != nil {
			return err
		}
		ids, err := a.tracker.Outstanding(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
