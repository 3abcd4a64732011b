package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andy/billdraft/internal/app"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/eventloop"
	"github.com/andy/billdraft/internal/reactive"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a burst of edits and report update metrics",
	Long: `Simulate someone typing into the invoice editor: a document with
--items lines receives --edits quantity changes, one every --interval.
Updates are debounced and coalesced exactly as in the TUI; the command
prints how many flushes the burst produced and the timing metrics.

Examples:
  billdraft simulate
  billdraft simulate --items 200 --edits 1000 --interval 1ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, _ := cmd.Flags().GetInt("items")
		edits, _ := cmd.Flags().GetInt("edits")
		interval, _ := cmd.Flags().GetDuration("interval")
		if items <= 0 || edits < 0 {
			return fmt.Errorf("--items must be positive and --edits not negative")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		loop := eventloop.New(0, logrus.StandardLogger().WithField("component", "loop"))
		idle := make(chan struct{}, 1)
		counts := &flushCounter{}

		a, err := newApp(ctx,
			app.WithAlarm(loop.Alarm()),
			app.WithListener(counts),
			app.WithLogOutput(cmd.ErrOrStderr()),
			app.WithStateHook(func(from, to reactive.State) {
				if to == reactive.StateIdle {
					select {
					case idle <- struct{}{}:
					default:
					}
				}
			}),
		)
		if err != nil {
			return err
		}

		go loop.Run(ctx)
		defer loop.Do(context.Background(), func() { a.Close() })

		svc := a.InvoiceService
		ids := make([]string, 0, items)
		seed := func() {
			for i := 0; i < items; i++ {
				ref := fmt.Sprintf("SIM-%03d", i+1)
				ids = append(ids, svc.AddItem(domain.NewLineItem(ref, "Simulated line", 1, 10, 0, 20)))
			}
		}
		if err := loop.Do(ctx, seed); err != nil {
			return err
		}
		if err := waitIdle(ctx, loop, a, idle); err != nil {
			return err
		}
		err = loop.Do(ctx, func() {
			a.Scheduler.ResetMetrics()
			counts.reset()
		})
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < edits; i++ {
			id := ids[i%len(ids)]
			qty := float64(i/len(ids) + 2)
			err := loop.Do(ctx, func() {
				item, ok := a.Store.Item(id)
				if !ok {
					return
				}
				item.Quantity = qty
				if err := svc.UpdateItem(id, item); err != nil {
					a.Log.WithError(err).Warn("edit rejected")
				}
			})
			if err != nil {
				return err
			}
			if interval > 0 {
				time.Sleep(interval)
			}
		}
		typing := time.Since(start)

		if err := waitIdle(ctx, loop, a, idle); err != nil {
			return err
		}
		settled := time.Since(start)

		var (
			m      reactive.Metrics
			totals domain.Totals
			last   error
		)
		_ = loop.Do(ctx, func() {
			m = a.Scheduler.Metrics()
			totals = a.InvoiceService.Totals()
			last = a.Scheduler.LastError()
		})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Edits:        %d over %v (settled after %v)\n", edits, typing.Round(time.Millisecond), settled.Round(time.Millisecond))
		fmt.Fprintf(out, "Notifications: %d totals, %d rows, %d display\n", counts.totals, counts.rows, counts.displays)
		fmt.Fprintf(out, "Final total:  %.2f\n", totals.TotalWithTax)
		printMetrics(out, m)
		if last != nil {
			fmt.Fprintf(out, "Last error:   %v\n", last)
		}
		return nil
	},
}

// waitIdle blocks until the scheduler has nothing pending
func waitIdle(ctx context.Context, loop *eventloop.Loop, a *app.App, idle chan struct{}) error {
	settled := false
	err := loop.Do(ctx, func() {
		for len(idle) > 0 {
			<-idle
		}
		settled = a.Scheduler.State() == reactive.StateIdle
	})
	if err != nil || settled {
		return err
	}

	timeout := time.NewTimer(a.Scheduler.Debounce()*10 + 5*time.Second)
	defer timeout.Stop()
	select {
	case <-idle:
		return nil
	case <-timeout.C:
		return fmt.Errorf("updates did not settle")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flushCounter counts listener notifications. It is only touched on the loop.
type flushCounter struct {
	totals   int
	rows     int
	displays int
}

func (c *flushCounter) TotalsUpdated(domain.Totals) error {
	c.totals++
	return nil
}

func (c *flushCounter) RowUpdated(reactive.RowUpdate) error {
	c.rows++
	return nil
}

func (c *flushCounter) DisplayRefreshed(domain.Document) error {
	c.displays++
	return nil
}

func (c *flushCounter) reset() {
	*c = flushCounter{}
}

func init() {
	simulateCmd.Flags().Int("items", 20, "Number of line items in the document")
	simulateCmd.Flags().Int("edits", 200, "Number of edits to replay")
	simulateCmd.Flags().Duration("interval", 2*time.Millisecond, "Delay between edits")
}
