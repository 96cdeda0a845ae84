package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/runner"
	"github.com/Cyclone1070/mdq/internal/service/ignore"
	"github.com/Cyclone1070/mdq/internal/ui"
	"github.com/Cyclone1070/mdq/internal/ui/models"
	"github.com/spf13/cobra"
)

// watchView is the live display driven by the watch command.
type watchView interface {
	Start() error
	Listener() mdquery.UpdateListener
	WriteResults(items []mdquery.Item)
	WriteStatus(phase string, message string)
	Commands() <-chan ui.UICommand
	Ready() <-chan struct{}
	Done() <-chan struct{}
}

func newWatchCmd(deps *Dependencies) *cobra.Command {
	var (
		qf    queryFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a query and follow changes to its results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, opts, err := qf.build(deps)
			if err != nil {
				return err
			}
			matcher, err := qf.matcher(deps)
			if err != nil {
				return err
			}
			defer r.Stop()

			if plain {
				return watchPlain(cmd.Context(), deps.Stdout, r, opts, matcher)
			}
			return watchInteractive(cmd.Context(), deps.NewView(deps.Config, r.Expression()), r, opts, matcher)
		},
	}
	qf.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print changes as lines instead of the live view")
	return cmd
}

// filtered drops excluded items before they reach listener.
func filtered(matcher *ignore.Matcher, listener mdquery.UpdateListener) mdquery.UpdateListener {
	return func(updateType mdquery.UpdateType, items []mdquery.Item) {
		if items = matcher.Filter(items); len(items) > 0 {
			listener(updateType, items)
		}
	}
}

// watchPlain prints the initial results, then one "<type>\t<path>" line per
// changed item until ctx is done.
func watchPlain(ctx context.Context, w io.Writer, r *runner.Runner, opts *runner.RunOptions, matcher *ignore.Matcher) error {
	var mu sync.Mutex
	r.Watch(filtered(matcher, func(updateType mdquery.UpdateType, items []mdquery.Item) {
		mu.Lock()
		defer mu.Unlock()
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\n", updateType, item.Path)
		}
	}))

	items, err := r.Run(ctx, opts)
	if err != nil {
		return err
	}

	mu.Lock()
	for _, item := range matcher.Filter(items) {
		fmt.Fprintln(w, item.Path)
	}
	mu.Unlock()

	<-ctx.Done()
	r.StopWatch()
	return nil
}

// watchInteractive drives view from a background goroutine while the view
// owns the terminal. Pressing r reruns the query.
func watchInteractive(ctx context.Context, view watchView, r *runner.Runner, opts *runner.RunOptions, matcher *ignore.Matcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.Watch(filtered(matcher, view.Listener()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-view.Ready():
		case <-ctx.Done():
			return
		}

		run := func() {
			items, err := r.Run(ctx, opts)
			switch {
			case ctx.Err() != nil:
			case err != nil:
				view.WriteStatus(models.PhaseError, err.Error())
			default:
				view.WriteResults(matcher.Filter(items))
			}
		}
		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-view.Done():
				return
			case c := <-view.Commands():
				if c.Type == "rerun" {
					run()
				}
			}
		}
	}()

	err := view.Start()
	cancel()
	wg.Wait()
	r.StopWatch()
	return err
}
