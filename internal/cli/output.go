package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tahirov/xlrename/pkg/rename"
	"github.com/tahirov/xlrename/pkg/task"
)

type subscriber interface {
	Subscribe(ch chan<- task.Event)
}

// watchEvents streams progress to stderr while a batch runs. Progress lines
// rewrite in place on a terminal and are skipped entirely when stderr is
// redirected. The returned join function must be called once the batch has
// returned: it drains buffered events and waits for the printer, so the
// final line is flushed on success and the goroutine ends even when the
// batch aborted before broadcasting a completion event.
func watchEvents(cmd *cobra.Command, s subscriber) (join func()) {
	ch := make(chan task.Event, 64)
	s.Subscribe(ch)

	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	emit := func(event task.Event) (done bool) {
		switch e := event.(type) {
		case task.EventProgress:
			if isTTY {
				mustN(fmt.Fprintf(cmd.ErrOrStderr(), "\r%3.0f%% %s", e.Percentage, e.Step))
			}

		case task.EventDone:
			if isTTY {
				mustN(fmt.Fprintf(cmd.ErrOrStderr(), "\r%s\n", e.Message))
			}

			return true
		}

		return false
	}

	quit := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)

		for {
			select {
			case event := <-ch:
				if emit(event) {
					return
				}

			case <-quit:
				// The batch has returned; whatever is buffered is all
				// that is coming.
				for {
					select {
					case event := <-ch:
						if emit(event) {
							return
						}
					default:
						return
					}
				}
			}
		}
	}()

	return func() {
		close(quit)
		<-finished
	}
}

// reportResults prints one line per item and fails when any item failed.
func reportResults(cmd *cobra.Command, results []rename.Result) error {
	var failed int

	for _, r := range results {
		if r.Success {
			mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.OldName, r.NewName))

			continue
		}

		failed++

		mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.OldName, r.Message))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(results))
	}

	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
