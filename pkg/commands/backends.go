package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"

	"github.com/granempresa/erp-portal/pkg/backend"
)

var ErrBackendsDown = errors.New("one or more backends are unreachable")

// CheckBackends pings every backend concurrently and prints a table of the results.
func CheckBackends(ctx context.Context, registry *backend.Registry, timeout time.Duration, out io.Writer) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	statuses := registry.PingAll(ctx)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tURL\tSTATUS\tLATENCY\tERROR")
	down := 0
	for _, s := range statuses {
		status := "ok"
		if !s.OK {
			status = "down"
			down++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%s\n", s.Name, s.URL, status, s.Latency, s.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if down > 0 {
		return ErrBackendsDown
	}
	return nil
}
