package core

import (
	"context"
	"errors"
	"os"
	"time"
)

// ContextCause returns the context error behind an I/O failure, or nil.
//
// Socket deadlines are copied from ctx, so the socket may expire a moment
// before ctx reports it. A deadline error after ctx's deadline has passed is
// therefore attributed to context.DeadlineExceeded.
func ContextCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
			return context.DeadlineExceeded
		}
	}
	return nil
}
