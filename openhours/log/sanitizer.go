package log

import (
	"context"
	"fmt"
)

// SafeError logs err at error level. With production set, only the error's
// Go type is written, so messages carrying request data stay out of the logs.
func SafeError(ctx context.Context, logger Logger, msg string, err error, production bool, fields ...Field) {
	if logger == nil || err == nil || !logger.Enabled(LevelError) {
		return
	}

	if production {
		fields = append(fields, String("error_type", fmt.Sprintf("%T", err)))
	} else {
		fields = append(fields, Err(err))
	}

	logger.Log(ctx, LevelError, msg, fields...)
}
