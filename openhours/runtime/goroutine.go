package runtime

import "context"

// SafeGoWithContextAndComponent runs fn in a new goroutine whose panics are
// recovered and reported under component and name, then handled per policy.
//
//	runtime.SafeGoWithContextAndComponent(ctx, logger, "server", "http_listener", runtime.KeepRunning,
//		func(ctx context.Context) { errCh <- app.Listen(addr) })
func SafeGoWithContextAndComponent(
	ctx context.Context,
	logger Logger,
	component, name string,
	policy PanicPolicy,
	fn func(context.Context),
) {
	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		defer RecoverWithPolicyAndContext(ctx, logger, component, name, policy)

		fn(ctx)
	}()
}

// SafeGo is SafeGoWithContextAndComponent with a background context and no component.
func SafeGo(logger Logger, name string, policy PanicPolicy, fn func()) {
	SafeGoWithContextAndComponent(context.Background(), logger, "", name, policy, func(context.Context) {
		fn()
	})
}
