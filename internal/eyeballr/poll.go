package eyeballr

import (
	"context"
	"time"
)

// poll calls check until it reports done, waiting interval between attempts.
// maxAttempts <= 0 means no cap. It returns the number of attempts made.
// An error from check or a cancelled ctx stops the loop at once.
func poll(ctx context.Context, interval time.Duration, maxAttempts int, check func(attempt int) (bool, error)) (int, bool, error) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for attempt := 1; ; attempt++ {
		done, err := check(attempt)
		if err != nil {
			return attempt, false, err
		}
		if done {
			return attempt, true, nil
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return attempt, false, nil
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return attempt, false, ctx.Err()
		case <-timer.C:
		}
	}
}
