package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries the request id set by the API logging middleware so
// per-operation timings can be correlated with the request log line.
const RequestIDKey ctxKey = "req_id"

// Time logs the duration of the named operation when the returned func runs.
// Use with a named error return:
//
//	defer obs.Time(ctx, "shipments.list")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
