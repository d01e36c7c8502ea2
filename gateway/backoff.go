// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package gateway

import (
	"context"
	"math/rand/v2"
	"time"
)

// backoffDelay computes the exponential backoff delay for a retry:
// base * 2^attempt, scaled by the jitter factor. attempt is zero-based.
func backoffDelay(base time.Duration, attempt int, jitter float64) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return time.Duration(float64(delay) * jitter)
}

// defaultJitter returns a random scale factor in [0.5, 1.0).
func defaultJitter() float64 {
	return 0.5 + rand.Float64()*0.5
}

// sleepContext sleeps for the given duration unless the context is
// cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
