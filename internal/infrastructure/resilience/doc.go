/*
Package resilience provides circuit breaker implementation for graceful degradation.

# Overview

The AI client wraps every outbound call in a Breaker so a dead upstream
fails fast instead of tying up request handlers until their timeouts.
Context cancellation does not count as a failure.

# Usage

	breaker := resilience.New("ai", resilience.Settings{
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("Circuit breaker state change",
				zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	reply, err := resilience.Call(breaker, func() (string, error) {
		return client.Chat(ctx, history, message)
	})

# States

- Closed: Normal operation, requests pass through
- Open: Service unavailable, requests fail immediately
- Half-Open: Testing if service recovered, limited requests allowed

# Pattern

The circuit breaker transitions between states based on success/failure rates:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
