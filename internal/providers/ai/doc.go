/*
Package ai implements the Astra assistant, AI image editing and the themed
wallpaper fetcher.

Chat and image editing speak the Gemini generateContent REST API. Wallpapers
come from a seeded picsum-style image service and are returned as data URIs.

All outbound calls share one resty client on a go-retryablehttp transport
and run behind a circuit breaker, so a failing upstream is rejected quickly
instead of holding request handlers open.

# Usage

	client := ai.NewClient(cfg.AI, ai.WithLogger(log), ai.WithMetrics(metrics))

	uri, err := client.Wallpaper(ctx, "mountains")
	reply, err := client.Chat(ctx, history, "hello")
*/
package ai
