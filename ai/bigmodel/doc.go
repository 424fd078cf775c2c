// Package bigmodel implements the ai interfaces against the BigModel
// OpenAI-compatible API.
//
// Every request carries a freshly signed bearer token derived from the
// "id.secret" API key. Embeddings are requested through go-openai, whose
// typed errors keep the HTTP status; chat completions go through langchaingo.
// Both share a client-side rate limiter and apply the configured timeout to
// each call.
//
// # Usage
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("AI_API_KEY")))
//	provider, err := bigmodel.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err) // *ai.ConfigError for a missing or malformed key
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"a", "b"})
//	reply, err := provider.Generator().Generate(ctx, "You are a coach.", "Plan my week")
package bigmodel
