// Package api exposes a curator Engine over HTTP with echo.
//
// Routes:
//
//	GET  /health
//	GET  /metrics
//	POST /api/v1/recommend
//	POST /api/v1/prioritize
//	POST /api/v1/decompose
//	POST /api/v1/feedback
//	GET  /api/v1/feedback?userId=&resourceId=
//	POST /api/v1/interactions
//	GET  /api/v1/users/:userId/interactions/:resourceId
//	GET  /api/v1/users/:userId/liked-tags
//	GET  /api/v1/users/:userId/stats
//	GET  /api/v1/users/:userId/usage
//
// Validation failures map to 400, an exhausted quota to 429, a missing
// remote service to 503 and remote or parse failures to 502.
package api
