// Package middleware provides HTTP middleware for the graforest MCP gateway.
// These middleware functions handle security headers, CORS, request size
// limits, metrics recording, and other cross-cutting concerns.
package middleware
