// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside logimesh.
//
// Core goals:
//   - Unify providers behind a single channel based Generate interface
//   - Normalize tool call representation (ToolDefinition, core.ToolInvocation)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic mocking for tests (ScriptedModel)
//
// Providers (Anthropic, OpenAI and OpenAI-compatible endpoints such as Gemini)
// implement the Model interface so higher layers (flows, the orchestrator)
// remain decoupled from vendor SDKs. Decorators add rate limiting
// (RateLimited) and logging plus metrics (Instrumented).
package model
