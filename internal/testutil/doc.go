// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing conversations (human triggers, agent replies,
// tool calls and tool results). They are not intended for production usage.
package testutil
