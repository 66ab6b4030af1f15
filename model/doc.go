// Package model defines the provider‑agnostic abstractions and concrete
// helpers for interacting with language models inside supportmesh.
//
// Core goals:
//   - Unify streaming + non‑streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition, core.FunctionCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic testing (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (agents, graph nodes) remain decoupled from vendor SDKs.
package model
