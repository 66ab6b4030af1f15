// Package mocktools provides the deterministic, side-effect free tools used by
// the support router and the tool calling demo. Every tool returns fixed mock
// data; lookups keyed by city fall back to a "not available" string instead of
// failing.
package mocktools
