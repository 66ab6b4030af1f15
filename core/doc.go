// Package core provides the message model shared by every other package in
// supportmesh: role-tagged messages built from a closed set of parts (text,
// function calls and function responses).
//
// A conversation is an ordered slice of Message values. Function calls carry a
// correlation id which the matching function response echoes back, so tool
// results can be paired with the request that produced them regardless of the
// model provider in use.
package core
