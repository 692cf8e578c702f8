// Package testbed is a miniature game host used to exercise the full
// scripting surface end to end: a world of named props, a scripted player
// camera, and a binder exposing the whole catalog including hot reload
// control. It doubles as the reference for wiring a real host.
package testbed
