// Package tts maps a compiled scene onto the Tabletop Simulator save format.
//
// The wire structs in save.go carry the exact JSON field names the game
// reads. [Serializer] translates each registry component into one or more
// object states, attaches the table's annotations to its surface object
// and turns the players section into hand zones. [Marshal] renders the
// result as indented JSON.
package tts
