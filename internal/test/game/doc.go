// Package game runs the Lua scenario scripts under scenarios/ as tests.
package game
