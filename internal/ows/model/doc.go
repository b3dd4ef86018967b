// Package model holds the scheduler records exchanged with an OWS node and
// the key=value parsing used to fill them from command arguments.
//
//	key, value, err := model.SplitLine('=', "weight = 10 # heavy")
//	// key == "weight", value == "10"
//	err = model.UpdateNode(&node, key, value)
package model
