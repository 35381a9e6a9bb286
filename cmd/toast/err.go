package main

import (
	"github.com/ezrec/toast/translate"
)

var f = translate.From

// ErrConfigKey is an unknown key in the config file.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("unknown config key '%v'", string(err))
}
