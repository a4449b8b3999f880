// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"
)

// hold a logger channel for last-resort reporting of invariant violations
// that are not consensus conditions (a corrupt local buffer, a store that
// returned a hash that does not match its own payload) - these are bugs,
// not NotValidError/NotCurrentlyValidError
var log *logger.L

// Initialise sets up the panic-reporting log channel.
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New("PANIC")
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise flushes any buffered log data.
func Finalise() {
	if nil != log {
		log.Flush()
	}
}

// PanicWithError logs then panics - used only for conditions that indicate
// a bug in this subsystem, never for NotValid/NotCurrentlyValid appendices.
func PanicWithError(message string, err error) {
	s := fmt.Sprintf("%s failed with error: %v", message, err)
	internalCriticalf("%s", s)
	time.Sleep(100 * time.Millisecond) // allow logging output to flush
	panic(s)
}

// PanicIfError is PanicWithError guarded by a nil check.
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	PanicWithError(message, err)
}

func internalCriticalf(format string, arguments ...interface{}) {
	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
	} else {
		log.Criticalf(format, arguments...)
		log.Flush()
	}
}
