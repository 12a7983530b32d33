package helper

import (
	"runtime"
	"strings"
)

const unknownFunc = "unknown"

// GetFuncName returns the caller's function name without its import path,
// e.g. "campgroundservice.(*CampgroundService).EditCampground".
func GetFuncName() string {
	return funcName(2)
}

func funcName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return unknownFunc
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unknownFunc
	}
	return ShortFuncName(fn.Name())
}

// ShortFuncName strips the import path from a qualified function name.
func ShortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
