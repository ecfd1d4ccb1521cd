package selector

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// Site is where a selector was declared.
type Site struct {
	File     string
	Line     int
	Function string
}

func (s Site) String() string {
	if s.File == "" {
		return "unknown"
	}

	return filepath.Base(s.File) + ":" + strconv.Itoa(s.Line)
}

var selfPkg = pkgPath()

func pkgPath() string {
	return reflect.TypeFor[Selector]().PkgPath()
}

// caller returns the first frame outside this package.
func caller() Site {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		f, more := frames.Next()
		if !skipped(f.Function) {
			return Site{File: f.File, Line: f.Line, Function: f.Function}
		}

		if !more {
			return Site{}
		}
	}
}

func skipped(function string) bool {
	return strings.HasPrefix(function, selfPkg+".")
}
