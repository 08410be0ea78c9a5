package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Materialize bool
	Extract     bool
	Patch       bool
	Store       bool
}

var d *debug

func init() {
	d = &debug{}
	d.Materialize = boolEnv("DYN_DEBUG_MATERIALIZE")
	d.Extract = boolEnv("DYN_DEBUG_EXTRACT")
	d.Patch = boolEnv("DYN_DEBUG_PATCH")
	d.Store = boolEnv("DYN_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Materialize() bool {
	return d.Materialize
}
func Extract() bool {
	return d.Extract
}
func Patch() bool {
	return d.Patch
}
func Store() bool {
	return d.Store
}
